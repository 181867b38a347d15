// Copyright 2026 The Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//     http://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import "sync"

// syncMap is a thin, typed wrapper around sync.Map: lock-free reads,
// atomic insert-if-absent, used for the label-set indexing layer
// (spec.md §4.1, §5).
type syncMap struct {
	m sync.Map
}

func (s *syncMap) Load(key string) (interface{}, bool) {
	return s.m.Load(key)
}

func (s *syncMap) LoadOrStore(key string, value interface{}) (interface{}, bool) {
	return s.m.LoadOrStore(key, value)
}

func (s *syncMap) Range(fn func(key string, value interface{}) bool) {
	s.m.Range(func(k, v interface{}) bool {
		return fn(k.(string), v)
	})
}
