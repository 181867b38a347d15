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

// Info exposes label-valued metadata at a constant value of 1.0
// (spec.md §3.3, §8.2 S5). Series are created once, eagerly, from the
// label value tuples the caller registers.
type Info struct {
	metadata Metadata
	index    *labelIndex
}

// NewInfo builds an Info family.
func NewInfo(metadata Metadata, labelNames []string, constLabels Labels) (*Info, error) {
	idx, err := newLabelIndex(labelNames, constLabels)
	if err != nil {
		return nil, err
	}
	return &Info{metadata: metadata, index: idx}, nil
}

// WithLabelValues registers the series for one label tuple if it is not
// already present, and returns only an error. Info has no further
// per-series operation.
func (in *Info) WithLabelValues(values ...string) error {
	_, err := in.index.getOrCreate(values, func() (interface{}, error) {
		labels, err := in.index.labelsFor(values)
		if err != nil {
			return nil, err
		}
		return labels, nil
	})
	return err
}

func (in *Info) Describe() (Metadata, Type) { return in.metadata, TypeInfo }

func (in *Info) Collect() FamilySnapshot {
	snap := FamilySnapshot{Metadata: in.metadata, Type: TypeInfo}
	in.index.forEach(func(v interface{}) {
		snap.Series = append(snap.Series, SeriesSnapshot{Labels: v.(Labels), Value: 1.0})
	})
	return snap
}
