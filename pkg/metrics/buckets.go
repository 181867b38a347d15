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

import (
	"math"
	"sort"
)

// DefaultBuckets mirrors the conventional HTTP-latency bucket schema
// (spec.md §4.5).
func DefaultBuckets() []float64 {
	return []float64{0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1.0, 2.5, 5.0, 7.5, 10.0}
}

// LinearBuckets returns count buckets, each width wide, starting at
// start: start, start+width, start+2*width, ....
func LinearBuckets(start, width float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	buckets := make([]float64, count)
	for i := range buckets {
		buckets[i] = start
		start += width
	}
	return buckets
}

// ExponentialBuckets returns count buckets, each factor times the
// previous, starting at start. start must be > 0 and factor > 1.
func ExponentialBuckets(start, factor float64, count int) []float64 {
	if count <= 0 || start <= 0 || factor <= 1 {
		return nil
	}
	buckets := make([]float64, count)
	for i := range buckets {
		buckets[i] = start
		start *= factor
	}
	return buckets
}

// sanitizeBuckets applies spec.md §4.5's construction rules: dedupe,
// sort ascending, append +Inf if absent, reject NaN, and treat an empty
// input as [+Inf].
func sanitizeBuckets(bounds []float64) ([]float64, error) {
	if len(bounds) == 0 {
		return []float64{math.Inf(1)}, nil
	}
	out := make([]float64, 0, len(bounds)+1)
	seen := make(map[float64]struct{}, len(bounds))
	for _, b := range bounds {
		if math.IsNaN(b) {
			return nil, newError(InvalidArgument, "histogram bucket bound must not be NaN")
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	sort.Float64s(out)
	if out[len(out)-1] != math.Inf(1) {
		out = append(out, math.Inf(1))
	}
	return out, nil
}
