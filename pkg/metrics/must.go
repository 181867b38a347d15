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

// MustCounter is NewCounter, panicking on error. For package-scope
// declarations where a bad name/label is a programmer error that
// should fail fast at startup (spec.md §9 design note on builders).
func MustCounter(metadata Metadata, labelNames []string, constLabels Labels) *Counter {
	c, err := NewCounter(metadata, labelNames, constLabels)
	if err != nil {
		panic(err)
	}
	return c
}

// MustGauge is NewGauge, panicking on error.
func MustGauge(metadata Metadata, labelNames []string, constLabels Labels) *Gauge {
	g, err := NewGauge(metadata, labelNames, constLabels)
	if err != nil {
		panic(err)
	}
	return g
}

// MustHistogram is NewHistogram, panicking on error.
func MustHistogram(metadata Metadata, labelNames []string, constLabels Labels, bounds []float64, opts ...HistogramOption) *Histogram {
	h, err := NewHistogram(metadata, labelNames, constLabels, bounds, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// MustSummary is NewSummary, panicking on error.
func MustSummary(metadata Metadata, labelNames []string, constLabels Labels, targets []QuantileTarget, opts ...SummaryOption) *Summary {
	s, err := NewSummary(metadata, labelNames, constLabels, targets, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// MustStateSet is NewStateSet, panicking on error.
func MustStateSet(metadata Metadata, labelNames []string, constLabels Labels, stateNames []string) *StateSet {
	s, err := NewStateSet(metadata, labelNames, constLabels, stateNames)
	if err != nil {
		panic(err)
	}
	return s
}
