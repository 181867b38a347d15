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

// Type identifies the wire type of a metric family (spec.md §4.9).
type Type int

const (
	TypeCounter Type = iota
	TypeGauge
	TypeSummary
	TypeHistogram
	TypeGaugeHistogram
	TypeInfo
	TypeStateSet
	TypeUnknown
)

func (t Type) String() string {
	switch t {
	case TypeCounter:
		return "counter"
	case TypeGauge:
		return "gauge"
	case TypeSummary:
		return "summary"
	case TypeHistogram:
		return "histogram"
	case TypeGaugeHistogram:
		return "gaugehistogram"
	case TypeInfo:
		return "info"
	case TypeStateSet:
		return "stateset"
	case TypeUnknown:
		return "unknown"
	default:
		return "untyped"
	}
}

// FamilySnapshot is the immutable value object a Collector returns from
// Collect (spec.md §3.5, §4.9). It shares no mutable state with the
// live series it was built from.
type FamilySnapshot struct {
	Metadata Metadata
	Type     Type
	Series   []SeriesSnapshot
}

// SeriesSnapshot is one labelled time series within a family at the
// moment of collection.
type SeriesSnapshot struct {
	Labels Labels

	// CreatedTimestampMillis is 0 when absent (see SPEC_FULL.md open
	// question 1): the writer omits the _created line in that case.
	CreatedTimestampMillis int64
	// ScrapeTimestampMillis is 0 when the writer should omit an
	// explicit per-sample timestamp.
	ScrapeTimestampMillis int64

	// Counter / Gauge / Info / Unknown.
	Value    float64
	Exemplar *Exemplar

	// Histogram / GaugeHistogram.
	Buckets []BucketSnapshot
	Sum     float64
	Count   uint64

	// Summary.
	Quantiles []QuantileSnapshot

	// StateSet.
	States []StateSnapshot
}

// BucketSnapshot is one cumulative histogram bucket.
type BucketSnapshot struct {
	UpperBound float64
	Count      uint64
	Exemplar   *Exemplar
}

// QuantileSnapshot is one estimated summary quantile.
type QuantileSnapshot struct {
	Quantile float64
	Value    float64
}

// StateSnapshot is one named boolean flag of a stateset series.
type StateSnapshot struct {
	Name    string
	Enabled bool
}
