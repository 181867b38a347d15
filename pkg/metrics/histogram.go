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
	"sync/atomic"
	"time"
)

// histogramSeries stores one non-cumulative atomic counter per bucket
// (landing-bucket increment, O(log B) binary search) and prefix-sums
// into the cumulative counts a writer expects only at snapshot time.
// This satisfies both the spec.md §4.5 observation rule ("increment
// every bucket whose upper bound is >= v") and keeps the hot path to one
// binary search plus three atomic updates (landing bucket, count, sum)
// without literally touching every bucket on every observation.
type histogramSeries struct {
	labels                 Labels
	upperBounds            []float64
	createdTimestampMillis int64

	counts    []atomic.Uint64
	sumBits   atomic.Uint64
	count     atomic.Uint64
	exemplars []atomic.Pointer[Exemplar]

	buf observationBuffer
}

func newHistogramSeries(labels Labels, upperBounds []float64, now time.Time) *histogramSeries {
	s := &histogramSeries{
		labels:                 labels,
		upperBounds:            upperBounds,
		createdTimestampMillis: now.UnixMilli(),
		counts:                 make([]atomic.Uint64, len(upperBounds)),
		exemplars:              make([]atomic.Pointer[Exemplar], len(upperBounds)),
	}
	return s
}

// bucketFor returns the index of the smallest upper bound >= v.
func (s *histogramSeries) bucketFor(v float64) int {
	return sort.Search(len(s.upperBounds), func(i int) bool { return s.upperBounds[i] >= v })
}

func (s *histogramSeries) observe(v float64) int {
	idx := s.bucketFor(v)
	if idx == len(s.upperBounds) {
		idx = len(s.upperBounds) - 1 // +Inf is always last and always matches
	}
	s.counts[idx].Add(1)
	s.count.Add(1)
	for {
		old := s.sumBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + v)
		if s.sumBits.CompareAndSwap(old, next) {
			break
		}
	}
	return idx
}

func (s *histogramSeries) sum() float64 { return math.Float64frombits(s.sumBits.Load()) }

// cumulative returns the per-bucket cumulative counts, O(B).
func (s *histogramSeries) cumulative() []uint64 {
	out := make([]uint64, len(s.counts))
	var running uint64
	for i := range s.counts {
		running += s.counts[i].Load()
		out[i] = running
	}
	return out
}

// Histogram is a fixed-bucket cumulative histogram (spec.md §4.5). With
// gaugeHistogram set it is exposed as a gaugehistogram instead.
type Histogram struct {
	metadata       Metadata
	index          *labelIndex
	upperBounds    []float64
	sampler        Sampler
	gaugeHistogram bool

	noLabels *histogramSeries
}

// HistogramOption configures NewHistogram.
type HistogramOption func(*Histogram)

// AsGaugeHistogram exposes the family with type gaugehistogram and the
// _gcount/_gsum suffixes instead of histogram/_count/_sum.
func AsGaugeHistogram() HistogramOption { return func(h *Histogram) { h.gaugeHistogram = true } }

// WithSampler installs the exemplar sampler consulted on every plain
// Observe call (spec.md §4.6). Defaults to NoSampler.
func WithSampler(s Sampler) HistogramOption { return func(h *Histogram) { h.sampler = s } }

// NewHistogram builds a Histogram. An empty bounds list becomes [+Inf].
func NewHistogram(metadata Metadata, labelNames []string, constLabels Labels, bounds []float64, opts ...HistogramOption) (*Histogram, error) {
	idx, err := newLabelIndex(labelNames, constLabels)
	if err != nil {
		return nil, err
	}
	for _, n := range labelNames {
		if n == "le" {
			return nil, newError(InvalidName, `label name "le" is reserved on histograms`)
		}
	}
	sanitized, err := sanitizeBuckets(bounds)
	if err != nil {
		return nil, err
	}
	h := &Histogram{metadata: metadata, index: idx, upperBounds: sanitized, sampler: NoSampler()}
	for _, opt := range opts {
		opt(h)
	}
	if len(labelNames) == 0 {
		labels, err := idx.labelsFor(nil)
		if err != nil {
			return nil, err
		}
		h.noLabels = newHistogramSeries(labels, sanitized, time.Now())
	}
	return h, nil
}

func (h *Histogram) WithLabelValues(values ...string) (*HistogramObserver, error) {
	if h.noLabels != nil {
		if len(values) != 0 {
			return nil, newError(InvalidArgument, "histogram takes no labels")
		}
		return &HistogramObserver{histogram: h, series: h.noLabels}, nil
	}
	v, err := h.index.getOrCreate(values, func() (interface{}, error) {
		labels, err := h.index.labelsFor(values)
		if err != nil {
			return nil, err
		}
		return newHistogramSeries(labels, h.upperBounds, time.Now()), nil
	})
	if err != nil {
		return nil, err
	}
	return &HistogramObserver{histogram: h, series: v.(*histogramSeries)}, nil
}

// HistogramObserver is the per-labelset handle returned by WithLabelValues.
type HistogramObserver struct {
	histogram *Histogram
	series    *histogramSeries
}

func (o *HistogramObserver) Observe(v float64) error {
	if math.IsNaN(v) {
		return newError(InvalidArgument, "histogram observation must not be NaN")
	}
	o.series.buf.recordOrBuffer(func() {
		idx := o.series.observe(v)
		o.applySampler(idx, v)
	})
	return nil
}

func (o *HistogramObserver) applySampler(idx int, v float64) {
	low := math.Inf(-1)
	if idx > 0 {
		low = o.series.upperBounds[idx-1]
	}
	high := o.series.upperBounds[idx]
	previous := o.series.exemplars[idx].Load()
	labels, ok := o.histogram.sampler(v, low, high, previous, time.Now())
	if !ok {
		return
	}
	ex, err := NewExemplar(v, labels, time.Now())
	if err != nil {
		return
	}
	o.series.exemplars[idx].Store(&ex)
}

// ObserveWithExemplar observes v and unconditionally attaches labels as
// the landing bucket's exemplar, bypassing the sampler (spec.md §4.6).
func (o *HistogramObserver) ObserveWithExemplar(v float64, labels Labels) error {
	if math.IsNaN(v) {
		return newError(InvalidArgument, "histogram observation must not be NaN")
	}
	now := time.Now()
	ex, err := NewExemplar(v, labels, now)
	if err != nil {
		return err
	}
	o.series.buf.recordOrBuffer(func() {
		idx := o.series.observe(v)
		o.series.exemplars[idx].Store(&ex)
	})
	return nil
}

func (h *Histogram) Describe() (Metadata, Type) {
	if h.gaugeHistogram {
		return h.metadata, TypeGaugeHistogram
	}
	return h.metadata, TypeHistogram
}

func (h *Histogram) Collect() FamilySnapshot {
	typ := TypeHistogram
	if h.gaugeHistogram {
		typ = TypeGaugeHistogram
	}
	snap := FamilySnapshot{Metadata: h.metadata, Type: typ}
	collect := func(s *histogramSeries) {
		s.buf.beginSnapshot()
		cum := s.cumulative()
		buckets := make([]BucketSnapshot, len(s.upperBounds))
		for i, ub := range s.upperBounds {
			buckets[i] = BucketSnapshot{UpperBound: ub, Count: cum[i], Exemplar: s.exemplars[i].Load()}
		}
		ss := SeriesSnapshot{
			Labels:                 s.labels,
			CreatedTimestampMillis: s.createdTimestampMillis,
			Buckets:                buckets,
			Sum:                    s.sum(),
			Count:                  s.count.Load(),
		}
		s.buf.endSnapshot()
		snap.Series = append(snap.Series, ss)
	}
	if h.noLabels != nil {
		collect(h.noLabels)
	} else {
		h.index.forEach(func(v interface{}) { collect(v.(*histogramSeries)) })
	}
	return snap
}
