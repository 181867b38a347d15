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
	"sync"
	"sync/atomic"
	"time"

	"github.com/oss-metrics/client-go/pkg/metrics/internal/quantile"
)

// QuantileTarget is one (phi, epsilon) pair a Summary is configured
// for (spec.md §4.4).
type QuantileTarget struct {
	Quantile float64
	Epsilon  float64
}

// slidingWindow implements spec.md §4.4's rotating-bucket sliding
// window over maxAge: ageBuckets independent CKMS streams, the oldest
// reset and promoted to "head" once more than maxAge/ageBuckets has
// elapsed since the last rotation; a gap exceeding the full window
// resets every bucket at once.
type slidingWindow struct {
	mu           sync.Mutex
	buckets      []*quantile.Stream
	targets      []quantile.Target
	maxAge       time.Duration
	rotateEvery  time.Duration
	lastRotation time.Time
	head         int
}

func newSlidingWindow(targets []QuantileTarget, maxAge time.Duration, ageBuckets int) *slidingWindow {
	qt := make([]quantile.Target, len(targets))
	for i, t := range targets {
		qt[i] = quantile.Target{Quantile: t.Quantile, Epsilon: t.Epsilon}
	}
	buckets := make([]*quantile.Stream, ageBuckets)
	for i := range buckets {
		buckets[i] = quantile.New(qt...)
	}
	return &slidingWindow{
		buckets:      buckets,
		targets:      qt,
		maxAge:       maxAge,
		rotateEvery:  maxAge / time.Duration(ageBuckets),
		lastRotation: time.Now(),
	}
}

func (w *slidingWindow) rotateLocked(now time.Time) {
	elapsed := now.Sub(w.lastRotation)
	if elapsed < w.rotateEvery {
		return
	}
	if elapsed >= w.maxAge {
		for _, b := range w.buckets {
			b.Reset()
		}
		w.lastRotation = now
		return
	}
	steps := int(elapsed / w.rotateEvery)
	for i := 0; i < steps && i < len(w.buckets); i++ {
		w.head = (w.head + 1) % len(w.buckets)
		w.buckets[w.head].Reset()
	}
	w.lastRotation = now
}

func (w *slidingWindow) insert(v float64, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rotateLocked(now)
	for _, b := range w.buckets {
		b.Insert(v)
	}
}

// query reads any single live bucket: every bucket that survived a
// rotation holds the same inserts modulo rotation state (spec.md §4.4).
func (w *slidingWindow) query(q float64, now time.Time) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rotateLocked(now)
	return w.buckets[w.head].Query(q)
}

type summarySeries struct {
	labels                 Labels
	createdTimestampMillis int64

	count   atomic.Uint64
	sumBits atomic.Uint64
	window  *slidingWindow

	buf observationBuffer
}

func newSummarySeries(labels Labels, targets []QuantileTarget, maxAge time.Duration, ageBuckets int, now time.Time) *summarySeries {
	return &summarySeries{
		labels:                 labels,
		createdTimestampMillis: now.UnixMilli(),
		window:                 newSlidingWindow(targets, maxAge, ageBuckets),
	}
}

func (s *summarySeries) observe(v float64, now time.Time) {
	s.count.Add(1)
	for {
		old := s.sumBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + v)
		if s.sumBits.CompareAndSwap(old, next) {
			break
		}
	}
	s.window.insert(v, now)
}

func (s *summarySeries) sum() float64 { return math.Float64frombits(s.sumBits.Load()) }

// Summary estimates streaming quantiles over a sliding time window
// using CKMS (spec.md §4.4). Zero targets degenerates to count+sum.
type Summary struct {
	metadata   Metadata
	index      *labelIndex
	targets    []QuantileTarget
	maxAge     time.Duration
	ageBuckets int

	noLabels *summarySeries
}

const (
	defaultMaxAge     = 10 * time.Minute
	defaultAgeBuckets = 5
)

// SummaryOption configures NewSummary.
type SummaryOption func(*Summary)

// WithMaxAge sets the sliding window duration (must be > 0).
func WithMaxAge(d time.Duration) SummaryOption { return func(s *Summary) { s.maxAge = d } }

// WithAgeBuckets sets the number of rotating CKMS buckets (must be > 0).
func WithAgeBuckets(n int) SummaryOption { return func(s *Summary) { s.ageBuckets = n } }

// NewSummary builds a Summary.
func NewSummary(metadata Metadata, labelNames []string, constLabels Labels, targets []QuantileTarget, opts ...SummaryOption) (*Summary, error) {
	idx, err := newLabelIndex(labelNames, constLabels)
	if err != nil {
		return nil, err
	}
	for _, n := range labelNames {
		if n == "quantile" {
			return nil, newError(InvalidName, `label name "quantile" is reserved on summaries`)
		}
	}
	for _, t := range targets {
		if t.Quantile < 0 || t.Quantile > 1 {
			return nil, newErrorf(InvalidArgument, "quantile %v outside [0,1]", t.Quantile)
		}
	}
	s := &Summary{metadata: metadata, index: idx, targets: targets, maxAge: defaultMaxAge, ageBuckets: defaultAgeBuckets}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxAge <= 0 {
		return nil, newError(InvalidArgument, "maxAgeSeconds must be > 0")
	}
	if s.ageBuckets <= 0 {
		return nil, newError(InvalidArgument, "ageBuckets must be > 0")
	}
	if len(labelNames) == 0 {
		labels, err := idx.labelsFor(nil)
		if err != nil {
			return nil, err
		}
		s.noLabels = newSummarySeries(labels, targets, s.maxAge, s.ageBuckets, time.Now())
	}
	return s, nil
}

func (s *Summary) WithLabelValues(values ...string) (*SummaryObserver, error) {
	if s.noLabels != nil {
		if len(values) != 0 {
			return nil, newError(InvalidArgument, "summary takes no labels")
		}
		return &SummaryObserver{series: s.noLabels}, nil
	}
	v, err := s.index.getOrCreate(values, func() (interface{}, error) {
		labels, err := s.index.labelsFor(values)
		if err != nil {
			return nil, err
		}
		return newSummarySeries(labels, s.targets, s.maxAge, s.ageBuckets, time.Now()), nil
	})
	if err != nil {
		return nil, err
	}
	return &SummaryObserver{series: v.(*summarySeries)}, nil
}

// SummaryObserver is the per-labelset handle returned by WithLabelValues.
type SummaryObserver struct {
	series *summarySeries
}

func (o *SummaryObserver) Observe(v float64) error {
	if math.IsNaN(v) {
		return newError(InvalidArgument, "summary observation must not be NaN")
	}
	now := time.Now()
	o.series.buf.recordOrBuffer(func() { o.series.observe(v, now) })
	return nil
}

func (s *Summary) Describe() (Metadata, Type) { return s.metadata, TypeSummary }

func (s *Summary) Collect() FamilySnapshot {
	snap := FamilySnapshot{Metadata: s.metadata, Type: TypeSummary}
	now := time.Now()
	collect := func(series *summarySeries) {
		series.buf.beginSnapshot()
		quantiles := make([]QuantileSnapshot, len(s.targets))
		for i, t := range s.targets {
			quantiles[i] = QuantileSnapshot{Quantile: t.Quantile, Value: series.window.query(t.Quantile, now)}
		}
		sort.Slice(quantiles, func(i, j int) bool { return quantiles[i].Quantile < quantiles[j].Quantile })
		ss := SeriesSnapshot{
			Labels:                 series.labels,
			CreatedTimestampMillis: series.createdTimestampMillis,
			Count:                  series.count.Load(),
			Sum:                    series.sum(),
			Quantiles:              quantiles,
		}
		series.buf.endSnapshot()
		snap.Series = append(snap.Series, ss)
	}
	if s.noLabels != nil {
		collect(s.noLabels)
	} else {
		s.index.forEach(func(v interface{}) { collect(v.(*summarySeries)) })
	}
	return snap
}
