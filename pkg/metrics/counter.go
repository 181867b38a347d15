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
	"sync/atomic"
	"time"
)

// counterSeries is the per-labelset state behind one Counter observer
// (spec.md §3.3, §4.2): a split accumulator of a whole-number atomic
// integer plus a CAS-looped fractional double, summed only at snapshot
// time, and an observation buffer for the §4.7 protocol.
//
// Grounded on the package-level atomic counters in
// pkg/export/export.go, generalized from process-global counters to
// one instance per label tuple.
type counterSeries struct {
	labels                 Labels
	createdTimestampMillis int64

	whole    atomic.Uint64
	fracBits atomic.Uint64 // math.Float64bits of the fractional remainder

	exemplar atomic.Pointer[Exemplar]
	buf      observationBuffer
}

func newCounterSeries(labels Labels, now time.Time) *counterSeries {
	return &counterSeries{labels: labels, createdTimestampMillis: now.UnixMilli()}
}

func (s *counterSeries) add(delta float64) {
	whole := math.Trunc(delta)
	frac := delta - whole
	if whole != 0 {
		s.whole.Add(uint64(whole))
	}
	if frac != 0 {
		for {
			old := s.fracBits.Load()
			next := math.Float64bits(math.Float64frombits(old) + frac)
			if s.fracBits.CompareAndSwap(old, next) {
				break
			}
		}
	}
}

func (s *counterSeries) value() float64 {
	return float64(s.whole.Load()) + math.Float64frombits(s.fracBits.Load())
}

// Counter is a monotonically non-decreasing accumulator (spec.md §4.2).
// It has no automatic exemplar sampler: AddWithExemplar is the only way
// to attach one, unlike Histogram's Observe/WithSampler pairing.
type Counter struct {
	metadata Metadata
	index    *labelIndex

	// noLabels is the eagerly created default series when the counter
	// takes no variable labels (spec.md §4.1).
	noLabels *counterSeries
}

// NewCounter builds a Counter. labelNames fixes the arity and order of
// WithLabelValues' arguments; pass none for an unlabelled counter.
func NewCounter(metadata Metadata, labelNames []string, constLabels Labels) (*Counter, error) {
	idx, err := newLabelIndex(labelNames, constLabels)
	if err != nil {
		return nil, err
	}
	c := &Counter{metadata: metadata, index: idx}
	if len(labelNames) == 0 {
		labels, err := idx.labelsFor(nil)
		if err != nil {
			return nil, err
		}
		c.noLabels = newCounterSeries(labels, time.Now())
	}
	return c, nil
}

// WithLabelValues returns the observer for one label tuple, creating it
// on first use.
func (c *Counter) WithLabelValues(values ...string) (*CounterObserver, error) {
	if c.noLabels != nil {
		if len(values) != 0 {
			return nil, newError(InvalidArgument, "counter takes no labels")
		}
		return &CounterObserver{counter: c, series: c.noLabels}, nil
	}
	v, err := c.index.getOrCreate(values, func() (interface{}, error) {
		labels, err := c.index.labelsFor(values)
		if err != nil {
			return nil, err
		}
		return newCounterSeries(labels, time.Now()), nil
	})
	if err != nil {
		return nil, err
	}
	return &CounterObserver{counter: c, series: v.(*counterSeries)}, nil
}

// CounterObserver is the per-labelset handle returned by WithLabelValues.
type CounterObserver struct {
	counter *Counter
	series  *counterSeries
}

// Inc increments by 1.
func (o *CounterObserver) Inc() { o.Add(1) }

// Add increments by delta, which must be >= 0.
func (o *CounterObserver) Add(delta float64) error {
	if delta < 0 || math.IsNaN(delta) {
		return newErrorf(InvalidArgument, "counter increment must be >= 0, got %v", delta)
	}
	o.series.buf.recordOrBuffer(func() { o.series.add(delta) })
	return nil
}

// AddWithExemplar increments by delta and attaches the given exemplar
// labels, bypassing the sampler (spec.md §4.6).
func (o *CounterObserver) AddWithExemplar(delta float64, labels Labels) error {
	if delta < 0 || math.IsNaN(delta) {
		return newErrorf(InvalidArgument, "counter increment must be >= 0, got %v", delta)
	}
	now := time.Now()
	ex, err := NewExemplar(delta, labels, now)
	if err != nil {
		return err
	}
	o.series.buf.recordOrBuffer(func() {
		o.series.add(delta)
		o.series.exemplar.Store(&ex)
	})
	return nil
}

func (c *Counter) Describe() (Metadata, Type) { return c.metadata, TypeCounter }

func (c *Counter) Collect() FamilySnapshot {
	snap := FamilySnapshot{Metadata: c.metadata, Type: TypeCounter}
	collect := func(s *counterSeries) {
		s.buf.beginSnapshot()
		ss := SeriesSnapshot{
			Labels:                 s.labels,
			CreatedTimestampMillis: s.createdTimestampMillis,
			Value:                  s.value(),
			Exemplar:               s.exemplar.Load(),
		}
		s.buf.endSnapshot()
		snap.Series = append(snap.Series, ss)
	}
	if c.noLabels != nil {
		collect(c.noLabels)
	} else {
		c.index.forEach(func(v interface{}) { collect(v.(*counterSeries)) })
	}
	return snap
}
