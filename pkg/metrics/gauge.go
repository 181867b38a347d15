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

// gaugeSeries holds a single unconstrained atomic double plus an
// optional exemplar (spec.md §4.3).
type gaugeSeries struct {
	labels Labels

	bits     atomic.Uint64 // math.Float64bits
	exemplar atomic.Pointer[Exemplar]
	buf      observationBuffer
}

func newGaugeSeries(labels Labels) *gaugeSeries {
	s := &gaugeSeries{labels: labels}
	s.bits.Store(math.Float64bits(0))
	return s
}

func (s *gaugeSeries) set(v float64) { s.bits.Store(math.Float64bits(v)) }

func (s *gaugeSeries) add(delta float64) {
	for {
		old := s.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if s.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (s *gaugeSeries) value() float64 { return math.Float64frombits(s.bits.Load()) }

// Gauge is an unconstrained-value instrument (spec.md §4.3).
type Gauge struct {
	metadata Metadata
	index    *labelIndex
	noLabels *gaugeSeries
}

// NewGauge builds a Gauge.
func NewGauge(metadata Metadata, labelNames []string, constLabels Labels) (*Gauge, error) {
	idx, err := newLabelIndex(labelNames, constLabels)
	if err != nil {
		return nil, err
	}
	g := &Gauge{metadata: metadata, index: idx}
	if len(labelNames) == 0 {
		labels, err := idx.labelsFor(nil)
		if err != nil {
			return nil, err
		}
		g.noLabels = newGaugeSeries(labels)
	}
	return g, nil
}

// WithLabelValues returns the observer for one label tuple, creating it
// on first use.
func (g *Gauge) WithLabelValues(values ...string) (*GaugeObserver, error) {
	if g.noLabels != nil {
		if len(values) != 0 {
			return nil, newError(InvalidArgument, "gauge takes no labels")
		}
		return &GaugeObserver{series: g.noLabels}, nil
	}
	v, err := g.index.getOrCreate(values, func() (interface{}, error) {
		labels, err := g.index.labelsFor(values)
		if err != nil {
			return nil, err
		}
		return newGaugeSeries(labels), nil
	})
	if err != nil {
		return nil, err
	}
	return &GaugeObserver{series: v.(*gaugeSeries)}, nil
}

// GaugeObserver is the per-labelset handle returned by WithLabelValues.
type GaugeObserver struct {
	series *gaugeSeries
}

func (o *GaugeObserver) Set(v float64) {
	o.series.buf.recordOrBuffer(func() { o.series.set(v) })
}

func (o *GaugeObserver) Inc() { o.Add(1) }
func (o *GaugeObserver) Dec() { o.Add(-1) }

func (o *GaugeObserver) Add(delta float64) {
	o.series.buf.recordOrBuffer(func() { o.series.add(delta) })
}

// SetToCurrentTime sets the gauge to the number of seconds since the
// Unix epoch, as a float.
func (o *GaugeObserver) SetToCurrentTime() {
	now := float64(time.Now().UnixNano()) / 1e9
	o.Set(now)
}

func (g *Gauge) Describe() (Metadata, Type) { return g.metadata, TypeGauge }

func (g *Gauge) Collect() FamilySnapshot {
	snap := FamilySnapshot{Metadata: g.metadata, Type: TypeGauge}
	collect := func(s *gaugeSeries) {
		s.buf.beginSnapshot()
		ss := SeriesSnapshot{Labels: s.labels, Value: s.value(), Exemplar: s.exemplar.Load()}
		s.buf.endSnapshot()
		snap.Series = append(snap.Series, ss)
	}
	if g.noLabels != nil {
		collect(g.noLabels)
	} else {
		g.index.forEach(func(v interface{}) { collect(v.(*gaugeSeries)) })
	}
	return snap
}
