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
)

// unknownSeries is a single double value of unspecified kind (spec.md
// §3.3), for bridging metrics whose semantics (counter vs. gauge)
// aren't known at instrumentation time.
type unknownSeries struct {
	labels   Labels
	bits     atomic.Uint64
	exemplar atomic.Pointer[Exemplar]
	buf      observationBuffer
}

// Unknown is the untyped instrument kind.
type Unknown struct {
	metadata Metadata
	index    *labelIndex
	noLabels *unknownSeries
}

// NewUnknown builds an Unknown family.
func NewUnknown(metadata Metadata, labelNames []string, constLabels Labels) (*Unknown, error) {
	idx, err := newLabelIndex(labelNames, constLabels)
	if err != nil {
		return nil, err
	}
	u := &Unknown{metadata: metadata, index: idx}
	if len(labelNames) == 0 {
		labels, err := idx.labelsFor(nil)
		if err != nil {
			return nil, err
		}
		u.noLabels = &unknownSeries{labels: labels}
	}
	return u, nil
}

func (u *Unknown) WithLabelValues(values ...string) (*UnknownObserver, error) {
	if u.noLabels != nil {
		if len(values) != 0 {
			return nil, newError(InvalidArgument, "unknown metric takes no labels")
		}
		return &UnknownObserver{series: u.noLabels}, nil
	}
	v, err := u.index.getOrCreate(values, func() (interface{}, error) {
		labels, err := u.index.labelsFor(values)
		if err != nil {
			return nil, err
		}
		return &unknownSeries{labels: labels}, nil
	})
	if err != nil {
		return nil, err
	}
	return &UnknownObserver{series: v.(*unknownSeries)}, nil
}

// UnknownObserver is the per-labelset handle returned by WithLabelValues.
type UnknownObserver struct {
	series *unknownSeries
}

func (o *UnknownObserver) Set(v float64) {
	o.series.buf.recordOrBuffer(func() { o.series.bits.Store(math.Float64bits(v)) })
}

func (u *Unknown) Describe() (Metadata, Type) { return u.metadata, TypeUnknown }

func (u *Unknown) Collect() FamilySnapshot {
	snap := FamilySnapshot{Metadata: u.metadata, Type: TypeUnknown}
	collect := func(s *unknownSeries) {
		s.buf.beginSnapshot()
		ss := SeriesSnapshot{Labels: s.labels, Value: math.Float64frombits(s.bits.Load()), Exemplar: s.exemplar.Load()}
		s.buf.endSnapshot()
		snap.Series = append(snap.Series, ss)
	}
	if u.noLabels != nil {
		collect(u.noLabels)
	} else {
		u.index.forEach(func(v interface{}) { collect(v.(*unknownSeries)) })
	}
	return snap
}
