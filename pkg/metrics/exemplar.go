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

import "time"

// maxExemplarLabelBytes is the OpenMetrics limit on the serialised
// label set of an exemplar (spec.md §3.4).
const maxExemplarLabelBytes = 128

// Exemplar is a single sampled observation attached to a bucket/series
// (spec.md §3.4): a value, labels (conventionally trace_id/span_id plus
// user labels) and a millisecond timestamp.
type Exemplar struct {
	Value           float64
	Labels          Labels
	TimestampMillis int64
}

func (e Exemplar) labelBytes() int {
	n := 0
	for _, l := range e.Labels {
		n += len(l.Name) + len(l.Value) + len(`=""`)
	}
	if len(e.Labels) > 1 {
		n += len(e.Labels) - 1 // commas
	}
	return n
}

// validate enforces the OpenMetrics 128-byte label-set cap.
func (e Exemplar) validate() error {
	if e.labelBytes() > maxExemplarLabelBytes {
		return newErrorf(InvalidArgument, "exemplar label set is %d bytes, exceeds the %d byte OpenMetrics limit", e.labelBytes(), maxExemplarLabelBytes)
	}
	return nil
}

// NewExemplar builds and validates an Exemplar at the given instant.
func NewExemplar(value float64, labels Labels, at time.Time) (Exemplar, error) {
	e := Exemplar{Value: value, Labels: labels, TimestampMillis: at.UnixMilli()}
	if err := e.validate(); err != nil {
		return Exemplar{}, err
	}
	return e, nil
}

// Sampler decides whether a plain (non-ObserveWithExemplar) observation
// landing in (lowExclusive, highInclusive] should attach or replace a
// bucket's exemplar (spec.md §4.6). It returns the labels to attach and
// ok=true to replace, or ok=false to leave the bucket's exemplar
// untouched. previous is nil if the bucket has no exemplar yet.
//
// ObserveWithExemplar bypasses this entirely: it always overwrites with
// caller-supplied labels.
type Sampler func(value, lowExclusive, highInclusive float64, previous *Exemplar, now time.Time) (labels Labels, ok bool)

// DefaultMinRetention is the minimum time the default sampler keeps an
// exemplar before allowing a replacement.
const DefaultMinRetention = 7 * time.Second

// NewDefaultSampler returns the policy described in spec.md §4.6: accept
// the first observation landing in a bucket (with no labels, since a
// plain Observe call carries none), then replace only once at least
// minRetention has elapsed since the previous exemplar's timestamp.
func NewDefaultSampler(minRetention time.Duration) Sampler {
	if minRetention <= 0 {
		minRetention = DefaultMinRetention
	}
	return func(_, _, _ float64, previous *Exemplar, now time.Time) (Labels, bool) {
		if previous == nil {
			return nil, true
		}
		if now.Sub(time.UnixMilli(previous.TimestampMillis)) < minRetention {
			return nil, false
		}
		return nil, true
	}
}

// NoSampler attaches no exemplars on plain Observe calls; exemplars only
// ever arrive via ObserveWithExemplar.
func NoSampler() Sampler {
	return func(_, _, _ float64, _ *Exemplar, _ time.Time) (Labels, bool) {
		return nil, false
	}
}
