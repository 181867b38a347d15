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
	"sort"
	"sync/atomic"
)

// statesetSeries holds one atomic boolean flag per declared state name,
// for one label value tuple (spec.md §3.3).
type statesetSeries struct {
	labels Labels
	flags  []atomic.Bool
}

// StateSet models mutually-exclusive-by-convention boolean states as
// sibling series under one family (spec.md §4.9 S4, §3.2: the
// state-label name must equal the metric name).
type StateSet struct {
	metadata   Metadata
	index      *labelIndex
	stateNames []string

	noLabels *statesetSeries
}

// NewStateSet builds a StateSet. stateNames is the fixed, ordered list
// of states every series carries.
func NewStateSet(metadata Metadata, labelNames []string, constLabels Labels, stateNames []string) (*StateSet, error) {
	idx, err := newLabelIndex(labelNames, constLabels)
	if err != nil {
		return nil, err
	}
	if len(stateNames) == 0 {
		return nil, newError(InvalidArgument, "stateset must declare at least one state name")
	}
	ss := &StateSet{metadata: metadata, index: idx, stateNames: append([]string(nil), stateNames...)}
	if len(labelNames) == 0 {
		labels, err := idx.labelsFor(nil)
		if err != nil {
			return nil, err
		}
		ss.noLabels = &statesetSeries{labels: labels, flags: make([]atomic.Bool, len(stateNames))}
	}
	return ss, nil
}

func (ss *StateSet) stateIndex(name string) (int, error) {
	for i, n := range ss.stateNames {
		if n == name {
			return i, nil
		}
	}
	return 0, newErrorf(InvalidArgument, "unknown state %q", name)
}

func (ss *StateSet) WithLabelValues(values ...string) (*StateSetObserver, error) {
	if ss.noLabels != nil {
		if len(values) != 0 {
			return nil, newError(InvalidArgument, "stateset takes no labels")
		}
		return &StateSetObserver{stateset: ss, series: ss.noLabels}, nil
	}
	v, err := ss.index.getOrCreate(values, func() (interface{}, error) {
		labels, err := ss.index.labelsFor(values)
		if err != nil {
			return nil, err
		}
		return &statesetSeries{labels: labels, flags: make([]atomic.Bool, len(ss.stateNames))}, nil
	})
	if err != nil {
		return nil, err
	}
	return &StateSetObserver{stateset: ss, series: v.(*statesetSeries)}, nil
}

// StateSetObserver is the per-labelset handle returned by WithLabelValues.
type StateSetObserver struct {
	stateset *StateSet
	series   *statesetSeries
}

// SetState flips one named state to enabled/disabled. Multiple states
// may be true simultaneously; the caller is responsible for mutual
// exclusion if desired (spec.md §3.3).
func (o *StateSetObserver) SetState(name string, enabled bool) error {
	idx, err := o.stateset.stateIndex(name)
	if err != nil {
		return err
	}
	o.series.flags[idx].Store(enabled)
	return nil
}

func (ss *StateSet) Describe() (Metadata, Type) { return ss.metadata, TypeStateSet }

func (ss *StateSet) Collect() FamilySnapshot {
	snap := FamilySnapshot{Metadata: ss.metadata, Type: TypeStateSet}
	collect := func(s *statesetSeries) {
		states := make([]StateSnapshot, len(ss.stateNames))
		for i, name := range ss.stateNames {
			states[i] = StateSnapshot{Name: name, Enabled: s.flags[i].Load()}
		}
		sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
		snap.Series = append(snap.Series, SeriesSnapshot{Labels: s.labels, States: states})
	}
	if ss.noLabels != nil {
		collect(ss.noLabels)
	} else {
		ss.index.forEach(func(v interface{}) { collect(v.(*statesetSeries)) })
	}
	return snap
}
