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
	"regexp"
	"sort"
	"strings"
)

// labelNameRE matches spec.md §3.2: [a-zA-Z_][a-zA-Z0-9_]*
var labelNameRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Label is a single name/value pair.
type Label struct {
	Name  string
	Value string
}

// Labels is an ordered, sorted-ascending-by-name, unique-name sequence
// of labels (spec.md §3.2). A nil/empty Labels is valid and represents
// "no labels". Labels is comparable by DeepEqual/go-cmp once sorted,
// which NewLabels guarantees.
type Labels []Label

// NewLabels validates and sorts names/values pairs into a Labels. It
// rejects invalid names, the reserved "__" prefix, and duplicate names.
func NewLabels(pairs ...Label) (Labels, error) {
	out := make(Labels, len(pairs))
	copy(out, pairs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	for i, l := range out {
		if err := validateLabelName(l.Name); err != nil {
			return nil, err
		}
		if i > 0 && out[i-1].Name == l.Name {
			return nil, newErrorf(InvalidName, "duplicate label name %q", l.Name)
		}
	}
	return out, nil
}

func validateLabelName(name string) error {
	if !labelNameRE.MatchString(name) {
		return newErrorf(InvalidName, "label name %q does not match %s", name, labelNameRE.String())
	}
	if strings.HasPrefix(name, "__") {
		return newErrorf(InvalidName, "label name %q uses the reserved __ prefix", name)
	}
	return nil
}

// Get returns the value for name and whether it was present.
func (l Labels) Get(name string) (string, bool) {
	for _, p := range l {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Equal reports structural equality (spec.md §8.1 property 7).
func (l Labels) Equal(other Labels) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// mergeLabels combines const and variable labels into one sorted, duplicate-free
// Labels. Variable label names are validated by the caller at instrument
// construction time; mergeLabels re-sorts because const labels and variable
// names interleave arbitrarily by name.
func mergeLabels(a, b Labels) (Labels, error) {
	pairs := make([]Label, 0, len(a)+len(b))
	pairs = append(pairs, a...)
	pairs = append(pairs, b...)
	return NewLabels(pairs...)
}

// labelIndex is the label-set indexing layer (spec.md §4.1): it maps a
// fixed-arity tuple of label values to lazily created, per-series
// storage. Reads are lock-free; the first observer for a given tuple
// wins a race via sync.Map's atomic LoadOrStore, so exactly one series
// is created per distinct tuple (spec.md §4.1, §5).
//
// Grounded on pkg/export/pool.go's refcounted map-of-entries shape,
// generalized from interned strings to interned per-series state.
type labelIndex struct {
	// names is the fixed, declared-order list of variable label names.
	names []string
	// constLabels are merged into every series's rendered label set.
	constLabels Labels

	series syncMap // tuple key -> series (type depends on the instrument)
}

func newLabelIndex(names []string, constLabels Labels) (*labelIndex, error) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if err := validateLabelName(n); err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			return nil, newErrorf(InvalidName, "duplicate variable label name %q", n)
		}
		seen[n] = struct{}{}
	}
	for _, c := range constLabels {
		if _, dup := seen[c.Name]; dup {
			return nil, newErrorf(InvalidName, "label name %q set both as constant and variable", c.Name)
		}
	}
	return &labelIndex{names: names, constLabels: constLabels}, nil
}

// tupleKey joins values with a separator that cannot occur in valid
// UTF-8 label values, so distinct tuples never collide.
const tupleSep = "\xff"

func tupleKey(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, tupleSep)
}

// labelsFor renders the final, sorted Labels for one value tuple by
// merging it with constLabels.
func (li *labelIndex) labelsFor(values []string) (Labels, error) {
	if len(values) != len(li.names) {
		return nil, newErrorf(InvalidArgument, "expected %d label values, got %d", len(li.names), len(values))
	}
	pairs := make([]Label, 0, len(li.names)+len(li.constLabels))
	for i, n := range li.names {
		pairs = append(pairs, Label{Name: n, Value: values[i]})
	}
	return mergeLabels(li.constLabels, Labels(pairs))
}

// getOrCreate returns the existing series for values, or atomically
// installs the one built by create.
func (li *labelIndex) getOrCreate(values []string, create func() (interface{}, error)) (interface{}, error) {
	if len(values) != len(li.names) {
		return nil, newErrorf(InvalidArgument, "expected %d label values, got %d", len(li.names), len(values))
	}
	key := tupleKey(values)
	if v, ok := li.series.Load(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return nil, err
	}
	actual, _ := li.series.LoadOrStore(key, v)
	return actual, nil
}

// forEach visits every currently-materialized series.
func (li *labelIndex) forEach(fn func(v interface{})) {
	li.series.Range(func(_ string, v interface{}) bool {
		fn(v)
		return true
	})
}
