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

// Collector produces a consistent FamilySnapshot on demand (spec.md §9
// design note: "small trait/interface set"). Every instrument kind in
// this package implements Collector; Registry.Gather calls it once per
// scrape.
type Collector interface {
	// Describe returns the metadata and wire type of the family this
	// collector owns, without materializing any series. Used by the
	// registry to enforce name uniqueness at register time.
	Describe() (Metadata, Type)
	// Collect builds and returns an immutable snapshot of every series
	// currently held by this collector.
	Collect() FamilySnapshot
}

// CollectorFunc adapts a plain function into a Collector, for callers
// who want to expose externally-sourced values (e.g. bridged from
// another metrics system) without writing a full instrument.
type CollectorFunc struct {
	metadata Metadata
	typ      Type
	collect  func() FamilySnapshot
}

// NewCollectorFunc builds a Collector backed by fn. fn is called once
// per scrape and must return a FamilySnapshot whose Metadata matches
// metadata.
func NewCollectorFunc(metadata Metadata, typ Type, fn func() FamilySnapshot) *CollectorFunc {
	return &CollectorFunc{metadata: metadata, typ: typ, collect: fn}
}

func (c *CollectorFunc) Describe() (Metadata, Type) { return c.metadata, c.typ }
func (c *CollectorFunc) Collect() FamilySnapshot     { return c.collect() }
