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
	"fmt"
	"sort"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Registry is a name-unique collection of collectors and the single
// entry point for scraping (spec.md §3.5, §4.8). A Registry owns its
// collectors; it shares no mutable state with snapshots it produces.
//
// Grounded on the Exporter struct in pkg/export/export.go (the
// teacher's registration map + mutex) and the log-and-skip reconcile
// idiom in pkg/operator/collection.go, generalized to per-collector
// recovery during scrape instead of per-resource recovery during
// reconcile.
type Registry struct {
	logger log.Logger

	mu         sync.RWMutex
	collectors map[string]Collector
}

// NewRegistry constructs an empty Registry. A nil logger disables
// CollectorFailed logging (the failure is still recorded in Gather's
// returned diagnostics).
func NewRegistry(logger log.Logger) *Registry {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Registry{logger: logger, collectors: make(map[string]Collector)}
}

// defaultRegistry is the process-wide instance described in spec.md §9
// ("single process-wide instance created on first access"); tests and
// isolated call sites should construct their own via NewRegistry.
var (
	defaultRegistryOnce sync.Once
	defaultRegistryPtr  *Registry
)

// DefaultRegistry returns the lazily-created process-wide Registry.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistryPtr = NewRegistry(log.NewNopLogger())
	})
	return defaultRegistryPtr
}

// Register adds c under the family name given by its Describe(). It
// fails with DuplicateName if that name is already registered, or
// InvalidName if the name is empty. Register checks nothing else about
// the metadata; instrument constructors take a Metadata that NewMetadata
// has already validated.
func (r *Registry) Register(c Collector) error {
	meta, _ := c.Describe()
	if err := validateMetadataOnRegister(meta); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.collectors[meta.Name]; exists {
		return newErrorf(DuplicateName, "a collector named %q is already registered", meta.Name)
	}
	r.collectors[meta.Name] = c
	return nil
}

func validateMetadataOnRegister(m Metadata) error {
	if m.Name == "" {
		return newError(InvalidName, "collector metadata has an empty name")
	}
	return nil
}

// Unregister removes the collector registered under name, if any. It
// reports whether a collector was actually removed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collectors[name]; !ok {
		return false
	}
	delete(r.collectors, name)
	return true
}

// CollectorError pairs the family name that failed to collect with the
// recovered error, surfaced as scrape diagnostics (spec.md §4.8).
type CollectorError struct {
	Name string
	Err  error
}

func (e *CollectorError) Error() string {
	return fmt.Sprintf("collector %q failed: %v", e.Name, e.Err)
}

// Gather iterates every registered collector in family-name ascending
// order and returns the ordered snapshots alongside any soft failures.
// A collector that panics is never allowed to abort the scrape: its
// family is simply omitted and a *CollectorError is appended
// (spec.md §4.8, §7).
func (r *Registry) Gather() ([]FamilySnapshot, []error) {
	r.mu.RLock()
	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	collectors := make(map[string]Collector, len(r.collectors))
	for k, v := range r.collectors {
		collectors[k] = v
	}
	r.mu.RUnlock()

	sort.Strings(names)

	snapshots := make([]FamilySnapshot, 0, len(names))
	var errs []error
	for _, name := range names {
		snap, err := r.collectOne(name, collectors[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, errs
}

func (r *Registry) collectOne(name string, c Collector) (snap FamilySnapshot, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &CollectorError{Name: name, Err: errors.Errorf("panic: %v", rec)}
			level.Warn(r.logger).Log("msg", "collector panicked during scrape, omitting from output", "name", name, "err", rec)
		}
	}()
	snap = c.Collect()
	return snap, nil
}
