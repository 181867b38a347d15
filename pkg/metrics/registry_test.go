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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry(nil)
	meta, err := NewMetadata("x", "", "")
	require.NoError(t, err)
	c1, err := NewCounter(meta, nil, nil)
	require.NoError(t, err)
	c2, err := NewCounter(meta, nil, nil)
	require.NoError(t, err)

	require.NoError(t, r.Register(c1))
	err = r.Register(c2)
	require.Error(t, err)
	require.True(t, IsKind(err, DuplicateName))
}

func TestRegistryGatherSortsByFamilyName(t *testing.T) {
	r := NewRegistry(nil)
	names := []string{"zeta", "alpha", "mu"}
	for _, n := range names {
		meta, err := NewMetadata(n, "", "")
		require.NoError(t, err)
		g, err := NewGauge(meta, nil, nil)
		require.NoError(t, err)
		require.NoError(t, r.Register(g))
	}
	snaps, errs := r.Gather()
	require.Empty(t, errs)
	require.Len(t, snaps, 3)
	require.Equal(t, "alpha", snaps[0].Metadata.Name)
	require.Equal(t, "mu", snaps[1].Metadata.Name)
	require.Equal(t, "zeta", snaps[2].Metadata.Name)
}

type panickingCollector struct{ meta Metadata }

func (p panickingCollector) Describe() (Metadata, Type) { return p.meta, TypeGauge }
func (p panickingCollector) Collect() FamilySnapshot    { panic("boom") }

func TestRegistryRecoversPanickingCollector(t *testing.T) {
	r := NewRegistry(nil)
	meta, err := NewMetadata("broken", "", "")
	require.NoError(t, err)
	require.NoError(t, r.Register(panickingCollector{meta: meta}))

	okMeta, err := NewMetadata("healthy", "", "")
	require.NoError(t, err)
	g, err := NewGauge(okMeta, nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.Register(g))

	snaps, errs := r.Gather()
	require.Len(t, snaps, 1)
	require.Equal(t, "healthy", snaps[0].Metadata.Name)
	require.Len(t, errs, 1)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry(nil)
	meta, err := NewMetadata("x", "", "")
	require.NoError(t, err)
	c, err := NewCounter(meta, nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.Register(c))

	require.True(t, r.Unregister("x"))
	require.False(t, r.Unregister("x"))

	snaps, _ := r.Gather()
	require.Empty(t, snaps)
}
