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

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestGaugeCollectSnapshotShape compares a full FamilySnapshot against
// a hand-built expectation with cmp.Diff, the deep-equality style used
// for comparing expanded series sets.
func TestGaugeCollectSnapshotShape(t *testing.T) {
	meta, err := NewMetadata("queue_depth", "items waiting", "")
	require.NoError(t, err)
	g, err := NewGauge(meta, []string{"queue"}, mustLabels(t, Label{Name: "region", Value: "us"}))
	require.NoError(t, err)

	o, err := g.WithLabelValues("jobs")
	require.NoError(t, err)
	o.Set(3)

	got := g.Collect()
	want := FamilySnapshot{
		Metadata: meta,
		Type:     TypeGauge,
		Series: []SeriesSnapshot{
			{
				Labels: mustLabels(t,
					Label{Name: "queue", Value: "jobs"},
					Label{Name: "region", Value: "us"},
				),
				Value: 3,
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func mustLabels(t *testing.T, pairs ...Label) Labels {
	t.Helper()
	ls, err := NewLabels(pairs...)
	require.NoError(t, err)
	return ls
}
