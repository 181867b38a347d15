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
	"time"

	"github.com/stretchr/testify/require"
)

func TestSummaryRejectsQuantileLabel(t *testing.T) {
	meta, err := NewMetadata("s", "", "")
	require.NoError(t, err)
	_, err = NewSummary(meta, []string{"quantile"}, nil, nil)
	require.Error(t, err)
}

func TestSummaryRejectsOutOfRangeQuantile(t *testing.T) {
	meta, err := NewMetadata("s", "", "")
	require.NoError(t, err)
	_, err = NewSummary(meta, nil, nil, []QuantileTarget{{Quantile: 1.5, Epsilon: 0.01}})
	require.Error(t, err)
	require.True(t, IsKind(err, InvalidArgument))
}

func TestSummaryRejectsBadWindowConfig(t *testing.T) {
	meta, err := NewMetadata("s", "", "")
	require.NoError(t, err)
	_, err = NewSummary(meta, nil, nil, nil, WithMaxAge(0))
	require.Error(t, err)

	_, err = NewSummary(meta, nil, nil, nil, WithAgeBuckets(0))
	require.Error(t, err)
}

func TestSummaryCountSumCoherence(t *testing.T) {
	meta, err := NewMetadata("latency_seconds", "", "")
	require.NoError(t, err)
	s, err := NewSummary(meta, nil, nil, nil)
	require.NoError(t, err)
	o, err := s.WithLabelValues()
	require.NoError(t, err)

	values := []float64{0.1, 0.2, 0.9}
	var sum float64
	for _, v := range values {
		require.NoError(t, o.Observe(v))
		sum += v
	}

	snap := s.Collect().Series[0]
	require.Equal(t, uint64(len(values)), snap.Count)
	require.InDelta(t, sum, snap.Sum, 1e-9)
	require.Empty(t, snap.Quantiles)
}

func TestSummaryWithTargetsReturnsSortedQuantiles(t *testing.T) {
	meta, err := NewMetadata("latency_seconds", "", "")
	require.NoError(t, err)
	s, err := NewSummary(meta, nil, nil, []QuantileTarget{{Quantile: 0.9, Epsilon: 0.01}, {Quantile: 0.5, Epsilon: 0.01}})
	require.NoError(t, err)
	o, err := s.WithLabelValues()
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, o.Observe(float64(i)))
	}

	snap := s.Collect().Series[0]
	require.Len(t, snap.Quantiles, 2)
	require.Less(t, snap.Quantiles[0].Quantile, snap.Quantiles[1].Quantile)
}

func TestSlidingWindowRotatesOnElapsedTime(t *testing.T) {
	w := newSlidingWindow(nil, 100*time.Millisecond, 2)
	start := time.Now()
	w.insert(1, start)
	// Not enough elapsed time yet: no rotation, bucket still holds value.
	require.Equal(t, 1, w.buckets[w.head].Count())

	// A full window's worth of elapsed time resets every bucket.
	w.insert(2, start.Add(200*time.Millisecond))
	for _, b := range w.buckets {
		require.Equal(t, 1, b.Count())
	}
}
