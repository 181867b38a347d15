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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCounter(t *testing.T) *Counter {
	t.Helper()
	meta, err := NewMetadata("requests", "", "")
	require.NoError(t, err)
	c, err := NewCounter(meta, nil, nil)
	require.NoError(t, err)
	return c
}

func TestCounterRejectsNegativeIncrement(t *testing.T) {
	c := newTestCounter(t)
	o, err := c.WithLabelValues()
	require.NoError(t, err)
	err = o.Add(-1)
	require.Error(t, err)
	require.True(t, IsKind(err, InvalidArgument))
	require.Equal(t, float64(0), c.Collect().Series[0].Value)
}

func TestCounterMonotonicity(t *testing.T) {
	c := newTestCounter(t)
	o, err := c.WithLabelValues()
	require.NoError(t, err)

	var last float64
	for i := 0; i < 100; i++ {
		require.NoError(t, o.Add(float64(i)))
		v := c.Collect().Series[0].Value
		require.GreaterOrEqual(t, v, last)
		last = v
	}
}

func TestCounterConcurrentIncrementIsExact(t *testing.T) {
	const goroutines, perGoroutine = 8, 10000
	c := newTestCounter(t)
	o, err := c.WithLabelValues()
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				o.Inc()
			}
		}()
	}
	wg.Wait()

	snap := c.Collect()
	require.Equal(t, float64(goroutines*perGoroutine), snap.Series[0].Value)
}

func TestCounterWithLabelsCreatesDistinctSeries(t *testing.T) {
	meta, err := NewMetadata("requests", "", "")
	require.NoError(t, err)
	c, err := NewCounter(meta, []string{"method"}, nil)
	require.NoError(t, err)

	get, err := c.WithLabelValues("GET")
	require.NoError(t, err)
	post, err := c.WithLabelValues("POST")
	require.NoError(t, err)

	require.NoError(t, get.Add(2))
	require.NoError(t, post.Add(5))

	snap := c.Collect()
	require.Len(t, snap.Series, 2)
}

func TestCounterAddWithExemplar(t *testing.T) {
	c := newTestCounter(t)
	o, err := c.WithLabelValues()
	require.NoError(t, err)
	labels, err := NewLabels(Label{Name: "trace_id", Value: "abc"})
	require.NoError(t, err)
	require.NoError(t, o.AddWithExemplar(1, labels))

	snap := c.Collect()
	require.NotNil(t, snap.Series[0].Exemplar)
	require.True(t, snap.Series[0].Exemplar.Labels.Equal(labels))
}
