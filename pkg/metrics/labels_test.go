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

func TestNewLabelsSortsAndValidates(t *testing.T) {
	ls, err := NewLabels(Label{Name: "b", Value: "2"}, Label{Name: "a", Value: "1"})
	require.NoError(t, err)
	require.Equal(t, "a", ls[0].Name)
	require.Equal(t, "b", ls[1].Name)
}

func TestNewLabelsRejectsDuplicateNames(t *testing.T) {
	_, err := NewLabels(Label{Name: "a", Value: "1"}, Label{Name: "a", Value: "2"})
	require.Error(t, err)
	require.True(t, IsKind(err, InvalidName))
}

func TestNewLabelsRejectsReservedPrefix(t *testing.T) {
	_, err := NewLabels(Label{Name: "__reserved", Value: "x"})
	require.Error(t, err)
}

func TestNewLabelsRejectsBadCharacters(t *testing.T) {
	_, err := NewLabels(Label{Name: "bad.name", Value: "x"})
	require.Error(t, err)
}

func TestLabelsRoundTrip(t *testing.T) {
	ls, err := NewLabels(Label{Name: "path", Value: "/hello"}, Label{Name: "status", Value: "200"})
	require.NoError(t, err)
	again, err := NewLabels(ls...)
	require.NoError(t, err)
	require.True(t, ls.Equal(again))
}

func TestLabelIndexGetOrCreateIsIdempotent(t *testing.T) {
	idx, err := newLabelIndex([]string{"method"}, nil)
	require.NoError(t, err)

	calls := 0
	create := func() (interface{}, error) {
		calls++
		return calls, nil
	}
	v1, err := idx.getOrCreate([]string{"GET"}, create)
	require.NoError(t, err)
	v2, err := idx.getOrCreate([]string{"GET"}, create)
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Equal(t, 1, calls)
}

func TestLabelIndexRejectsWrongArity(t *testing.T) {
	idx, err := newLabelIndex([]string{"a", "b"}, nil)
	require.NoError(t, err)
	_, err = idx.getOrCreate([]string{"only-one"}, func() (interface{}, error) { return nil, nil })
	require.Error(t, err)
	require.True(t, IsKind(err, InvalidArgument))
}

func TestNewLabelIndexRejectsOverlapWithConstLabels(t *testing.T) {
	_, err := newLabelIndex([]string{"env"}, Labels{{Name: "env", Value: "prod"}})
	require.Error(t, err)
}
