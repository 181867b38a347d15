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

package expfmt

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oss-metrics/client-go/pkg/metrics"
)

func mustLabels(t *testing.T, pairs ...metrics.Label) metrics.Labels {
	t.Helper()
	ls, err := metrics.NewLabels(pairs...)
	require.NoError(t, err)
	return ls
}

// TestS1CounterExposition reproduces spec.md §8.2 scenario S1.
func TestS1CounterExposition(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "my_counter"},
			Type:     metrics.TypeCounter,
			Series:   []metrics.SeriesSnapshot{{Value: 1.1}},
		},
		{
			Metadata: metrics.Metadata{Name: "service_time_seconds", Help: "total time spent serving", Unit: "seconds"},
			Type:     metrics.TypeCounter,
			Series: []metrics.SeriesSnapshot{
				{
					Labels:                 mustLabels(t, metrics.Label{Name: "path", Value: "/hello"}, metrics.Label{Name: "status", Value: "200"}),
					Value:                  0.8,
					CreatedTimestampMillis: 1672850585820,
					ScrapeTimestampMillis:  1672850685829,
					Exemplar: &metrics.Exemplar{
						Value:           1.7,
						TimestampMillis: 1672850685829,
						Labels: mustLabels(t,
							metrics.Label{Name: "env", Value: "prod"},
							metrics.Label{Name: "span_id", Value: "12345"},
							metrics.Label{Name: "trace_id", Value: "abcde"},
						),
					},
				},
				{
					Labels:                 mustLabels(t, metrics.Label{Name: "path", Value: "/hello"}, metrics.Label{Name: "status", Value: "500"}),
					Value:                  0.9,
					CreatedTimestampMillis: 1672850585820,
					ScrapeTimestampMillis:  1672850685829,
					Exemplar: &metrics.Exemplar{
						Value:           1.7,
						TimestampMillis: 1672850685829,
						Labels: mustLabels(t,
							metrics.Label{Name: "env", Value: "prod"},
							metrics.Label{Name: "span_id", Value: "12345"},
							metrics.Label{Name: "trace_id", Value: "abcde"},
						),
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	_, err := WriteOpenMetrics(&buf, families)
	require.NoError(t, err)

	want := `# TYPE my_counter counter
my_counter_total 1.1
# TYPE service_time_seconds counter
# UNIT service_time_seconds seconds
# HELP service_time_seconds total time spent serving
service_time_seconds_total{path="/hello",status="200"} 0.8 1672850685.829 # {env="prod",span_id="12345",trace_id="abcde"} 1.7 1672850685.829
service_time_seconds_created{path="/hello",status="200"} 1672850585.820
service_time_seconds_total{path="/hello",status="500"} 0.9 1672850685.829 # {env="prod",span_id="12345",trace_id="abcde"} 1.7 1672850685.829
service_time_seconds_created{path="/hello",status="500"} 1672850585.820
# EOF
`
	require.Equal(t, want, buf.String())
}

// TestS2HistogramWithExemplars reproduces spec.md §8.2 scenario S2's
// ordering rule: bucket lines ascending by le, then _count, _sum,
// _created.
func TestS2HistogramWithExemplars(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "response_size_bytes", Help: "help", Unit: "bytes"},
			Type:     metrics.TypeHistogram,
			Series: []metrics.SeriesSnapshot{
				{
					Labels: mustLabels(t, metrics.Label{Name: "status", Value: "200"}),
					Buckets: []metrics.BucketSnapshot{
						{UpperBound: 2.2, Count: 2, Exemplar: &metrics.Exemplar{
							Value:           1.7,
							TimestampMillis: 1672850685829,
							Labels:          mustLabels(t, metrics.Label{Name: "trace_id", Value: "abc"}),
						}},
						{UpperBound: math.Inf(1), Count: 4, Exemplar: &metrics.Exemplar{
							Value:           3.2,
							TimestampMillis: 1672850685829,
							Labels:          mustLabels(t, metrics.Label{Name: "trace_id", Value: "def"}),
						}},
					},
					Count:                  4,
					Sum:                    4.1,
					CreatedTimestampMillis: 1672850585820,
				},
			},
		},
	}

	var buf bytes.Buffer
	_, err := WriteOpenMetrics(&buf, families)
	require.NoError(t, err)

	want := `# TYPE response_size_bytes histogram
# UNIT response_size_bytes bytes
# HELP response_size_bytes help
response_size_bytes_bucket{status="200",le="2.2"} 2 # {trace_id="abc"} 1.7 1672850685.829
response_size_bytes_bucket{status="200",le="+Inf"} 4 # {trace_id="def"} 3.2 1672850685.829
response_size_bytes_count{status="200"} 4
response_size_bytes_sum{status="200"} 4.1
response_size_bytes_created{status="200"} 1672850585.820
# EOF
`
	require.Equal(t, want, buf.String())
}

// TestS3SummaryNoTargets reproduces spec.md §8.2 scenario S3.
func TestS3SummaryNoTargets(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "latency_seconds"},
			Type:     metrics.TypeSummary,
			Series:   []metrics.SeriesSnapshot{{Count: 3, Sum: 1.2}},
		},
	}
	var buf bytes.Buffer
	_, err := WriteOpenMetrics(&buf, families)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "latency_seconds_count 3\n")
	require.Contains(t, buf.String(), "latency_seconds_sum 1.2\n")
}

// TestS4StateSet reproduces spec.md §8.2 scenario S4.
func TestS4StateSet(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "my_states"},
			Type:     metrics.TypeStateSet,
			Series: []metrics.SeriesSnapshot{{
				States: []metrics.StateSnapshot{
					{Name: "a", Enabled: true},
					{Name: "bb", Enabled: false},
				},
			}},
		},
	}
	var buf bytes.Buffer
	_, err := WriteOpenMetrics(&buf, families)
	require.NoError(t, err)
	want := `# TYPE my_states stateset
my_states{my_states="a"} 1
my_states{my_states="bb"} 0
# EOF
`
	require.Equal(t, want, buf.String())
}

// TestS5Info reproduces spec.md §8.2 scenario S5.
func TestS5Info(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "version"},
			Type:     metrics.TypeInfo,
			Series:   []metrics.SeriesSnapshot{{Labels: mustLabels(t, metrics.Label{Name: "version", Value: "1.2.3"})}},
		},
	}
	var buf bytes.Buffer
	_, err := WriteOpenMetrics(&buf, families)
	require.NoError(t, err)
	want := `# TYPE version info
version_info{version="1.2.3"} 1.0
# EOF
`
	require.Equal(t, want, buf.String())
}

func TestWriterIsIdempotent(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "x"},
			Type:     metrics.TypeGauge,
			Series:   []metrics.SeriesSnapshot{{Value: 42}},
		},
	}
	var a, b bytes.Buffer
	_, err := WriteOpenMetrics(&a, families)
	require.NoError(t, err)
	_, err = WriteOpenMetrics(&b, families)
	require.NoError(t, err)
	require.Equal(t, a.String(), b.String())
}

func TestPrometheusFormatOmitsUnitCreatedAndEOF(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "requests_total"},
			Type:     metrics.TypeCounter,
			Series:   []metrics.SeriesSnapshot{{Value: 80000, CreatedTimestampMillis: 1}},
		},
	}
	var buf bytes.Buffer
	_, err := WritePrometheus(&buf, families)
	require.NoError(t, err)
	want := "# TYPE requests_total counter\nrequests_total 80000\n"
	require.Equal(t, want, buf.String())
}

func TestLabelValueEscaping(t *testing.T) {
	families := []metrics.FamilySnapshot{
		{
			Metadata: metrics.Metadata{Name: "g"},
			Type:     metrics.TypeGauge,
			Series:   []metrics.SeriesSnapshot{{Labels: mustLabels(t, metrics.Label{Name: "msg", Value: "a\"b\\c\nd"}), Value: 1}},
		},
	}
	var buf bytes.Buffer
	_, err := WriteOpenMetrics(&buf, families)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `msg="a\"b\\c\nd"`)
}
