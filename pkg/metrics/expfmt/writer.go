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
	"bufio"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/oss-metrics/client-go/pkg/metrics"
)

// WriteOpenMetrics renders families in OpenMetrics text format to w,
// terminated by the literal "# EOF\n" line (spec.md §4.9, §6.2).
//
// Grounded on the bufio.Writer-over-io.Writer plumbing the teacher
// uses for its own scrape server response path, generalized to the
// OpenMetrics/Prometheus grammar instead of a passthrough proxy.
func WriteOpenMetrics(w io.Writer, families []metrics.FamilySnapshot) (int64, error) {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw, openMetrics: true}
	for _, f := range families {
		e.writeFamily(f)
		if e.err != nil {
			return e.n, e.err
		}
	}
	e.writeString("# EOF\n")
	if err := bw.Flush(); err != nil && e.err == nil {
		e.err = newWriteError(err)
	}
	return e.n, e.err
}

// WritePrometheus renders families in the classic Prometheus text
// format to w (spec.md §4.9).
func WritePrometheus(w io.Writer, families []metrics.FamilySnapshot) (int64, error) {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw, openMetrics: false}
	for _, f := range families {
		e.writeFamily(f)
		if e.err != nil {
			return e.n, e.err
		}
	}
	if err := bw.Flush(); err != nil && e.err == nil {
		e.err = newWriteError(err)
	}
	return e.n, e.err
}

func newWriteError(err error) error {
	return errors.Wrap(err, "expfmt: write error")
}

type encoder struct {
	w           *bufio.Writer
	openMetrics bool
	n           int64
	err         error
}

func (e *encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	written, err := e.w.WriteString(s)
	e.n += int64(written)
	if err != nil {
		e.err = newWriteError(err)
	}
}

func (e *encoder) writeFamily(f metrics.FamilySnapshot) {
	typeName := promType(f.Type, e.openMetrics)
	e.writeString("# TYPE " + f.Metadata.Name + " " + typeName + "\n")
	if e.openMetrics && f.Metadata.Unit != "" {
		e.writeString("# UNIT " + f.Metadata.Name + " " + f.Metadata.Unit + "\n")
	}
	if f.Metadata.Help != "" {
		e.writeString("# HELP " + f.Metadata.Name + " " + escapeLabelValue(f.Metadata.Help) + "\n")
	}

	series := make([]metrics.SeriesSnapshot, len(f.Series))
	copy(series, f.Series)
	sort.Slice(series, func(i, j int) bool { return lessLabels(series[i].Labels, series[j].Labels) })

	for _, s := range series {
		e.writeSeries(f, s)
		if e.err != nil {
			return
		}
	}
}

// promType maps the internal Type to the wire type name for the active
// format. Prometheus text's type set omits gaugehistogram/info/stateset
// (spec.md §4.9): they fall back to "untyped" there, and gaugehistogram
// collapses onto "histogram" since the sample shape is identical.
func promType(t metrics.Type, openMetrics bool) string {
	if openMetrics {
		return t.String()
	}
	switch t {
	case metrics.TypeCounter:
		return "counter"
	case metrics.TypeGauge:
		return "gauge"
	case metrics.TypeSummary:
		return "summary"
	case metrics.TypeHistogram, metrics.TypeGaugeHistogram:
		return "histogram"
	default:
		return "untyped"
	}
}

func lessLabels(a, b metrics.Labels) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Name != b[i].Name {
			return a[i].Name < b[i].Name
		}
		if a[i].Value != b[i].Value {
			return a[i].Value < b[i].Value
		}
	}
	return len(a) < len(b)
}

func (e *encoder) writeSeries(f metrics.FamilySnapshot, s metrics.SeriesSnapshot) {
	switch f.Type {
	case metrics.TypeCounter:
		e.writeCounter(f, s)
	case metrics.TypeGauge:
		e.writeFloatSample(f.Metadata.Name, s.Labels, nil, s.Value, s.ScrapeTimestampMillis, e.exemplarIfAllowed(s.Exemplar))
	case metrics.TypeUnknown:
		e.writeFloatSample(f.Metadata.Name, s.Labels, nil, s.Value, s.ScrapeTimestampMillis, e.exemplarIfAllowed(s.Exemplar))
	case metrics.TypeHistogram, metrics.TypeGaugeHistogram:
		e.writeHistogram(f, s)
	case metrics.TypeSummary:
		e.writeSummary(f, s)
	case metrics.TypeInfo:
		e.writeInfo(f, s)
	case metrics.TypeStateSet:
		e.writeStateSet(f, s)
	}
}

func (e *encoder) writeCounter(f metrics.FamilySnapshot, s metrics.SeriesSnapshot) {
	name := f.Metadata.Name
	if len(name) < len("_total") || name[len(name)-len("_total"):] != "_total" {
		name += "_total"
	}
	e.writeFloatSample(name, s.Labels, nil, s.Value, s.ScrapeTimestampMillis, e.exemplarIfAllowed(s.Exemplar))
	if e.openMetrics && s.CreatedTimestampMillis != 0 {
		e.writeCreated(f.Metadata.Name+"_created", s.Labels, s.CreatedTimestampMillis)
	}
}

// exemplarIfAllowed strips exemplars the Prometheus text format doesn't
// support: only histogram buckets may carry one there (spec.md §4.9).
func (e *encoder) exemplarIfAllowed(ex *metrics.Exemplar) *metrics.Exemplar {
	if e.openMetrics {
		return ex
	}
	return nil
}

func (e *encoder) writeHistogram(f metrics.FamilySnapshot, s metrics.SeriesSnapshot) {
	countSuffix, sumSuffix := "_count", "_sum"
	if f.Type == metrics.TypeGaugeHistogram {
		countSuffix, sumSuffix = "_gcount", "_gsum"
	}
	for _, b := range s.Buckets {
		extra := metrics.Labels{{Name: "le", Value: formatFloat(b.UpperBound, e.openMetrics)}}
		// Histogram bucket exemplars are permitted in both formats
		// (spec.md §4.9: "no exemplars (except histogram buckets where
		// permitted)").
		e.writeCountSample(f.Metadata.Name+"_bucket", s.Labels, extra, b.Count, s.ScrapeTimestampMillis, b.Exemplar)
	}
	e.writeCountSample(f.Metadata.Name+countSuffix, s.Labels, nil, s.Count, s.ScrapeTimestampMillis, nil)
	e.writeFloatSample(f.Metadata.Name+sumSuffix, s.Labels, nil, s.Sum, s.ScrapeTimestampMillis, nil)
	if e.openMetrics && s.CreatedTimestampMillis != 0 {
		e.writeCreated(f.Metadata.Name+"_created", s.Labels, s.CreatedTimestampMillis)
	}
}

func (e *encoder) writeSummary(f metrics.FamilySnapshot, s metrics.SeriesSnapshot) {
	for _, q := range s.Quantiles {
		extra := metrics.Labels{{Name: "quantile", Value: formatFloat(q.Quantile, e.openMetrics)}}
		e.writeFloatSample(f.Metadata.Name, s.Labels, extra, q.Value, s.ScrapeTimestampMillis, nil)
	}
	e.writeCountSample(f.Metadata.Name+"_count", s.Labels, nil, s.Count, s.ScrapeTimestampMillis, nil)
	e.writeFloatSample(f.Metadata.Name+"_sum", s.Labels, nil, s.Sum, s.ScrapeTimestampMillis, nil)
	if e.openMetrics && s.CreatedTimestampMillis != 0 {
		e.writeCreated(f.Metadata.Name+"_created", s.Labels, s.CreatedTimestampMillis)
	}
}

// writeInfo always renders the literal value "1.0" (spec.md §8.2 S5),
// independent of exposition format.
func (e *encoder) writeInfo(f metrics.FamilySnapshot, s metrics.SeriesSnapshot) {
	e.writeString(f.Metadata.Name + "_info")
	e.writeLabelSet(s.Labels, nil)
	e.writeString(" 1.0\n")
}

func (e *encoder) writeStateSet(f metrics.FamilySnapshot, s metrics.SeriesSnapshot) {
	for _, st := range s.States {
		extra := metrics.Labels{{Name: f.Metadata.Name, Value: st.Name}}
		v := "0"
		if st.Enabled {
			v = "1"
		}
		e.writeString(f.Metadata.Name)
		e.writeLabelSet(s.Labels, extra)
		e.writeString(" " + v + "\n")
	}
}

func (e *encoder) writeCreated(name string, labels metrics.Labels, createdMillis int64) {
	e.writeString(name)
	e.writeLabelSet(labels, nil)
	e.writeString(" " + formatTimestampMillis(createdMillis) + "\n")
}

// writeFloatSample renders one sample whose value is a float64 subject
// to the shortest-round-trip / trailing-".0" rules.
func (e *encoder) writeFloatSample(name string, labels, extra metrics.Labels, value float64, scrapeTs int64, ex *metrics.Exemplar) {
	e.writeString(name)
	e.writeLabelSet(labels, extra)
	e.writeString(" " + formatFloat(value, e.openMetrics))
	e.writeTimestampAndExemplar(scrapeTs, ex)
}

// writeCountSample renders one sample whose value is a plain,
// never-".0" integer count (bucket/_count samples).
func (e *encoder) writeCountSample(name string, labels, extra metrics.Labels, count uint64, scrapeTs int64, ex *metrics.Exemplar) {
	e.writeString(name)
	e.writeLabelSet(labels, extra)
	e.writeString(" " + formatCount(count))
	e.writeTimestampAndExemplar(scrapeTs, ex)
}

func (e *encoder) writeTimestampAndExemplar(scrapeTs int64, ex *metrics.Exemplar) {
	if scrapeTs != 0 {
		e.writeString(" " + formatTimestampMillis(scrapeTs))
	}
	if ex != nil {
		e.writeString(" # ")
		e.writeLabelSet(ex.Labels, nil)
		e.writeString(" " + formatFloat(ex.Value, true) + " " + formatTimestampMillis(ex.TimestampMillis))
	}
	e.writeString("\n")
}

func (e *encoder) writeLabelSet(labels, extra metrics.Labels) {
	if len(labels) == 0 && len(extra) == 0 {
		return
	}
	e.writeString("{")
	first := true
	write := func(l metrics.Label) {
		if !first {
			e.writeString(",")
		}
		first = false
		e.writeString(l.Name + `="` + escapeLabelValue(l.Value) + `"`)
	}
	for _, l := range labels {
		write(l)
	}
	for _, l := range extra {
		write(l)
	}
	e.writeString("}")
}
