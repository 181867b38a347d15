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
	"math"
	"strconv"
	"strings"
)

var labelValueReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// escapeLabelValue applies spec.md §4.9's label-value escaping.
func escapeLabelValue(v string) string {
	return labelValueReplacer.Replace(v)
}

// formatFloat renders v in shortest round-trippable form, with the
// special tokens +Inf/-Inf/NaN, and the format-dependent trailing ".0"
// rule for integer-valued doubles (spec.md §4.9).
func formatFloat(v float64, openMetrics bool) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if openMetrics && v == math.Trunc(v) && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// formatCount renders a series' count/bucket-count field, always a
// plain decimal integer regardless of exposition format.
func formatCount(c uint64) string {
	return strconv.FormatUint(c, 10)
}

// formatTimestampMillis renders a millisecond epoch timestamp as
// integer-seconds with three-digit millisecond precision, per the
// §6.2 grammar's `timestamp` production.
func formatTimestampMillis(ms int64) string {
	seconds := ms / 1000
	millis := ms % 1000
	if millis < 0 {
		millis = -millis
	}
	return strconv.FormatInt(seconds, 10) + "." + zeroPad3(millis)
}

func zeroPad3(n int64) string {
	s := strconv.FormatInt(n, 10)
	switch len(s) {
	case 1:
		return "00" + s
	case 2:
		return "0" + s
	default:
		return s
	}
}
