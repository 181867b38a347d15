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

// Package expfmt renders registry snapshots as Prometheus text or
// OpenMetrics text (spec.md §4.9, §4.10, §6.2), byte-for-byte matching
// the grammar the wider ecosystem's scrapers expect. Encoding is hand
// written rather than delegated to prometheus/common/expfmt, since the
// exposition writers are one of the four in-scope "hard part"
// subsystems this package exists to implement.
package expfmt

import "strings"

// Content types negotiated between a scrape client and a handler
// (spec.md §4.9, §6.3).
const (
	ContentTypeOpenMetrics = "application/openmetrics-text; version=1.0.0; charset=utf-8"
	ContentTypePrometheus  = "text/plain; version=0.0.4; charset=utf-8"
)

// NegotiateOpenMetrics inspects an HTTP Accept header and reports
// whether the OpenMetrics format should be used; it falls back to the
// Prometheus text format for anything else, including an empty header.
func NegotiateOpenMetrics(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if strings.EqualFold(mediaType, "application/openmetrics-text") {
			return true
		}
	}
	return false
}
