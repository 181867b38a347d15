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

// Package metricshttp is the scrape-endpoint collaborator named in
// spec.md §1's out-of-scope list ("HTTP scrape endpoints ... treated as
// external collaborators with a named interface"): a minimal
// http.Handler around Registry.Gather and the expfmt writers.
//
// Grounded on the Accept-header negotiation and response-writing shape
// of pkg/instrumentationhttp/middleware.go, generalized from a
// request-logging passthrough to a scrape responder.
package metricshttp

import (
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/oss-metrics/client-go/pkg/metrics"
	"github.com/oss-metrics/client-go/pkg/metrics/expfmt"
)

// Handler renders reg's current state on every request, choosing
// OpenMetrics or Prometheus text by content negotiation (spec.md §4.9).
func Handler(reg *metrics.Registry, logger log.Logger) http.Handler {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshots, errs := reg.Gather()
		for _, err := range errs {
			level.Warn(logger).Log("msg", "collector omitted from scrape", "err", err)
		}
		openMetrics := expfmt.NegotiateOpenMetrics(r.Header.Get("Accept"))
		if openMetrics {
			w.Header().Set("Content-Type", expfmt.ContentTypeOpenMetrics)
			if _, err := expfmt.WriteOpenMetrics(w, snapshots); err != nil {
				level.Error(logger).Log("msg", "failed writing scrape response", "err", err)
			}
			return
		}
		w.Header().Set("Content-Type", expfmt.ContentTypePrometheus)
		if _, err := expfmt.WritePrometheus(w, snapshots); err != nil {
			level.Error(logger).Log("msg", "failed writing scrape response", "err", err)
		}
	})
}
