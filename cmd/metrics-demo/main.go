// Copyright 2026 The Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command metrics-demo drives counters, a gauge, a histogram and a
// summary under constant synthetic load, and exposes a stateset
// readiness flag, so the exposition writers can be observed end to end
// against a real scrape client. Info, Unknown and gauge-histogram
// families are not exercised.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	mrand "math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/run"

	"github.com/oss-metrics/client-go/pkg/metrics"
	"github.com/oss-metrics/client-go/pkg/metrics/metricshttp"
)

var (
	app  = kingpin.New("metrics-demo", "Synthetic load generator exercising counter, gauge, histogram, summary and stateset instruments.")
	addr = app.Flag("listen-address", "Address to serve /metrics on.").Default(":8080").String()

	requestLabels = []string{"method", "status", "path"}
	methods       = []string{"GET", "POST", "PUT"}
	statuses      = []string{"200", "300", "400", "404", "500"}
	paths         = []string{"/", "/index", "/topics", "/topics/:id"}
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	reg := metrics.NewRegistry(logger)

	requestsPending := metrics.MustGauge(meta("demo_requests_pending", ""), requestLabels, nil)
	requestsTotal := metrics.MustCounter(meta("demo_requests", "total requests served"), requestLabels, nil)
	requestErrors := metrics.MustCounter(meta("demo_request_errors", ""), requestLabels, nil)
	requestDuration := metrics.MustHistogram(
		meta("demo_request_duration_seconds", "request duration"),
		requestLabels, nil,
		metrics.DefaultBuckets(),
		metrics.WithSampler(metrics.NewDefaultSampler(5*time.Second)),
	)
	requestLatencySummary := metrics.MustSummary(
		meta("demo_request_latency_seconds", "request latency quantiles"),
		requestLabels, nil,
		[]metrics.QuantileTarget{{Quantile: 0.5, Epsilon: 0.05}, {Quantile: 0.9, Epsilon: 0.01}, {Quantile: 0.99, Epsilon: 0.001}},
	)
	buildInfo := metrics.MustStateSet(meta("demo_ready", ""), nil, nil, []string{"ready", "degraded"})

	for _, c := range []metrics.Collector{requestsPending, requestsTotal, requestErrors, requestDuration, requestLatencySummary, buildInfo} {
		if err := reg.Register(c); err != nil {
			level.Error(logger).Log("msg", "failed to register collector", "err", err)
			os.Exit(1)
		}
	}
	if ready, err := buildInfo.WithLabelValues(); err == nil {
		_ = ready.SetState("ready", true)
	}

	var g run.Group
	{
		term := make(chan os.Signal, 1)
		cancel := make(chan struct{})
		signal.Notify(term, os.Interrupt, syscall.SIGTERM)
		g.Add(func() error {
			select {
			case <-term:
				level.Info(logger).Log("msg", "received termination signal, shutting down")
			case <-cancel:
			}
			return nil
		}, func(error) { close(cancel) })
	}
	{
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricshttp.Handler(reg, logger))
		server := &http.Server{Addr: *addr, Handler: mux}
		g.Add(func() error {
			level.Info(logger).Log("msg", "serving metrics", "addr", *addr)
			return server.ListenAndServe()
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		})
	}
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return generateLoad(ctx, requestsPending, requestsTotal, requestErrors, requestDuration, requestLatencySummary)
		}, func(error) { cancel() })
	}

	if err := g.Run(); err != nil {
		level.Error(logger).Log("msg", "exiting with error", "err", err)
		os.Exit(1)
	}
}

func meta(name, help string) metrics.Metadata {
	m, err := metrics.NewMetadata(name, help, "")
	if err != nil {
		panic(err)
	}
	return m
}

func randomExemplarLabels() (metrics.Labels, error) {
	trace := make([]byte, 16)
	span := make([]byte, 8)
	if _, err := rand.Read(trace); err != nil {
		return nil, err
	}
	if _, err := rand.Read(span); err != nil {
		return nil, err
	}
	return metrics.NewLabels(
		metrics.Label{Name: "trace_id", Value: hex.EncodeToString(trace)},
		metrics.Label{Name: "span_id", Value: hex.EncodeToString(span)},
	)
}

func generateLoad(ctx context.Context, pending *metrics.Gauge, total, errs *metrics.Counter, duration *metrics.Histogram, latency *metrics.Summary) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, method := range methods {
				for _, status := range statuses {
					for _, path := range paths {
						emitOne(method, status, path, pending, total, errs, duration, latency)
					}
				}
			}
		}
	}
}

func emitOne(method, status, path string, pending *metrics.Gauge, total, errs *metrics.Counter, duration *metrics.Histogram, latency *metrics.Summary) {
	values := []string{method, status, path}

	if g, err := pending.WithLabelValues(values...); err == nil {
		g.Set(float64(randIntn(50)))
	}
	if c, err := total.WithLabelValues(values...); err == nil {
		_ = c.Add(float64(randIntn(10) + 1))
	}
	if status == "500" || status == "404" {
		if c, err := errs.WithLabelValues(values...); err == nil {
			_ = c.Add(1)
		}
	}

	sample := mrand.NormFloat64()*0.2 + 0.3
	if sample < 0 {
		sample = -sample
	}
	if h, err := duration.WithLabelValues(values...); err == nil {
		if shouldSampleExemplar() {
			if labels, err := randomExemplarLabels(); err == nil {
				_ = h.ObserveWithExemplar(sample, labels)
			}
		} else {
			_ = h.Observe(sample)
		}
	}
	if s, err := latency.WithLabelValues(values...); err == nil {
		_ = s.Observe(sample)
	}
}

func shouldSampleExemplar() bool {
	n, err := rand.Int(rand.Reader, big.NewInt(10))
	if err != nil {
		return false
	}
	return n.Int64() == 0
}

func randIntn(n int) int {
	return mrand.Intn(n)
}
