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

// Package push is the pushgateway collaborator described in spec.md
// §6.3: it builds the grouping-key URL path and hands exposition bytes
// to a caller-supplied HTTP client. It consumes the core's Registry and
// expfmt writers but is itself outside the core.
package push

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/oss-metrics/client-go/pkg/metrics"
	"github.com/oss-metrics/client-go/pkg/metrics/expfmt"
)

// HTTPDoer is the seam the pusher depends on instead of a concrete
// *http.Client, so callers can install timeouts, retries, or a fake in
// tests. Grounded on hashicorp/go-cleanhttp's swappable-client idiom
// seen elsewhere in the example pack.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Pusher pushes a registry's scrape output to a pushgateway URL.
type Pusher struct {
	url      string
	job      string
	grouping []grouping
	client   HTTPDoer
}

type grouping struct {
	key, value string
}

// New builds a Pusher targeting baseURL (e.g. "http://pushgateway:9091")
// for the given job name.
func New(baseURL, job string, client HTTPDoer) *Pusher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Pusher{url: strings.TrimRight(baseURL, "/"), job: job, client: client}
}

// Grouping adds a grouping-key label to the push path.
func (p *Pusher) Grouping(key, value string) *Pusher {
	p.grouping = append(p.grouping, grouping{key, value})
	return p
}

// groupingPathSegment renders one key/value grouping pair, switching to
// the "<key>@base64/<...>" form when the value needs it.
func groupingPathSegment(key, value string) string {
	if value == "" {
		return url.PathEscape(key) + "@base64/="
	}
	if strings.Contains(value, "/") {
		encoded := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(value))
		return url.PathEscape(key) + "@base64/" + encoded
	}
	return url.PathEscape(key) + "/" + url.PathEscape(value)
}

// Path returns the full "/metrics/job/..." path this Pusher would push
// to, for callers that want to inspect or log it.
func (p *Pusher) Path() string {
	var b strings.Builder
	b.WriteString("/metrics/job/")
	b.WriteString(groupingValueSegment(p.job))
	for _, g := range p.grouping {
		b.WriteString("/")
		b.WriteString(groupingPathSegment(g.key, g.value))
	}
	return b.String()
}

func groupingValueSegment(v string) string {
	if v == "" {
		return "="
	}
	if strings.Contains(v, "/") {
		return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(v))
	}
	return url.PathEscape(v)
}

// Push gathers reg and PUTs it (replacing any prior push under this
// grouping key) to the pushgateway as OpenMetrics text.
func (p *Pusher) Push(ctx context.Context, reg *metrics.Registry) error {
	return p.do(ctx, reg, http.MethodPut)
}

// Add gathers reg and POSTs it, merging with any existing metrics under
// this grouping key instead of replacing them.
func (p *Pusher) Add(ctx context.Context, reg *metrics.Registry) error {
	return p.do(ctx, reg, http.MethodPost)
}

func (p *Pusher) do(ctx context.Context, reg *metrics.Registry, method string) error {
	snapshots, _ := reg.Gather()
	var buf bytes.Buffer
	if _, err := expfmt.WriteOpenMetrics(&buf, snapshots); err != nil {
		return errors.Wrap(err, "push: encode registry")
	}
	req, err := http.NewRequestWithContext(ctx, method, p.url+p.Path(), &buf)
	if err != nil {
		return errors.Wrap(err, "push: build request")
	}
	req.Header.Set("Content-Type", expfmt.ContentTypeOpenMetrics)
	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "push: do request")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return errors.Errorf("push: gateway returned %s", resp.Status)
	}
	return nil
}
