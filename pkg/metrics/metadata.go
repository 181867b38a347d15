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
	"regexp"
	"strings"
)

// metricNameRE matches spec.md §3.1: [a-zA-Z_:][a-zA-Z0-9_:]*
var metricNameRE = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// reservedSuffixes are appended by the exposition writers themselves;
// a registered family name must not already end in one of them.
var reservedSuffixes = []string{
	"_total", "_created", "_bucket", "_count", "_sum", "_info", "_gcount", "_gsum",
}

// Metadata is the name/help/unit record shared by every collector
// (spec.md §3.1). It is validated once, at construction.
type Metadata struct {
	Name string
	Help string
	Unit string
}

// NewMetadata validates name, help and unit and returns a Metadata, or
// an InvalidName error.
func NewMetadata(name, help, unit string) (Metadata, error) {
	if name == "" {
		return Metadata{}, newError(InvalidName, "metric name must not be empty")
	}
	if !metricNameRE.MatchString(name) {
		return Metadata{}, newErrorf(InvalidName, "metric name %q does not match %s", name, metricNameRE.String())
	}
	for _, suffix := range reservedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return Metadata{}, newErrorf(InvalidName, "metric name %q must not end in reserved suffix %q", name, suffix)
		}
	}
	if unit != "" && !strings.HasSuffix(name, "_"+unit) {
		return Metadata{}, newErrorf(InvalidName, "metric name %q must end in \"_%s\" when unit is set", name, unit)
	}
	return Metadata{Name: name, Help: help, Unit: unit}, nil
}
