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
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the *Error values this package returns. Kinds are not
// themselves error values: test for one with IsKind, or with errors.Is
// against a *Error carrying that Kind.
type Kind int

const (
	// InvalidName marks a metric or label name that failed validation.
	InvalidName Kind = iota + 1
	// InvalidArgument marks a bad runtime argument: a negative counter
	// increment, a NaN bucket bound, a quantile outside [0,1], and
	// similar.
	InvalidArgument
	// DuplicateName marks registering a second family under a name
	// already present in a registry.
	DuplicateName
	// CollectorFailed names a collector that panicked during Collect.
	// Registry.Gather recovers such panics and reports them as
	// *CollectorError values, which do not carry this Kind.
	CollectorFailed
	// WriteError names a sink rejecting exposition bytes. The expfmt
	// writers report sink failures as wrapped errors that do not carry
	// this Kind.
	WriteError
)

func (k Kind) String() string {
	switch k {
	case InvalidName:
		return "invalid_name"
	case InvalidArgument:
		return "invalid_argument"
	case DuplicateName:
		return "duplicate_name"
	case CollectorFailed:
		return "collector_failed"
	case WriteError:
		return "write_error"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by this package. Kind lets
// callers branch on the category with errors.Is/errors.As without
// depending on a specific message string.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

func newErrorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is a *Error carrying the same Kind, so
// errors.Is(err, &metrics.Error{Kind: k}) matches any *Error of kind k
// in err's chain; IsKind(err, k) is the shorter form.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
