// Package resource implements keyed remote fetches for screens. A
// Resource re-fetches when its parameter changes and ignores results
// from requests it has since superseded.
package resource

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 15 * time.Second

// Fetcher loads the value for a parameter.
type Fetcher[P comparable, T any] func(ctx context.Context, param P) (T, error)

// Result is the message a fetch command delivers. Route it back with
// Resource.Apply.
type Result[P comparable, T any] struct {
	owner *Resource[P, T]
	gen   uint64

	Param P
	Data  T
	Err   error
}

// Option customizes a Resource.
type Option func(*options)

type options struct {
	timeout time.Duration
	logger  *slog.Logger
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets where fetch failures are logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Resource holds the latest value of one remote fetch. It is owned by a
// single screen and must only be touched from its Update.
type Resource[P comparable, T any] struct {
	name    string
	errText string
	fetch   Fetcher[P, T]
	opts    options

	gen     uint64
	param   P
	defined bool
	started bool

	Data    T
	Loading bool
	// Err is a human-readable message for the last failed fetch.
	Err string
}

// New creates a Resource. errText is shown when a fetch fails.
func New[P comparable, T any](name, errText string, fetch Fetcher[P, T], opts ...Option) *Resource[P, T] {
	o := options{timeout: DefaultTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resource[P, T]{name: name, errText: errText, fetch: fetch, opts: o}
}

// Request declares the current parameter. It returns a fetch command
// when the parameter changed since the last request, or on the first
// defined request, and nil otherwise. An undefined parameter performs
// no fetch and resets the value to empty.
func (r *Resource[P, T]) Request(param P, defined bool) tea.Cmd {
	if !defined {
		if r.defined || !r.started {
			r.gen++
			var zero T
			r.Data = zero
			r.Loading = false
			r.Err = ""
		}
		r.defined = false
		r.started = true
		return nil
	}
	if r.started && r.defined && r.param == param {
		return nil
	}
	r.param = param
	r.defined = true
	r.started = true
	return r.load()
}

// Refresh re-fetches the current parameter. It returns nil when the
// parameter is undefined.
func (r *Resource[P, T]) Refresh() tea.Cmd {
	if !r.defined {
		return nil
	}
	return r.load()
}

func (r *Resource[P, T]) load() tea.Cmd {
	r.gen++
	r.Loading = true
	r.Err = ""

	gen, param, fetch, timeout := r.gen, r.param, r.fetch, r.opts.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := fetch(ctx, param)
		return Result[P, T]{owner: r, gen: gen, Param: param, Data: data, Err: err}
	}
}

// Apply stores a fetch result. It reports false when the result belongs
// to another resource or to a superseded request; such results change
// nothing. A failed fetch keeps the previous Data.
func (r *Resource[P, T]) Apply(res Result[P, T]) bool {
	if res.owner != r || res.gen != r.gen {
		return false
	}
	r.Loading = false
	if res.Err != nil {
		r.opts.logger.Warn("fetch failed", "resource", r.name, "param", res.Param, "err", res.Err)
		r.Err = r.errText
		return true
	}
	r.Data = res.Data
	r.Err = ""
	return true
}

// Param returns the current parameter and whether it is defined.
func (r *Resource[P, T]) Param() (P, bool) { return r.param, r.defined }
