// Package health serves liveness and readiness probes.
//
// Probes are evaluated in the background by Run. A probe flips to unhealthy
// only after failAfter consecutive failures and back to healthy after okAfter
// consecutive successes, so a single slow dependency call does not flap the
// endpoint.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"
)

// CheckFunc reports a problem with a component, or nil when it is healthy.
type CheckFunc func(ctx context.Context) error

// Kind selects the endpoint a probe contributes to.
type Kind uint8

// Probe kinds.
const (
	Liveness Kind = iota
	Readiness
)

func (k Kind) String() string {
	if k == Readiness {
		return "readiness"
	}
	return "liveness"
}

// Option configures a probe.
type Option func(*probe)

// WithTimeout bounds a single check run. Default is one second.
func WithTimeout(d time.Duration) Option {
	return func(p *probe) { p.timeout = d }
}

// WithThresholds sets how many consecutive results flip the probe state.
// Defaults are 3 failures and 1 success.
func WithThresholds(failAfter, okAfter int) Option {
	return func(p *probe) {
		p.failAfter = max(failAfter, 1)
		p.okAfter = max(okAfter, 1)
	}
}

type probe struct {
	name      string
	kind      Kind
	check     CheckFunc
	timeout   time.Duration
	failAfter int
	okAfter   int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	// Only touched by the goroutine running observe.
	fails int
	oks   int
}

func (p *probe) observe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(ctx)
	p.lastErr.Store(&err)

	if err != nil {
		p.oks = 0
		p.fails++
		if p.fails >= p.failAfter {
			p.healthy.Store(false)
		}
		return
	}
	p.fails = 0
	p.oks++
	if p.oks >= p.okAfter {
		p.healthy.Store(true)
	}
}

func (p *probe) failure() string {
	if e := p.lastErr.Load(); e != nil && *e != nil {
		return (*e).Error()
	}
	return "check is unhealthy"
}

// Registry holds the probes of a service.
type Registry struct {
	ready atomic.Bool

	mu     sync.RWMutex
	probes []*probe
}

// New returns an empty Registry. It reports not ready until SetReady(true).
func New() *Registry {
	return &Registry{}
}

// Register adds a probe. Probes start healthy.
func (r *Registry) Register(kind Kind, name string, check CheckFunc, opts ...Option) {
	p := &probe{
		name:      name,
		kind:      kind,
		check:     check,
		timeout:   time.Second,
		failAfter: 3,
		okAfter:   1,
	}
	for _, o := range opts {
		o(p)
	}
	p.healthy.Store(true)

	r.mu.Lock()
	r.probes = append(r.probes, p)
	r.mu.Unlock()
}

// SetReady toggles the manual readiness gate, e.g. off during shutdown.
func (r *Registry) SetReady(ready bool) {
	r.ready.Store(ready)
}

// Run evaluates every probe immediately and then every interval until ctx is
// done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range r.snapshot() {
		g.Go(func() error {
			t := time.NewTicker(interval)
			defer t.Stop()

			p.observe(ctx)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-t.C:
					p.observe(ctx)
				}
			}
		})
	}
	return g.Wait()
}

// Status reports whether all probes of kind are healthy, with the failing
// probe messages keyed by name. Readiness also honours the manual gate.
func (r *Registry) Status(kind Kind) (bool, map[string]string) {
	failures := make(map[string]string)
	for _, p := range r.snapshot() {
		if p.kind == kind && !p.healthy.Load() {
			failures[p.name] = p.failure()
		}
	}
	if kind == Readiness && !r.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	return len(failures) == 0, failures
}

// Handler serves the probe endpoint of kind: 200 {"status":"ok"} or
// 503 {"status":"unhealthy","checks":{...}}.
func (r *Registry) Handler(kind Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		ok, failures := r.Status(kind)

		e := jx.GetEncoder()
		defer jx.PutEncoder(e)

		status := http.StatusOK
		e.Obj(func(e *jx.Encoder) {
			if ok {
				e.Field("status", func(e *jx.Encoder) { e.Str("ok") })
				return
			}
			status = http.StatusServiceUnavailable
			e.Field("status", func(e *jx.Encoder) { e.Str("unhealthy") })
			e.Field("checks", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					names := make([]string, 0, len(failures))
					for name := range failures {
						names = append(names, name)
					}
					slices.Sort(names)
					for _, name := range names {
						e.Field(name, func(e *jx.Encoder) { e.Str(failures[name]) })
					}
				})
			})
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		// The status line is already out; a write error means the client left.
		_, _ = w.Write(e.Bytes())
	})
}

func (r *Registry) snapshot() []*probe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.probes)
}
