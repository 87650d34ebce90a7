package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// Goroutines fails when more than limit goroutines are running.
func Goroutines(limit int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, limit)
		}
		return nil
	}
}

// GCPause fails when the most recent GC pause is longer than limit.
func GCPause(limit time.Duration) CheckFunc {
	return func(_ context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)
		return checkPause(stats.Pause, limit)
	}
}

// checkPause inspects pauses ordered most recent first.
func checkPause(pauses []time.Duration, limit time.Duration) error {
	if len(pauses) == 0 {
		return nil
	}
	if p := pauses[0]; p > limit {
		return errors.Errorf("GC pause %s exceeds threshold %s", p, limit)
	}
	return nil
}

// Pinger is a dependency that can verify its own availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping adapts a Pinger to a CheckFunc.
func Ping(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping")
		}
		return nil
	}
}
