package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func passing(_ context.Context) error { return nil }

func failing(msg string) CheckFunc {
	return func(_ context.Context) error { return errors.New(msg) }
}

func get(t *testing.T, r *Registry, kind Kind) (int, statusBody) {
	t.Helper()

	w := httptest.NewRecorder()
	r.Handler(kind).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body statusBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func observe(r *Registry, n int) {
	for _, p := range r.snapshot() {
		for range n {
			p.observe(context.Background())
		}
	}
}

func TestLiveness_NoProbes(t *testing.T) {
	code, body := get(t, New(), Liveness)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Checks)
}

func TestLiveness_FailureThreshold(t *testing.T) {
	r := New()
	r.Register(Liveness, "db", failing("connection refused"))

	observe(r, 2)
	code, _ := get(t, r, Liveness)
	assert.Equal(t, http.StatusOK, code, "below threshold")

	observe(r, 1)
	code, body := get(t, r, Liveness)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "connection refused", body.Checks["db"])
}

func TestReadiness_Gate(t *testing.T) {
	r := New()
	r.Register(Readiness, "store", passing)

	code, body := get(t, r, Readiness)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Checks, "_readiness")

	r.SetReady(true)
	code, body = get(t, r, Readiness)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)

	r.SetReady(false)
	code, _ = get(t, r, Readiness)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestReadiness_IgnoresLivenessProbes(t *testing.T) {
	r := New()
	r.Register(Liveness, "goroutines", failing("too many"), WithThresholds(1, 1))
	r.Register(Readiness, "store", passing)
	r.SetReady(true)
	observe(r, 1)

	ok, failures := r.Status(Readiness)
	assert.True(t, ok)
	assert.Empty(t, failures)

	ok, failures = r.Status(Liveness)
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"goroutines": "too many"}, failures)
}

func TestProbe_Recovery(t *testing.T) {
	down := true
	r := New()
	r.Register(Liveness, "flaky", func(_ context.Context) error {
		if down {
			return errors.New("down")
		}
		return nil
	}, WithThresholds(2, 2))

	observe(r, 2)
	ok, _ := r.Status(Liveness)
	require.False(t, ok)

	down = false
	observe(r, 1)
	ok, _ = r.Status(Liveness)
	assert.False(t, ok, "one success is below the recovery threshold")

	observe(r, 1)
	ok, _ = r.Status(Liveness)
	assert.True(t, ok)
}

func TestProbe_Timeout(t *testing.T) {
	r := New()
	r.Register(Readiness, "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, WithTimeout(10*time.Millisecond), WithThresholds(1, 1))
	r.SetReady(true)

	observe(r, 1)
	_, failures := r.Status(Readiness)
	assert.Equal(t, context.DeadlineExceeded.Error(), failures["slow"])
}

func TestRun_StopsWithContext(t *testing.T) {
	r := New()
	r.Register(Liveness, "a", passing)
	r.Register(Readiness, "b", failing("err"))
	r.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, 5*time.Millisecond) }()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				r.Status(Liveness)
				w := httptest.NewRecorder()
				r.Handler(Readiness).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			}
		}()
	}
	wg.Wait()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCheckers(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, Goroutines(100000)(ctx))
	err := Goroutines(0)(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")

	assert.NoError(t, GCPause(time.Hour)(ctx))
}

func TestCheckPause(t *testing.T) {
	const limit = 10 * time.Millisecond

	assert.NoError(t, checkPause(nil, limit))
	assert.NoError(t, checkPause([]time.Duration{time.Millisecond}, limit))
	// An old spike further back in history does not keep the check failing.
	assert.NoError(t, checkPause([]time.Duration{time.Millisecond, time.Second}, limit))

	err := checkPause([]time.Duration{time.Second, time.Millisecond}, limit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestPing(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, Ping(pinger{})(ctx))

	err := Ping(pinger{err: errors.New("closed")})(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}
