package circuit_breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func Test_circuitBreaker_Call(t *testing.T) {
	errService := errors.New("service error")
	successfulService := func() error { return nil }
	failingService := func() error { return errService }

	type step struct {
		wait    time.Duration
		service func() error
		times   int
		wantErr error
		want    Status
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "stays closed on success",
			steps: []step{
				{service: successfulService, times: 50, want: Closed},
			},
		},
		{
			name: "opens at percentile and fails fast",
			steps: []step{
				{service: successfulService, times: 10, want: Closed},
				{service: failingService, times: 2, wantErr: errService, want: Closed},
				{service: failingService, times: 1, wantErr: errService, want: Open},
				{service: successfulService, times: 5, wantErr: ErrOpenCB, want: Open},
			},
		},
		{
			name: "half open recovers",
			steps: []step{
				{service: failingService, times: 3, wantErr: errService, want: Open},
				{wait: 3 * time.Second, service: successfulService, times: 1, want: HalfOpen},
				{service: successfulService, times: 1, want: Closed},
			},
		},
		{
			name: "half open failure reopens",
			steps: []step{
				{service: failingService, times: 3, wantErr: errService, want: Open},
				{wait: 3 * time.Second, service: failingService, times: 1, wantErr: errService, want: Open},
				{service: successfulService, times: 1, wantErr: ErrOpenCB, want: Open},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
			cb := newCircuitBreaker(10, 2*time.Second, 0.30, 2, c.now)
			for i, s := range tt.steps {
				c.advance(s.wait)
				for n := 0; n < s.times; n++ {
					err := cb.Call(s.service)
					require.ErrorIs(t, err, s.wantErr, "step %d call %d", i, n)
				}
				require.Equal(t, s.want, cb.State(), "step %d", i)
			}
		})
	}
}

func TestReset(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, 0.5, 1)
	require.Error(t, cb.Call(func() error { return errors.New("x") }))
	require.Equal(t, Open, cb.State())

	cb.Reset()
	require.Equal(t, Closed, cb.State())
	require.NoError(t, cb.Call(func() error { return nil }))
}
