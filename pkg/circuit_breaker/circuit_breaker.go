package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

func (s Status) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type circuitBreaker struct {
	mu sync.Mutex
	// closed: calls pass, open: calls fail fast, half-open: calls pass until one fails
	state Status
	// number of recent calls tracked
	recordLength int
	// how long the breaker stays open before probing
	timeout time.Duration

	openedAt time.Time
	// share of failed calls among the tracked ones that opens the breaker
	percentile float64
	// ring of recent results, true means failed
	buffer []bool
	pos    int
	// successful half-open calls needed to close again
	recoveryRequests int
	successCount     int

	now func() time.Time
}

type CircuitBreaker interface {
	Call(service func() error) error
	State() Status
	Reset()
}

var ErrOpenCB = errors.New("circuit breaker is open")

func NewCircuitBreaker(recordLength int, timeout time.Duration, percentile float64, recoveryRequests int) CircuitBreaker {
	return newCircuitBreaker(recordLength, timeout, percentile, recoveryRequests, time.Now)
}

func newCircuitBreaker(recordLength int, timeout time.Duration, percentile float64, recoveryRequests int, now func() time.Time) *circuitBreaker {
	if recordLength < 1 {
		recordLength = 1
	}
	return &circuitBreaker{
		state:            Closed,
		recordLength:     recordLength,
		timeout:          timeout,
		percentile:       percentile,
		buffer:           make([]bool, recordLength),
		recoveryRequests: recoveryRequests,
		now:              now,
	}
}

func (cb *circuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.openedAt) < cb.timeout {
			cb.mu.Unlock()
			return ErrOpenCB
		}
		cb.state = HalfOpen
		cb.successCount = 0
	}
	cb.mu.Unlock()

	err := service()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.buffer[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % cb.recordLength

	if cb.state == HalfOpen {
		if err != nil {
			cb.trip()
			return err
		}
		cb.successCount++
		if cb.successCount >= cb.recoveryRequests {
			cb.reset()
		}
		return err
	}

	fails := 0
	for _, failed := range cb.buffer {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(cb.recordLength) >= cb.percentile {
		cb.trip()
	}
	return err
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.successCount = 0
	cb.openedAt = cb.now()
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.buffer {
		cb.buffer[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = Closed
}
