// Package testutil provides recording mock implementations of the
// application's interfaces for use in tests.
package testutil

import (
	"sync"
	"time"
)

// MockIdleSource is a thread-safe mock implementation of
// interfaces.IdleSource for testing.
type MockIdleSource struct {
	mu        sync.Mutex
	idleTime  time.Duration
	samples   []time.Duration
	failAt    int
	err       error
	callCount int
}

// NewMockIdleSource creates a new mock idle source that always reports
// the given idle time.
func NewMockIdleSource(idleTime time.Duration) *MockIdleSource {
	return &MockIdleSource{idleTime: idleTime}
}

// IdleTime implements the IdleSource interface. When a sample script
// is set, each call consumes one entry and the last entry repeats.
func (m *MockIdleSource) IdleTime() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++

	if m.failAt > 0 && m.callCount >= m.failAt {
		return 0, m.err
	}

	if len(m.samples) > 0 {
		d := m.samples[0]
		if len(m.samples) > 1 {
			m.samples = m.samples[1:]
		}
		return d, nil
	}

	return m.idleTime, nil
}

// SetIdleTime sets the idle time reported by every call.
func (m *MockIdleSource) SetIdleTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTime = d
}

// SetSamples sets a per-call sample script; the last sample repeats.
func (m *MockIdleSource) SetSamples(samples ...time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = samples
}

// FailAtCall makes the nth and all later calls return err.
func (m *MockIdleSource) FailAtCall(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.err = err
}

// GetCallCount returns how many times IdleTime was called.
func (m *MockIdleSource) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MockSessionSink is a thread-safe mock implementation of
// interfaces.SessionSink for testing.
type MockSessionSink struct {
	mu     sync.Mutex
	calls  []bool
	failAt int
	err    error
}

// NewMockSessionSink creates a new mock session sink.
func NewMockSessionSink() *MockSessionSink {
	return &MockSessionSink{calls: []bool{}}
}

// SetIdleHint implements the SessionSink interface. Every call is
// recorded, including failed ones.
func (m *MockSessionSink) SetIdleHint(idle bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, idle)

	if m.err != nil && len(m.calls) >= m.failAt {
		return m.err
	}

	return nil
}

// GetCalls returns a copy of the recorded SetIdleHint arguments.
func (m *MockSessionSink) GetCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]bool, len(m.calls))
	copy(result, m.calls)
	return result
}

// SetError makes every call return err.
func (m *MockSessionSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = 0
	m.err = err
}

// FailAtCall makes the nth and all later calls return err.
func (m *MockSessionSink) FailAtCall(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.err = err
}

// Clear resets the mock state.
func (m *MockSessionSink) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = []bool{}
	m.failAt = 0
	m.err = nil
}
