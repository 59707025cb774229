package monitor

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/x11-idle-sync/pkg/testutil"
)

func TestPollInterval(t *testing.T) {
	tests := []struct {
		name      string
		threshold time.Duration
		want      time.Duration
	}{
		{
			name:      "threshold at the floor boundary",
			threshold: 50 * time.Second,
			want:      5 * time.Second,
		},
		{
			name:      "large threshold uses a tenth",
			threshold: 300 * time.Second,
			want:      30 * time.Second,
		},
		{
			name:      "small threshold clamps to the floor",
			threshold: 3 * time.Second,
			want:      5 * time.Second,
		},
		{
			name:      "one hour threshold",
			threshold: time.Hour,
			want:      6 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PollInterval(tt.threshold); got != tt.want {
				t.Errorf("PollInterval(%v) = %v, want %v", tt.threshold, got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if got := StateActive.String(); got != "active" {
		t.Errorf("StateActive.String() = %q, want %q", got, "active")
	}
	if got := StateIdle.String(); got != "idle" {
		t.Errorf("StateIdle.String() = %q, want %q", got, "idle")
	}
}

func TestNew(t *testing.T) {
	source := testutil.NewMockIdleSource(0)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer

	m := New(300*time.Second, source, sink, &buf)

	if m.state != StateActive {
		t.Errorf("initial state = %v, want %v", m.state, StateActive)
	}
	if m.Interval() != 30*time.Second {
		t.Errorf("Interval() = %v, want %v", m.Interval(), 30*time.Second)
	}
}

func TestTick_Classification(t *testing.T) {
	tests := []struct {
		name      string
		threshold time.Duration
		idleTime  time.Duration
		wantIdle  bool
	}{
		{
			name:      "well below threshold",
			threshold: 10 * time.Second,
			idleTime:  3 * time.Second,
			wantIdle:  false,
		},
		{
			name:      "exactly at threshold is idle",
			threshold: 10 * time.Second,
			idleTime:  10 * time.Second,
			wantIdle:  true,
		},
		{
			name:      "just below threshold",
			threshold: 10 * time.Second,
			idleTime:  10*time.Second - time.Millisecond,
			wantIdle:  false,
		},
		{
			name:      "above threshold",
			threshold: 10 * time.Second,
			idleTime:  15 * time.Second,
			wantIdle:  true,
		},
		{
			name:      "zero idle time",
			threshold: 10 * time.Second,
			idleTime:  0,
			wantIdle:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := testutil.NewMockIdleSource(tt.idleTime)
			sink := testutil.NewMockSessionSink()
			var buf bytes.Buffer
			m := New(tt.threshold, source, sink, &buf)

			if err := m.tick(); err != nil {
				t.Fatalf("tick() error = %v", err)
			}

			calls := sink.GetCalls()
			if len(calls) != 1 {
				t.Fatalf("sink called %d times, want 1", len(calls))
			}
			if calls[0] != tt.wantIdle {
				t.Errorf("SetIdleHint(%v), want SetIdleHint(%v)", calls[0], tt.wantIdle)
			}
		})
	}
}

func TestTick_TransitionNotifications(t *testing.T) {
	source := testutil.NewMockIdleSource(0)
	source.SetSamples(3*time.Second, 15*time.Second, 20*time.Second, 4*time.Second)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	for i := 0; i < 4; i++ {
		if err := m.tick(); err != nil {
			t.Fatalf("tick %d error = %v", i+1, err)
		}
	}

	// The hint is pushed every tick, not only on change.
	calls := sink.GetCalls()
	wantCalls := []bool{false, true, true, false}
	if len(calls) != len(wantCalls) {
		t.Fatalf("sink called %d times, want %d", len(calls), len(wantCalls))
	}
	for i, want := range wantCalls {
		if calls[i] != want {
			t.Errorf("call %d = SetIdleHint(%v), want SetIdleHint(%v)", i+1, calls[i], want)
		}
	}

	// Consecutive same-state ticks must not repeat the transition line.
	output := buf.String()
	if got := strings.Count(output, "User is idle"); got != 1 {
		t.Errorf("output contains %d idle transitions, want 1:\n%s", got, output)
	}
	if got := strings.Count(output, "User is active"); got != 1 {
		t.Errorf("output contains %d active transitions, want 1:\n%s", got, output)
	}
}

func TestTick_SampleError(t *testing.T) {
	sampleErr := errors.New("display connection lost")
	source := testutil.NewMockIdleSource(0)
	source.FailAtCall(1, sampleErr)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	err := m.tick()
	if err == nil {
		t.Fatal("tick() error = nil, want sampling error")
	}
	if !errors.Is(err, sampleErr) {
		t.Errorf("tick() error = %v, want wrapped %v", err, sampleErr)
	}
	if !strings.Contains(err.Error(), "failed to sample idle time") {
		t.Errorf("tick() error = %v, want sampling context", err)
	}
	if len(sink.GetCalls()) != 0 {
		t.Errorf("sink called %d times after sample failure, want 0", len(sink.GetCalls()))
	}
}

func TestTick_SinkError(t *testing.T) {
	sinkErr := errors.New("session object gone")
	source := testutil.NewMockIdleSource(15 * time.Second)
	sink := testutil.NewMockSessionSink()
	sink.SetError(sinkErr)
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	err := m.tick()
	if !errors.Is(err, sinkErr) {
		t.Fatalf("tick() error = %v, want wrapped %v", err, sinkErr)
	}
	if !strings.Contains(err.Error(), "failed to set idle hint") {
		t.Errorf("tick() error = %v, want set-idle-hint context", err)
	}
}

func TestRun_ShutdownPendingBeforeFirstWait(t *testing.T) {
	source := testutil.NewMockIdleSource(0)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(50*time.Second, source, sink, &buf)

	stop := make(chan struct{})
	close(stop)

	if err := m.Run(stop); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if got := source.GetCallCount(); got != 0 {
		t.Errorf("source sampled %d times, want 0", got)
	}
	if got := len(sink.GetCalls()); got != 0 {
		t.Errorf("sink called %d times, want 0", got)
	}
	if !strings.Contains(buf.String(), "Received shutdown signal") {
		t.Errorf("output missing shutdown line:\n%s", buf.String())
	}
}

func TestRun_FatalSampleOnThirdTick(t *testing.T) {
	sampleErr := errors.New("query failed")
	source := testutil.NewMockIdleSource(3 * time.Second)
	source.FailAtCall(3, sampleErr)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)
	m.interval = time.Millisecond

	stop := make(chan struct{})
	err := m.Run(stop)

	if !errors.Is(err, sampleErr) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, sampleErr)
	}
	// Ticks 1 and 2 completed with their own hint calls; the failed
	// third tick made none.
	if got := len(sink.GetCalls()); got != 2 {
		t.Errorf("sink called %d times, want 2", got)
	}
}

func TestRun_GracefulShutdownAfterTicks(t *testing.T) {
	source := testutil.NewMockIdleSource(0)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)
	m.interval = time.Millisecond

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- m.Run(stop) }()

	deadline := time.After(2 * time.Second)
	for len(sink.GetCalls()) < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for ticks")
		case <-time.After(time.Millisecond):
		}
	}

	close(stop)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}

func TestCheckOnce_Idle(t *testing.T) {
	source := testutil.NewMockIdleSource(15 * time.Second)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	if err := m.CheckOnce(); err != nil {
		t.Fatalf("CheckOnce() error = %v", err)
	}

	calls := sink.GetCalls()
	if len(calls) != 1 || !calls[0] {
		t.Errorf("sink calls = %v, want [true]", calls)
	}
	if got := strings.Count(buf.String(), "User is idle"); got != 1 {
		t.Errorf("output contains %d idle lines, want 1:\n%s", got, buf.String())
	}
}

func TestCheckOnce_Active(t *testing.T) {
	source := testutil.NewMockIdleSource(2 * time.Second)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	if err := m.CheckOnce(); err != nil {
		t.Fatalf("CheckOnce() error = %v", err)
	}

	calls := sink.GetCalls()
	if len(calls) != 1 || calls[0] {
		t.Errorf("sink calls = %v, want [false]", calls)
	}
	// An active one-shot is not a transition from the implicit Active
	// start, so no state line is printed.
	if buf.Len() != 0 {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestCheckOnce_SampleError(t *testing.T) {
	sampleErr := errors.New("no display")
	source := testutil.NewMockIdleSource(0)
	source.FailAtCall(1, sampleErr)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	if err := m.CheckOnce(); !errors.Is(err, sampleErr) {
		t.Fatalf("CheckOnce() error = %v, want wrapped %v", err, sampleErr)
	}
	if len(sink.GetCalls()) != 0 {
		t.Errorf("sink called after sample failure")
	}
}

func TestResetIdleHint(t *testing.T) {
	source := testutil.NewMockIdleSource(0)
	sink := testutil.NewMockSessionSink()
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	if err := m.ResetIdleHint(); err != nil {
		t.Fatalf("ResetIdleHint() error = %v", err)
	}

	calls := sink.GetCalls()
	if len(calls) != 1 || calls[0] {
		t.Errorf("sink calls = %v, want [false]", calls)
	}
}

func TestResetIdleHint_Error(t *testing.T) {
	sinkErr := errors.New("transport closed")
	source := testutil.NewMockIdleSource(0)
	sink := testutil.NewMockSessionSink()
	sink.SetError(sinkErr)
	var buf bytes.Buffer
	m := New(10*time.Second, source, sink, &buf)

	err := m.ResetIdleHint()
	if !errors.Is(err, sinkErr) {
		t.Fatalf("ResetIdleHint() error = %v, want wrapped %v", err, sinkErr)
	}
	if !strings.Contains(err.Error(), "failed to reset idle hint") {
		t.Errorf("ResetIdleHint() error = %v, want reset context", err)
	}
}

func TestDebugWriter(t *testing.T) {
	source := testutil.NewMockIdleSource(3 * time.Second)
	sink := testutil.NewMockSessionSink()
	var out, debug bytes.Buffer
	m := New(10*time.Second, source, sink, &out)
	m.SetDebugWriter(&debug)

	if err := m.tick(); err != nil {
		t.Fatalf("tick() error = %v", err)
	}

	if !strings.Contains(debug.String(), "idle for 3s") {
		t.Errorf("debug output missing sample line:\n%s", debug.String())
	}
	if out.Len() != 0 {
		t.Errorf("transition output written for unchanged state:\n%s", out.String())
	}
}
