package gate

import (
	"testing"
	"time"
)

// fakeClock advances only when the gate sleeps.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestWait_ImmediateSuccess(t *testing.T) {
	clock := newFakeClock()
	g := NewWithClock(Options{MaxWait: 100 * time.Second, Interval: 10 * time.Second}, clock.Now, clock.Sleep)

	result := g.Wait(func(time.Duration) bool { return true })

	if !result.Ready() {
		t.Errorf("Status = %q, want ready", result.Status)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.Elapsed != 0 {
		t.Errorf("Elapsed = %v, want 0", result.Elapsed)
	}
}

func TestWait_SucceedsOnNthAttempt(t *testing.T) {
	clock := newFakeClock()
	g := NewWithClock(Options{MaxWait: 100 * time.Second, Interval: 10 * time.Second}, clock.Now, clock.Sleep)

	calls := 0
	result := g.Wait(func(time.Duration) bool {
		calls++
		return calls == 3
	})

	if !result.Ready() {
		t.Fatalf("Status = %q, want ready", result.Status)
	}
	if calls != 3 {
		t.Errorf("probe invoked %d times, want 3", calls)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	// Two sleeps of the interval happen before the third attempt.
	if want := 20 * time.Second; result.Elapsed < want {
		t.Errorf("Elapsed = %v, want >= %v", result.Elapsed, want)
	}
}

func TestWait_TimesOut(t *testing.T) {
	clock := newFakeClock()
	g := NewWithClock(Options{MaxWait: 30 * time.Second, Interval: 10 * time.Second}, clock.Now, clock.Sleep)

	calls := 0
	result := g.Wait(func(time.Duration) bool {
		calls++
		return false
	})

	if result.Ready() {
		t.Fatal("gate should time out for a probe that never succeeds")
	}
	if result.Status != StatusTimedOut {
		t.Errorf("Status = %q, want timed-out", result.Status)
	}
	if result.Elapsed < 30*time.Second {
		t.Errorf("Elapsed = %v, want >= MaxWait", result.Elapsed)
	}
	// Attempts at t=0,10,20,30; the probe is never invoked after timeout.
	if calls != 4 {
		t.Errorf("probe invoked %d times, want 4", calls)
	}
	if result.Attempts != calls {
		t.Errorf("Attempts = %d, want %d", result.Attempts, calls)
	}
}

func TestWait_NeverReadyWithoutSuccess(t *testing.T) {
	clock := newFakeClock()
	g := NewWithClock(Options{MaxWait: 0, Interval: time.Second}, clock.Now, clock.Sleep)

	result := g.Wait(func(time.Duration) bool { return false })

	if result.Ready() {
		t.Error("gate must not report ready without a successful probe")
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want exactly 1 with zero MaxWait", result.Attempts)
	}
}

func TestWait_PassesConnectTimeoutToProbe(t *testing.T) {
	clock := newFakeClock()
	g := NewWithClock(Options{
		MaxWait:        20 * time.Second,
		Interval:       10 * time.Second,
		ConnectTimeout: 5 * time.Second,
	}, clock.Now, clock.Sleep)

	var seen []time.Duration
	g.Wait(func(timeout time.Duration) bool {
		seen = append(seen, timeout)
		return false
	})

	if len(seen) == 0 {
		t.Fatal("probe never invoked")
	}
	for i, d := range seen {
		if d != 5*time.Second {
			t.Errorf("attempt %d got timeout %v, want 5s", i+1, d)
		}
	}
}

func TestResult_Ready(t *testing.T) {
	if (Result{Status: StatusTimedOut}).Ready() {
		t.Error("timed-out result should not be ready")
	}
	if !(Result{Status: StatusReady}).Ready() {
		t.Error("ready result should be ready")
	}
}
