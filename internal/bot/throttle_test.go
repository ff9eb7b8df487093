package bot

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestThrottle_Disabled(t *testing.T) {
	for _, th := range []*Throttle{nil, NewThrottle(0), NewThrottle(-1)} {
		for range 100 {
			if !th.Allow(1) {
				t.Fatal("disabled throttle must always allow")
			}
		}
	}
}

func TestThrottle_PerChatBudget(t *testing.T) {
	th := NewThrottle(3)

	for i := range 3 {
		if !th.Allow(10) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if th.Allow(10) {
		t.Error("fourth request within a minute should be denied")
	}
	if !th.Allow(11) {
		t.Error("a different chat has its own budget")
	}
}

func TestThrottle_ConcurrentFirstRequests(t *testing.T) {
	th := NewThrottle(3)

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
		start   = make(chan struct{})
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if th.Allow(42) {
				allowed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	// All goroutines must share one limiter for the chat
	if got := allowed.Load(); got != 3 {
		t.Errorf("allowed = %d, want 3", got)
	}
}
