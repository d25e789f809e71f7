package main

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLifecycle_StartsRunning(t *testing.T) {
	lc := NewLifecycle()
	if lc.State() != StateRunning || lc.Terminating() {
		t.Fatalf("new lifecycle state = %v", lc.State())
	}
	select {
	case <-lc.Done():
		t.Fatal("Done closed before Terminate")
	default:
	}
}

func TestLifecycle_ConcurrentTerminateTransitionsOnce(t *testing.T) {
	lc := NewLifecycle()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Go(func() {
			if lc.Terminate() {
				wins.Add(1)
			}
		})
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("Terminate won %d times, want 1", wins.Load())
	}
	if lc.State() != StateTerminating {
		t.Fatalf("state = %v, want terminating", lc.State())
	}
	<-lc.Done()
}

func TestLifecycleState_String(t *testing.T) {
	if StateRunning.String() != "running" || StateTerminating.String() != "terminating" {
		t.Fatal("unexpected state names")
	}
	if LifecycleState(7).String() != "unknown" {
		t.Fatal("unexpected name for unknown state")
	}
}
