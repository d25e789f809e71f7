package main

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func newTestLoop(surface PresentationSurface, onTerminate func()) (*ControlLoop, *Lifecycle, *FlickerDriver) {
	lc := NewLifecycle()
	fd := NewFlickerDriver(COLOR_A, COLOR_B, nil)
	return NewControlLoop(lc, fd, surface, zap.NewNop(), onTerminate), lc, fd
}

func TestControlLoop_CloseRequestedTerminatesOnce(t *testing.T) {
	surface := newFakeSurface()
	calls := 0
	loop, lc, _ := newTestLoop(surface, func() { calls++ })

	if err := loop.Dispatch(Event{Kind: EventRedrawRequested}); err != nil {
		t.Fatalf("redraw while running: %v", err)
	}
	if err := loop.Dispatch(Event{Kind: EventCloseRequested}); !errors.Is(err, ErrTerminated) {
		t.Fatalf("close: expected ErrTerminated, got %v", err)
	}
	if lc.State() != StateTerminating {
		t.Fatalf("state = %v, want terminating", lc.State())
	}

	// Nothing after the transition changes state
	for _, ev := range []Event{
		{Kind: EventKeyPressed, Key: "A"},
		{Kind: EventCloseRequested},
		{Kind: EventRedrawRequested},
		{Kind: EventResize, Width: 10, Height: 10},
	} {
		if err := loop.Dispatch(ev); !errors.Is(err, ErrTerminated) {
			t.Fatalf("%v after termination: expected ErrTerminated, got %v", ev.Kind, err)
		}
	}
	if calls != 1 {
		t.Fatalf("onTerminate called %d times, want 1", calls)
	}
	if surface.acquires != 1 {
		t.Fatalf("surface acquired %d times, want 1", surface.acquires)
	}
	if surface.width != 640 {
		t.Fatalf("resize after termination reconfigured the surface to %dx%d", surface.width, surface.height)
	}
}

func TestControlLoop_AnyKeyTerminates(t *testing.T) {
	for _, key := range []string{"Space", "Escape", "A", "F1"} {
		loop, lc, _ := newTestLoop(newFakeSurface(), nil)
		if err := loop.Dispatch(Event{Kind: EventKeyPressed, Key: key}); !errors.Is(err, ErrTerminated) {
			t.Fatalf("key %s: expected ErrTerminated, got %v", key, err)
		}
		if !lc.Terminating() || !loop.Terminated() {
			t.Fatalf("key %s did not terminate", key)
		}
		select {
		case <-lc.Done():
		default:
			t.Fatalf("key %s: Done not closed", key)
		}
	}
}

func TestControlLoop_ResizeConfiguresSurface(t *testing.T) {
	surface := newFakeSurface()
	loop, _, _ := newTestLoop(surface, nil)

	if err := loop.Dispatch(Event{Kind: EventResize, Width: 2560, Height: 1440}); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if surface.width != 2560 || surface.height != 1440 {
		t.Fatalf("surface = %dx%d, want 2560x1440", surface.width, surface.height)
	}

	surface.configureErr = errors.New("test: configure failed")
	if err := loop.Dispatch(Event{Kind: EventResize, Width: 1, Height: 1}); err != nil {
		t.Fatalf("failed resize must not stop the loop: %v", err)
	}
}

func TestControlLoop_AcquireFailureIsNotFatal(t *testing.T) {
	surface := newFakeSurface()
	surface.failOn[0] = ErrSurfaceTimeout
	loop, lc, fd := newTestLoop(surface, nil)

	if err := loop.Dispatch(Event{Kind: EventRedrawRequested}); err != nil {
		t.Fatalf("failed redraw returned %v", err)
	}
	if lc.Terminating() {
		t.Fatal("acquire failure terminated the loop")
	}
	if fd.NextColor() != COLOR_A {
		t.Fatal("flag not flipped after failed cycle")
	}
	if err := loop.Dispatch(Event{Kind: EventRedrawRequested}); err != nil {
		t.Fatalf("redraw after failure: %v", err)
	}
	if len(surface.cleared) != 1 || surface.cleared[0] != COLOR_A {
		t.Fatalf("cleared = %v, want [COLOR_A]", surface.cleared)
	}
}

func TestControlLoop_EachRedrawIsOneCycle(t *testing.T) {
	surface := newFakeSurface()
	loop, _, _ := newTestLoop(surface, nil)
	for range 10 {
		loop.Dispatch(Event{Kind: EventRedrawRequested})
	}
	if surface.acquires != 10 || len(surface.cleared) != 10 {
		t.Fatalf("acquires=%d presented=%d, want 10 each", surface.acquires, len(surface.cleared))
	}
}

func TestEventKind_String(t *testing.T) {
	tests := map[EventKind]string{
		EventResize:          "resize",
		EventCloseRequested:  "close-requested",
		EventKeyPressed:      "key-pressed",
		EventRedrawRequested: "redraw-requested",
		EventKind(42):        "event(42)",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("EventKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
