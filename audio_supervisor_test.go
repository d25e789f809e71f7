package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedSupervisor(out AudioOutput) (*streamSupervisor, *runtimeStatusStore, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	status := newRuntimeStatusStore()
	return newStreamSupervisor(out, NewLifecycle(), zap.New(core), status), status, logs
}

func TestStreamSupervisor_LogsEachDistinctErrorOnce(t *testing.T) {
	out := &fakeAudioOutput{}
	out.Start()
	s, status, logs := newObservedSupervisor(out)

	out.set(func(f *fakeAudioOutput) { f.err = errors.New("device unplugged") })
	s.check()
	s.check()
	s.check()
	if got := status.snapshot().StreamErrors; got != 1 {
		t.Fatalf("StreamErrors = %d, want 1", got)
	}

	out.set(func(f *fakeAudioOutput) { f.err = errors.New("buffer underrun") })
	s.check()
	if got := status.snapshot().StreamErrors; got != 2 {
		t.Fatalf("StreamErrors = %d, want 2", got)
	}
	if n := logs.FilterMessage("an error occurred on the audio stream").Len(); n != 2 {
		t.Fatalf("logged %d stream errors, want 2", n)
	}
}

func TestStreamSupervisor_RestartsStalledStream(t *testing.T) {
	out := &fakeAudioOutput{}
	out.Start()
	s, _, logs := newObservedSupervisor(out)

	out.set(func(f *fakeAudioOutput) { f.playing = false })
	s.check()

	if !out.IsPlaying() {
		t.Fatal("stalled stream was not restarted")
	}
	if out.starts != 2 {
		t.Fatalf("Start called %d times, want 2", out.starts)
	}
	if logs.FilterMessage("audio stream stalled, restarting playback").Len() != 1 {
		t.Fatal("stall was not logged")
	}
}

func TestStreamSupervisor_LeavesStoppedStreamAlone(t *testing.T) {
	out := &fakeAudioOutput{}
	out.Start()
	out.Stop()
	s, _, _ := newObservedSupervisor(out)

	s.check()
	if out.IsPlaying() || out.starts != 1 {
		t.Fatal("supervisor restarted a deliberately stopped stream")
	}
}

func TestStreamSupervisor_RunStopsOnCancel(t *testing.T) {
	out := &fakeAudioOutput{}
	out.Start()
	s, _, _ := newObservedSupervisor(out)
	s.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStreamSupervisor_DoesNotRestartOnceTerminating(t *testing.T) {
	out := &fakeAudioOutput{}
	out.Start()
	s, _, _ := newObservedSupervisor(out)

	s.lifecycle.Terminate()
	out.set(func(f *fakeAudioOutput) { f.playing = false })
	s.check()
	if out.IsPlaying() || out.starts != 1 {
		t.Fatal("supervisor restarted the stream after termination")
	}
}

func TestStreamSupervisor_RunStopsOnTermination(t *testing.T) {
	out := &fakeAudioOutput{}
	out.Start()
	s, _, _ := newObservedSupervisor(out)
	s.interval = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	s.lifecycle.Terminate()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Terminate")
	}
}

func TestStreamSupervisor_ReportsRepeatedRestartFailureOnce(t *testing.T) {
	out := &fakeAudioOutput{startErr: errors.New("no such device")}
	out.set(func(f *fakeAudioOutput) { f.started = true })
	s, _, logs := newObservedSupervisor(out)

	for range 5 {
		s.check()
	}
	if out.starts != 5 {
		t.Fatalf("Start attempted %d times, want 5", out.starts)
	}
	if n := logs.FilterMessage("restarting audio stream failed").Len(); n != 1 {
		t.Fatalf("restart failure logged %d times, want 1", n)
	}
	if n := logs.FilterMessage("audio stream stalled, restarting playback").Len(); n != 1 {
		t.Fatalf("stall logged %d times, want 1", n)
	}

	out.set(func(f *fakeAudioOutput) { f.startErr = nil })
	s.check()
	if !out.IsPlaying() {
		t.Fatal("stream not restarted once the device came back")
	}
}
