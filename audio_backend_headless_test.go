//go:build headless

package main

import (
	"testing"
	"time"
)

func TestHeadlessOtoPlayer_PullsUntilStopped(t *testing.T) {
	status := newRuntimeStatusStore()
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	out, err := NewAudioOutput(AUDIO_BACKEND_OTO, tg, 48000, 2*time.Millisecond, status)
	if err != nil {
		t.Fatalf("NewAudioOutput: %v", err)
	}
	if err := out.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !out.IsStarted() || !out.IsPlaying() {
		t.Fatal("output not playing after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for status.snapshot().AudioFills < 3 {
		if time.Now().After(deadline) {
			t.Fatal("headless output never pulled from the generator")
		}
		time.Sleep(time.Millisecond)
	}

	out.Stop()
	phase := tg.Phase()
	fills := status.snapshot().AudioFills
	time.Sleep(10 * time.Millisecond)
	if tg.Phase() != phase || status.snapshot().AudioFills != fills {
		t.Fatal("generator still pulled after Stop")
	}
	if err := out.Start(); err == nil {
		t.Fatal("Start after Stop should fail")
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestHeadlessOtoPlayer_SupervisorRestartsStalledPump(t *testing.T) {
	status := newRuntimeStatusStore()
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	out, err := NewOtoPlayer(tg, 48000, time.Millisecond, status)
	if err != nil {
		t.Fatalf("NewOtoPlayer: %v", err)
	}
	defer out.Close()
	if err := out.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForFills(t, status, 2)

	out.stall()
	if out.IsPlaying() || !out.IsStarted() {
		t.Fatalf("after stall playing=%v started=%v, want false and true", out.IsPlaying(), out.IsStarted())
	}
	fills := status.snapshot().AudioFills

	s, _, logs := newObservedSupervisor(out)
	s.check()
	if !out.IsPlaying() {
		t.Fatal("supervisor did not restart the stalled pump")
	}
	if logs.FilterMessage("audio stream stalled, restarting playback").Len() != 1 {
		t.Fatal("stall was not logged")
	}

	waitForFills(t, status, fills+2)
}

func waitForFills(t *testing.T, status *runtimeStatusStore, n uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for status.snapshot().AudioFills < n {
		if time.Now().After(deadline) {
			t.Fatalf("audio fills stuck at %d, want %d", status.snapshot().AudioFills, n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestALSAStub_ReportsNotCompiledIn(t *testing.T) {
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	if _, err := NewAudioOutput(AUDIO_BACKEND_ALSA, tg, 48000, DEFAULT_AUDIO_BUFFER, nil); err == nil {
		t.Fatal("expected error from ALSA stub in headless builds")
	}
}
