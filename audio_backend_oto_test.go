//go:build !headless

package main

import (
	"errors"
	"io"
	"testing"
)

type fakeOtoStream struct {
	src        io.Reader
	playing    bool
	err        error
	bufferSize int
	plays      int
}

func (s *fakeOtoStream) Play() {
	if s.err == nil {
		s.playing = true
		s.plays++
	}
}

func (s *fakeOtoStream) Pause()                 { s.playing = false }
func (s *fakeOtoStream) IsPlaying() bool        { return s.playing }
func (s *fakeOtoStream) SetBufferSize(size int) { s.bufferSize = size }
func (s *fakeOtoStream) Err() error             { return s.err }

// fail puts the stream into oto's terminal error state.
func (s *fakeOtoStream) fail(err error) {
	s.err = err
	s.playing = false
}

type fakeOtoDevice struct {
	streams   []*fakeOtoStream
	err       error
	suspended int
}

func (d *fakeOtoDevice) Err() error { return d.err }

func (d *fakeOtoDevice) Suspend() error {
	d.suspended++
	return nil
}

func (d *fakeOtoDevice) newStream(src io.Reader) otoStream {
	s := &fakeOtoStream{src: src}
	d.streams = append(d.streams, s)
	return s
}

func TestOtoPlayer_PullSizeMatchesReaderBuffer(t *testing.T) {
	dev := &fakeOtoDevice{}
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	frames := framesFor(48000, DEFAULT_AUDIO_BUFFER)
	op := newOtoPlayer(dev, tg, frames, nil)

	want := frames * 2 * SAMPLE_BYTES
	if got := dev.streams[0].bufferSize; got != want {
		t.Fatalf("player buffer size = %d bytes, want %d", got, want)
	}

	p := make([]byte, dev.streams[0].bufferSize)
	allocs := testing.AllocsPerRun(20, func() {
		op.reader.Read(p)
	})
	if allocs != 0 {
		t.Fatalf("Read of one configured pull allocated %.1f times, want 0", allocs)
	}
}

func TestOtoPlayer_StartReplacesErroredPlayer(t *testing.T) {
	dev := &fakeOtoDevice{}
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	op := newOtoPlayer(dev, tg, 256, nil)
	if err := op.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	op.reader.Read(make([]byte, 100*2*SAMPLE_BYTES))
	phase := tg.Phase()

	dev.streams[0].fail(errors.New("device lost"))
	if op.IsPlaying() {
		t.Fatal("errored player still reported as playing")
	}
	if op.Err() == nil {
		t.Fatal("player error not surfaced")
	}

	if err := op.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if len(dev.streams) != 2 {
		t.Fatalf("opened %d players, want 2", len(dev.streams))
	}
	fresh := dev.streams[1]
	if !fresh.playing || !op.IsPlaying() || op.Err() != nil {
		t.Fatal("replacement player is not playing cleanly")
	}
	if fresh.src != io.Reader(op.reader) || fresh.bufferSize != dev.streams[0].bufferSize {
		t.Fatal("replacement player not bound to the same reader and pull size")
	}
	if tg.Phase() != phase {
		t.Fatalf("restart moved phase %d -> %d", phase, tg.Phase())
	}
}

func TestOtoPlayer_StopPausesAndRefusesRestart(t *testing.T) {
	dev := &fakeOtoDevice{}
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	op := newOtoPlayer(dev, tg, 256, nil)
	op.Start()

	op.Stop()
	if dev.streams[0].playing || op.IsStarted() {
		t.Fatal("Stop left the player running")
	}
	if err := op.Start(); err == nil {
		t.Fatal("Start after Stop should fail")
	}
	if err := op.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := op.Close(); err != nil || dev.suspended != 1 {
		t.Fatalf("second Close = %v, suspended %d times", err, dev.suspended)
	}
}

func TestStreamSupervisor_RestartsErroredOtoPlayerOnce(t *testing.T) {
	dev := &fakeOtoDevice{}
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	op := newOtoPlayer(dev, tg, 256, nil)
	op.Start()
	s, status, logs := newObservedSupervisor(op)

	dev.streams[0].fail(errors.New("device lost"))
	s.check()
	s.check()
	s.check()

	if len(dev.streams) != 2 || !op.IsPlaying() {
		t.Fatalf("players opened = %d, playing = %v; want 2 and true", len(dev.streams), op.IsPlaying())
	}
	if n := logs.FilterMessage("audio stream stalled, restarting playback").Len(); n != 1 {
		t.Fatalf("restart logged %d times, want 1", n)
	}
	if got := status.snapshot().StreamErrors; got != 1 {
		t.Fatalf("StreamErrors = %d, want 1", got)
	}
}
