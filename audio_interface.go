// audio_interface.go - Audio output abstraction and the shared pull reader

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/FlickerTone
License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// AudioError provides detailed error context for audio operations
type AudioError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *AudioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Operation, e.Details)
}

func (e *AudioError) Unwrap() error {
	return e.Err
}

// AudioOutput is a started-once, stopped-at-shutdown output stream that pulls
// its samples from a SampleSource on its own thread.
type AudioOutput interface {
	// Start begins playback, or resumes it if the stream stalled.
	Start() error
	// Stop detaches the source and pauses the stream. The source is never
	// pulled again after Stop returns.
	Stop()
	Close() error

	IsStarted() bool
	IsPlaying() bool

	// Err reports the most recent asynchronous stream error, if any.
	Err() error
}

// Predefined audio backend types
const (
	AUDIO_BACKEND_OTO  = iota // ebitengine/oto v3
	AUDIO_BACKEND_ALSA        // ALSA via cgo, requires -tags alsa
)

func parseAudioBackend(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "oto", "":
		return AUDIO_BACKEND_OTO, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	}
	return 0, fmt.Errorf("unknown audio backend %q", name)
}

// NewAudioOutput creates an output for the given backend bound to the
// platform default device.
func NewAudioOutput(backend int, source SampleSource, sampleRate int, bufferSize time.Duration, status *runtimeStatusStore) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(source, sampleRate, bufferSize, status)
		if err != nil {
			return nil, err
		}
		return player, nil
	case AUDIO_BACKEND_ALSA:
		player, err := NewALSAPlayer(source, sampleRate, bufferSize, status)
		if err != nil {
			return nil, err
		}
		return player, nil
	}
	return nil, &AudioError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}

// sourceSlot lets the reader swap its source atomically.
type sourceSlot struct {
	SampleSource
}

// sampleReader adapts a SampleSource to the byte-oriented pull model used by
// oto (float32 little endian, interleaved). The source pointer is atomic so the
// hot path takes no lock; once detached the reader produces silence.
type sampleReader struct {
	slot      atomic.Pointer[sourceSlot]
	filling   atomic.Bool // Set while fillFrames runs; fills are serialized by the backend
	channels  int
	sampleBuf []float32 // Pre-allocated for the backend's pull size
	status    *runtimeStatusStore
}

func newSampleReader(source SampleSource, maxFrames int, status *runtimeStatusStore) *sampleReader {
	r := &sampleReader{
		channels:  source.Channels(),
		sampleBuf: make([]float32, maxFrames*source.Channels()),
		status:    status,
	}
	r.slot.Store(&sourceSlot{source})
	return r
}

// detach cuts the reader off from its source. A fill already in progress is
// waited for, so the source is not touched once detach returns.
func (r *sampleReader) detach() {
	r.slot.Store(nil)
	for r.filling.Load() {
		runtime.Gosched()
	}
}

func (r *sampleReader) attached() bool {
	return r.slot.Load() != nil
}

// fillFrames fills whole frames of buf from the source, or with silence when
// detached.
func (r *sampleReader) fillFrames(buf []float32) int {
	r.filling.Store(true)
	defer r.filling.Store(false)

	slot := r.slot.Load()
	if slot == nil {
		frames := len(buf) / r.channels
		clear(buf[:frames*r.channels])
		return frames
	}
	frames := slot.Fill(buf)
	if r.status != nil {
		r.status.recordFill(frames)
	}
	return frames
}

// Read only ever returns whole frames; a trailing partial frame of p is left
// for the next call.
func (r *sampleReader) Read(p []byte) (int, error) {
	frameBytes := SAMPLE_BYTES * r.channels
	n := len(p) / frameBytes * frameBytes
	if n == 0 {
		return 0, nil
	}

	numSamples := n / SAMPLE_BYTES
	// Only grows if the backend asks for more than it was configured with
	if len(r.sampleBuf) < numSamples {
		r.sampleBuf = make([]float32, numSamples)
	}
	samples := r.sampleBuf[:numSamples]
	r.fillFrames(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*SAMPLE_BYTES:], math.Float32bits(s))
	}
	return n, nil
}

// pullBytes is the size in bytes of a pull of the given number of frames.
func pullBytes(frames, channels int) int {
	return frames * channels * SAMPLE_BYTES
}

// framesFor converts a buffer duration into a frame count, at least one frame.
func framesFor(sampleRate int, d time.Duration) int {
	frames := int(int64(sampleRate) * int64(d) / int64(time.Second))
	return max(frames, 1)
}
