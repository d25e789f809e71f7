package main

import (
	"errors"
	"image/color"
	"sync"
	"testing"
)

// fakeSurface records cleared colors and fails the acquisitions listed in
// failOn (0-based acquisition index).
type fakeSurface struct {
	acquires     int
	failOn       map[int]error
	presentErr   error
	cleared      []color.RGBA
	submitted    int
	width        int
	height       int
	configureErr error
}

type fakeImage struct {
	surface *fakeSurface
	color   color.RGBA
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{failOn: map[int]error{}, width: 640, height: 480}
}

func (s *fakeSurface) Configure(width, height int) error {
	if s.configureErr != nil {
		return s.configureErr
	}
	s.width, s.height = width, height
	return nil
}

func (s *fakeSurface) AcquireNextImage() (PresentableImage, error) {
	idx := s.acquires
	s.acquires++
	if err, ok := s.failOn[idx]; ok {
		return nil, err
	}
	return &fakeImage{surface: s}, nil
}

func (img *fakeImage) Clear(c color.RGBA) {
	img.color = c
}

func (img *fakeImage) Submit() {
	img.surface.submitted++
}

func (img *fakeImage) Present() error {
	if img.surface.presentErr != nil {
		return img.surface.presentErr
	}
	img.surface.cleared = append(img.surface.cleared, img.color)
	return nil
}

// fakeAudioOutput is a scriptable AudioOutput.
type fakeAudioOutput struct {
	mu       sync.Mutex
	started  bool
	playing  bool
	err      error
	startErr error
	starts   int
	stops    int
}

func (f *fakeAudioOutput) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	f.playing = true
	return nil
}

func (f *fakeAudioOutput) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.started = false
	f.playing = false
}

func (f *fakeAudioOutput) Close() error { return nil }

func (f *fakeAudioOutput) IsStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *fakeAudioOutput) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeAudioOutput) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeAudioOutput) set(fn func(f *fakeAudioOutput)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

var errTestAcquire = errors.New("test: acquire failed")

func mustToneGenerator(t *testing.T, sampleRate, channels int, frequency float64) *ToneGenerator {
	t.Helper()
	tg, err := NewToneGenerator(WaveformConfig{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Frequency:    frequency,
	})
	if err != nil {
		t.Fatalf("NewToneGenerator: %v", err)
	}
	return tg
}
