// runtime_status.go - Lock-free runtime counters shared by overlay, metrics and status endpoint

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
	"sync"
	"sync/atomic"
	"time"
)

type runtimeStatusSnapshot struct {
	State           string  `json:"state"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	FramesPresented uint64  `json:"frames_presented"`
	FramesSkipped   uint64  `json:"frames_skipped"`
	AudioFills      uint64  `json:"audio_fills"`
	AudioFrames     uint64  `json:"audio_frames"`
	StreamErrors    uint64  `json:"stream_errors"`
	TonePhase       uint64  `json:"tone_phase"`
	TonePeriod      uint64  `json:"tone_period"`
	ToneFrequency   float64 `json:"tone_frequency_hz"`
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
}

// runtimeStatusStore is written from both the render loop and the audio
// thread; every counter is a plain atomic so neither side ever blocks.
type runtimeStatusStore struct {
	framesPresented atomic.Uint64
	framesSkipped   atomic.Uint64
	audioFills      atomic.Uint64
	audioFrames     atomic.Uint64
	streamErrors    atomic.Uint64

	mu        sync.RWMutex
	tone      *ToneGenerator
	lifecycle *Lifecycle
	startedAt time.Time
}

func newRuntimeStatusStore() *runtimeStatusStore {
	return &runtimeStatusStore{startedAt: time.Now()}
}

func (s *runtimeStatusStore) setTone(tone *ToneGenerator) {
	s.mu.Lock()
	s.tone = tone
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setLifecycle(lc *Lifecycle) {
	s.mu.Lock()
	s.lifecycle = lc
	s.mu.Unlock()
}

func (s *runtimeStatusStore) recordFill(frames int) {
	s.audioFills.Add(1)
	s.audioFrames.Add(uint64(frames))
}

func (s *runtimeStatusStore) recordPresented() {
	s.framesPresented.Add(1)
}

func (s *runtimeStatusStore) recordSkipped() {
	s.framesSkipped.Add(1)
}

func (s *runtimeStatusStore) recordStreamError() {
	s.streamErrors.Add(1)
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	snap := runtimeStatusSnapshot{
		State:           StateRunning.String(),
		UptimeSeconds:   time.Since(s.startedAt).Seconds(),
		FramesPresented: s.framesPresented.Load(),
		FramesSkipped:   s.framesSkipped.Load(),
		AudioFills:      s.audioFills.Load(),
		AudioFrames:     s.audioFrames.Load(),
		StreamErrors:    s.streamErrors.Load(),
	}

	s.mu.RLock()
	tone, lc := s.tone, s.lifecycle
	s.mu.RUnlock()

	if tone != nil {
		cfg := tone.Config()
		snap.TonePhase = tone.Phase()
		snap.TonePeriod = tone.PeriodSamples()
		snap.ToneFrequency = cfg.Frequency
		snap.SampleRate = cfg.SampleRate
		snap.Channels = cfg.ChannelCount
	}
	if lc != nil {
		snap.State = lc.State().String()
	}
	return snap
}
