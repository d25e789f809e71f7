// tone_generator.go - Continuous-phase sine synthesis for the audio pull callback

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
	"fmt"
	"math"
	"sync/atomic"
)

// WaveformConfig is read-only once the generator has been built.
type WaveformConfig struct {
	SampleRate   int
	ChannelCount int
	Frequency    float64
}

// PeriodSamples is the number of frames in one cycle of the tone, rounded to
// the nearest whole frame.
func (wc WaveformConfig) PeriodSamples() uint64 {
	return uint64(math.Round(float64(wc.SampleRate) / wc.Frequency))
}

func (wc WaveformConfig) Validate() error {
	if wc.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", wc.SampleRate)
	}
	if wc.ChannelCount <= 0 || wc.ChannelCount > MAX_CHANNEL_COUNT {
		return fmt.Errorf("channel count must be in 1..%d, got %d", MAX_CHANNEL_COUNT, wc.ChannelCount)
	}
	if wc.Frequency <= 0 || math.IsNaN(wc.Frequency) || math.IsInf(wc.Frequency, 0) {
		return fmt.Errorf("frequency must be positive and finite, got %v", wc.Frequency)
	}
	if wc.Frequency > float64(wc.SampleRate)/2 {
		return fmt.Errorf("frequency %.1f Hz is above Nyquist for %d Hz", wc.Frequency, wc.SampleRate)
	}
	return nil
}

// SampleSource is the pull side of an audio backend. Fill writes every whole
// frame that fits in buf (interleaved, len(buf)/channels frames) and returns
// the number of frames written.
type SampleSource interface {
	Fill(buf []float32) int
	Channels() int
}

// ToneGenerator synthesizes a mono sine duplicated across all channels.
// Fill is called from the audio backend's thread only; calls are serialized by
// the backend, so the phase counter has a single writer.
type ToneGenerator struct {
	config WaveformConfig
	period uint64
	step   float64 // radians per second: 2*pi*f

	phase atomic.Uint64 // frames since last wrap, always < period
}

func NewToneGenerator(config WaveformConfig) (*ToneGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, &AudioError{Operation: "tone setup", Details: "invalid waveform", Err: err}
	}
	return &ToneGenerator{
		config: config,
		period: config.PeriodSamples(),
		step:   2 * math.Pi * config.Frequency,
	}, nil
}

func (tg *ToneGenerator) Fill(buf []float32) int {
	channels := tg.config.ChannelCount
	frames := len(buf) / channels
	sampleRate := float64(tg.config.SampleRate)

	phase := tg.phase.Load()
	for i := 0; i < frames; i++ {
		t := float64(phase) / sampleRate
		value := float32(math.Sin(tg.step * t))

		frame := buf[i*channels : (i+1)*channels]
		for ch := range frame {
			frame[ch] = value
		}

		phase++
		if phase >= tg.period {
			phase = 0
		}
	}
	tg.phase.Store(phase)
	return frames
}

func (tg *ToneGenerator) Channels() int {
	return tg.config.ChannelCount
}

func (tg *ToneGenerator) Config() WaveformConfig {
	return tg.config
}

// Phase reports the current counter value in [0, PeriodSamples()).
func (tg *ToneGenerator) Phase() uint64 {
	return tg.phase.Load()
}

func (tg *ToneGenerator) PeriodSamples() uint64 {
	return tg.period
}
