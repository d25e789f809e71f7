// config.go - Operational settings from the environment

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
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config holds operational settings only. Tone frequency and the two colors
// are build-time constants and are deliberately absent.
type Config struct {
	AudioBackend   string
	SampleRate     int
	Channels       int
	AudioBuffer    time.Duration
	LogLevel       string
	LogDev         bool
	StatusOverlay  bool
	MetricsAddr    string
	HeadlessFrames int
}

// LoadConfig reads FLICKER_* environment variables. There are no config
// files and no command-line flags.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FLICKER")
	v.AutomaticEnv()

	v.SetDefault("audio_backend", DEFAULT_AUDIO_BACKEND)
	v.SetDefault("sample_rate", DEFAULT_SAMPLE_RATE)
	v.SetDefault("channels", DEFAULT_CHANNEL_COUNT)
	v.SetDefault("audio_buffer", DEFAULT_AUDIO_BUFFER)
	v.SetDefault("log_level", DEFAULT_LOG_LEVEL)
	v.SetDefault("log_dev", false)
	v.SetDefault("status_overlay", false)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("headless_frames", DEFAULT_HEADLESS_FRAMES)

	cfg := Config{
		AudioBackend:   v.GetString("audio_backend"),
		SampleRate:     v.GetInt("sample_rate"),
		Channels:       v.GetInt("channels"),
		AudioBuffer:    v.GetDuration("audio_buffer"),
		LogLevel:       v.GetString("log_level"),
		LogDev:         v.GetBool("log_dev"),
		StatusOverlay:  v.GetBool("status_overlay"),
		MetricsAddr:    v.GetString("metrics_addr"),
		HeadlessFrames: v.GetInt("headless_frames"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := parseAudioBackend(c.AudioBackend); err != nil {
		return err
	}
	if err := c.Waveform().Validate(); err != nil {
		return err
	}
	if c.AudioBuffer <= 0 {
		return fmt.Errorf("audio buffer must be positive, got %v", c.AudioBuffer)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.HeadlessFrames < 0 {
		return fmt.Errorf("headless frames must not be negative, got %d", c.HeadlessFrames)
	}
	return nil
}

// Waveform combines the device settings with the build-time tone frequency.
func (c Config) Waveform() WaveformConfig {
	return WaveformConfig{
		SampleRate:   c.SampleRate,
		ChannelCount: c.Channels,
		Frequency:    TONE_FREQUENCY,
	}
}
