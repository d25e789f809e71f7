// audio_supervisor.go - Watches the audio stream for asynchronous errors and stalls

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
	"context"
	"time"

	"go.uber.org/zap"
)

// streamSupervisor runs off the audio thread. Errors surfaced by the backend
// are logged once per distinct message and counted; a started stream that
// stopped playing is restarted until the lifecycle leaves Running. Generator
// state is never touched.
type streamSupervisor struct {
	output     AudioOutput
	lifecycle  *Lifecycle
	logger     *zap.Logger
	status     *runtimeStatusStore
	interval   time.Duration
	lastErr    string
	restartErr string
}

func newStreamSupervisor(output AudioOutput, lifecycle *Lifecycle, logger *zap.Logger, status *runtimeStatusStore) *streamSupervisor {
	return &streamSupervisor{
		output:    output,
		lifecycle: lifecycle,
		logger:    logger.With(zap.String("component", "audio")),
		status:    status,
		interval:  STREAM_WATCH_INTERVAL,
	}
}

// Run returns when ctx is cancelled or the lifecycle starts terminating.
func (s *streamSupervisor) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.lifecycle.Done():
			return nil
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *streamSupervisor) check() {
	if err := s.output.Err(); err != nil {
		if msg := err.Error(); msg != s.lastErr {
			s.lastErr = msg
			s.status.recordStreamError()
			s.logger.Warn("an error occurred on the audio stream", zap.Error(err))
		}
	} else {
		s.lastErr = ""
	}

	if s.lifecycle.Terminating() || !s.output.IsStarted() || s.output.IsPlaying() {
		return
	}
	if s.restartErr == "" {
		s.logger.Warn("audio stream stalled, restarting playback")
	}
	if err := s.output.Start(); err != nil {
		// A device that stays gone fails every tick; report each cause once
		if msg := err.Error(); msg != s.restartErr {
			s.restartErr = msg
			s.logger.Warn("restarting audio stream failed", zap.Error(err))
		}
		return
	}
	s.restartErr = ""
}
