// main.go - FlickerTone entry point

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
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func boilerPlate() {
	title := "FlickerTone - synchronized flicker and tone stimulus"
	if term.IsTerminal(int(os.Stdout.Fd())) {
		title = "\033[38;2;255;20;147m" + title + "\033[0m"
	}
	fmt.Println(title)
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/intuitionamiga/FlickerTone")
	fmt.Println("License: GPLv3 or later")
	fmt.Println()
}

func main() {
	boilerPlate()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	status := newRuntimeStatusStore()
	registerMetrics(prometheus.DefaultRegisterer, status)

	// Initialize sound first; without a device there is no stimulus
	tone, err := NewToneGenerator(cfg.Waveform())
	if err != nil {
		logger.Fatal("failed to initialize tone generator", zap.Error(err))
	}
	status.setTone(tone)

	backend, err := parseAudioBackend(cfg.AudioBackend)
	if err != nil {
		logger.Fatal("failed to select audio backend", zap.Error(err))
	}
	audio, err := NewAudioOutput(backend, tone, cfg.SampleRate, cfg.AudioBuffer, status)
	if err != nil {
		logger.Fatal("failed to initialize sound", zap.Error(err))
	}

	video, err := NewVideoOutput(VIDEO_BACKEND_EBITEN, cfg, logger, status)
	if err != nil {
		logger.Fatal("failed to initialize video", zap.Error(err))
	}

	lifecycle := NewLifecycle()
	status.setLifecycle(lifecycle)
	flicker := NewFlickerDriver(COLOR_A, COLOR_B, status)
	loop := NewControlLoop(lifecycle, flicker, video.Surface(), logger, audio.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return newStreamSupervisor(audio, lifecycle, logger, status).Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		srv := newStatusServer(cfg.MetricsAddr, newStatusRouter(prometheus.DefaultGatherer, status), logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if err := audio.Start(); err != nil {
		logger.Fatal("failed to start audio stream", zap.Error(err))
	}
	logger.Info("stimulus running",
		zap.Float64("frequency_hz", TONE_FREQUENCY),
		zap.Int("sample_rate", cfg.SampleRate),
		zap.Int("channels", cfg.Channels),
		zap.Uint64("period_samples", tone.PeriodSamples()),
		zap.String("audio_backend", cfg.AudioBackend))

	// Blocks on the main goroutine until close or key press
	runErr := video.Run(loop)

	lifecycle.Terminate()
	audio.Stop()
	cancel()

	shutdownErr := multierr.Combine(g.Wait(), audio.Close(), video.Close())
	snap := status.snapshot()
	logger.Info("stimulus stopped",
		zap.Uint64("frames_presented", snap.FramesPresented),
		zap.Uint64("frames_skipped", snap.FramesSkipped),
		zap.Uint64("audio_frames", snap.AudioFrames),
		zap.Uint64("stream_errors", snap.StreamErrors),
		zap.Float64("uptime_seconds", snap.UptimeSeconds))

	if runErr != nil {
		logger.Fatal("video output failed", zap.Error(multierr.Append(runErr, shutdownErr)))
	}
	if shutdownErr != nil {
		logger.Warn("releasing resources", zap.Error(shutdownErr))
	}
}
