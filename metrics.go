// metrics.go - Prometheus view of the runtime counters

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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// registerMetrics exposes the runtime status as func-backed collectors, so
// neither the audio thread nor the render loop touches Prometheus directly.
func registerMetrics(reg prometheus.Registerer, status *runtimeStatusStore) {
	factory := promauto.With(reg)

	// Counters
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "flickertone_frames_presented_total",
		Help: "Flicker cycles that reached present",
	}, func() float64 { return float64(status.framesPresented.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "flickertone_frames_skipped_total",
		Help: "Flicker cycles skipped because no presentable image was available",
	}, func() float64 { return float64(status.framesSkipped.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "flickertone_audio_fills_total",
		Help: "Audio pull callbacks served by the tone generator",
	}, func() float64 { return float64(status.audioFills.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "flickertone_audio_frames_total",
		Help: "Sample frames synthesized by the tone generator",
	}, func() float64 { return float64(status.audioFrames.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "flickertone_stream_errors_total",
		Help: "Distinct asynchronous audio stream errors",
	}, func() float64 { return float64(status.streamErrors.Load()) })

	// Gauges
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "flickertone_tone_phase_samples",
		Help: "Current phase counter of the tone generator",
	}, func() float64 { return float64(status.snapshot().TonePhase) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "flickertone_terminating",
		Help: "1 once the lifecycle has entered Terminating",
	}, func() float64 {
		if status.snapshot().State == StateTerminating.String() {
			return 1
		}
		return 0
	})
}
