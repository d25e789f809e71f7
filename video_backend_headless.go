//go:build headless

// video_backend_headless.go - Scripted host and recording surface for headless builds

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
	"errors"
	"image/color"
	"time"

	"go.uber.org/zap"
)

// HeadlessVideoOutput stands in for the window: it reports one resize, issues
// a fixed number of redraws at the refresh rate and then requests close.
type HeadlessVideoOutput struct {
	surface     *recordingSurface
	frames      int
	refreshRate int
	logger      *zap.Logger
}

// recordingSurface remembers every color it was cleared to.
type recordingSurface struct {
	width      int
	height     int
	cleared    []color.RGBA
	failures   int // next N acquisitions fail
	configured int
}

type recordingImage struct {
	surface *recordingSurface
	color   color.RGBA
}

func NewEbitenOutput(cfg Config, logger *zap.Logger, status *runtimeStatusStore) (VideoOutput, error) {
	return &HeadlessVideoOutput{
		surface:     &recordingSurface{},
		frames:      cfg.HeadlessFrames,
		refreshRate: 60,
		logger:      logger.With(zap.String("component", "video")),
	}, nil
}

func (h *HeadlessVideoOutput) Surface() PresentationSurface {
	return h.surface
}

func (h *HeadlessVideoOutput) Run(loop *ControlLoop) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.refreshRate))
	defer ticker.Stop()

	if err := h.emit(loop, Event{Kind: EventResize, Width: 1920, Height: 1080}); err != nil {
		return nil
	}
	for range h.frames {
		<-ticker.C
		if err := h.emit(loop, Event{Kind: EventRedrawRequested}); err != nil {
			return nil
		}
	}
	h.emit(loop, Event{Kind: EventCloseRequested})
	return nil
}

func (h *HeadlessVideoOutput) emit(loop *ControlLoop, ev Event) error {
	err := loop.Dispatch(ev)
	if err != nil && !errors.Is(err, ErrTerminated) {
		h.logger.Warn("dispatch failed", zap.Stringer("event", ev.Kind), zap.Error(err))
	}
	return err
}

func (h *HeadlessVideoOutput) Close() error {
	return nil
}

func (s *recordingSurface) Configure(width, height int) error {
	s.width, s.height = width, height
	s.configured++
	return nil
}

func (s *recordingSurface) AcquireNextImage() (PresentableImage, error) {
	if s.failures > 0 {
		s.failures--
		return nil, ErrSurfaceTimeout
	}
	if s.width == 0 || s.height == 0 {
		return nil, ErrSurfaceLost
	}
	return &recordingImage{surface: s}, nil
}

func (img *recordingImage) Clear(c color.RGBA) {
	img.color = c
}

func (img *recordingImage) Submit() {}

func (img *recordingImage) Present() error {
	img.surface.cleared = append(img.surface.cleared, img.color)
	return nil
}
