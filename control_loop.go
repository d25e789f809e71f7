// control_loop.go - Host event dispatch for the render context

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
	"fmt"

	"go.uber.org/zap"
)

type EventKind int

const (
	EventResize EventKind = iota
	EventCloseRequested
	EventKeyPressed
	EventRedrawRequested
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventCloseRequested:
		return "close-requested"
	case EventKeyPressed:
		return "key-pressed"
	case EventRedrawRequested:
		return "redraw-requested"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one host notification. Width and Height are set for EventResize,
// Key for EventKeyPressed.
type Event struct {
	Kind   EventKind
	Width  int
	Height int
	Key    string
}

// ErrTerminated is returned by Dispatch once the lifecycle is Terminating;
// hosts stop delivering events when they see it.
var ErrTerminated = errors.New("control loop terminated")

// ControlLoop is driven from the single render goroutine. It never blocks on
// audio; onTerminate runs synchronously on the transition so audio stops
// mutating before the host tears the window down.
type ControlLoop struct {
	lifecycle   *Lifecycle
	flicker     *FlickerDriver
	surface     PresentationSurface
	logger      *zap.Logger
	onTerminate func()
}

func NewControlLoop(lifecycle *Lifecycle, flicker *FlickerDriver, surface PresentationSurface, logger *zap.Logger, onTerminate func()) *ControlLoop {
	return &ControlLoop{
		lifecycle:   lifecycle,
		flicker:     flicker,
		surface:     surface,
		logger:      logger.With(zap.String("component", "video")),
		onTerminate: onTerminate,
	}
}

func (cl *ControlLoop) Dispatch(ev Event) error {
	if cl.lifecycle.Terminating() {
		return ErrTerminated
	}

	switch ev.Kind {
	case EventCloseRequested, EventKeyPressed:
		cl.terminate(ev)
		return ErrTerminated

	case EventResize:
		if err := cl.surface.Configure(ev.Width, ev.Height); err != nil {
			cl.logger.Warn("surface reconfiguration failed",
				zap.Int("width", ev.Width), zap.Int("height", ev.Height), zap.Error(err))
		}

	case EventRedrawRequested:
		if err := cl.flicker.Redraw(cl.surface); err != nil {
			cl.logger.Warn("flicker cycle skipped", zap.Error(err))
		}

	default:
		cl.logger.Debug("ignoring event", zap.Stringer("event", ev.Kind))
	}
	return nil
}

func (cl *ControlLoop) Terminated() bool {
	return cl.lifecycle.Terminating()
}

func (cl *ControlLoop) terminate(ev Event) {
	if !cl.lifecycle.Terminate() {
		return
	}
	fields := []zap.Field{zap.Stringer("trigger", ev.Kind)}
	if ev.Key != "" {
		fields = append(fields, zap.String("key", ev.Key))
	}
	cl.logger.Info("terminating", fields...)
	if cl.onTerminate != nil {
		cl.onTerminate()
	}
}
