//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

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
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoStream is the part of *oto.Player the output drives.
type otoStream interface {
	Play()
	Pause()
	IsPlaying() bool
	SetBufferSize(bufferSize int)
	Err() error
}

// otoDevice is the part of *oto.Context the output drives.
type otoDevice interface {
	Err() error
	Suspend() error
	newStream(src io.Reader) otoStream
}

type otoContext struct {
	*oto.Context
}

func (c otoContext) newStream(src io.Reader) otoStream {
	return c.NewPlayer(src)
}

type OtoPlayer struct {
	device      otoDevice
	player      otoStream
	reader      *sampleReader
	bufferBytes int
	started     bool
	closed      bool
	mutex       sync.Mutex // Only for setup/control operations, never held by Read
}

func NewOtoPlayer(source SampleSource, sampleRate int, bufferSize time.Duration, status *runtimeStatusStore) (*OtoPlayer, error) {
	channels := source.Channels()
	if channels != 1 && channels != 2 {
		return nil, &AudioError{
			Operation: "context creation",
			Details:   fmt.Sprintf("oto supports 1 or 2 channels, got %d", channels),
		}
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, &AudioError{Operation: "context creation", Details: "no usable output device", Err: err}
	}
	<-ready
	if err := ctx.Err(); err != nil {
		return nil, &AudioError{Operation: "context creation", Details: "output device failed to start", Err: err}
	}

	return newOtoPlayer(otoContext{ctx}, source, framesFor(sampleRate, bufferSize), status), nil
}

// newOtoPlayer binds a reader sized for frames per pull to device. The player
// is told the same pull size, otherwise oto asks for half a second at a time.
func newOtoPlayer(device otoDevice, source SampleSource, frames int, status *runtimeStatusStore) *OtoPlayer {
	op := &OtoPlayer{
		device:      device,
		reader:      newSampleReader(source, frames, status),
		bufferBytes: pullBytes(frames, source.Channels()),
	}
	op.player = op.openStream()
	return op
}

func (op *OtoPlayer) openStream() otoStream {
	player := op.device.newStream(op.reader)
	player.SetBufferSize(op.bufferBytes)
	return player
}

func (op *OtoPlayer) Start() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.closed {
		return &AudioError{Operation: "start", Details: "player already closed"}
	}
	if !op.reader.attached() {
		return &AudioError{Operation: "start", Details: "player was stopped"}
	}
	// An oto player that hit an error never plays again; swap in a fresh one
	// on the same reader so the phase carries over.
	if op.player.Err() != nil {
		op.player.Pause()
		op.player = op.openStream()
	}
	if !op.player.IsPlaying() {
		op.player.Play()
	}
	op.started = true
	return nil
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.reader.detach()
	if op.started && !op.closed {
		op.player.Pause()
	}
	op.started = false
}

func (op *OtoPlayer) Close() error {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.closed {
		return nil
	}
	op.closed = true
	// oto releases players itself; suspending the context frees the device
	if err := op.device.Suspend(); err != nil {
		return &AudioError{Operation: "close", Details: "releasing oto resources", Err: err}
	}
	return nil
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}

func (op *OtoPlayer) IsPlaying() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return !op.closed && op.player.IsPlaying()
}

func (op *OtoPlayer) Err() error {
	if err := op.device.Err(); err != nil {
		return err
	}
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.closed {
		return nil
	}
	return op.player.Err()
}
