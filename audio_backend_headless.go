//go:build headless

// audio_backend_headless.go - Device-free audio output for headless builds

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

// OtoPlayer in headless builds pulls from the source on a ticker at the
// configured buffer cadence and discards the samples.
type OtoPlayer struct {
	reader   *sampleReader
	buf      []byte
	interval time.Duration
	started  bool
	playing  atomic.Bool
	stop     chan struct{}
	done     chan struct{}
	mutex    sync.Mutex
}

func NewOtoPlayer(source SampleSource, sampleRate int, bufferSize time.Duration, status *runtimeStatusStore) (*OtoPlayer, error) {
	frames := framesFor(sampleRate, bufferSize)
	return &OtoPlayer{
		reader:   newSampleReader(source, frames, status),
		buf:      make([]byte, pullBytes(frames, source.Channels())),
		interval: bufferSize,
	}, nil
}

// Start launches the pump, or relaunches it after a stall.
func (op *OtoPlayer) Start() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.reader.attached() {
		return &AudioError{Operation: "start", Details: "player was stopped"}
	}
	op.started = true
	if op.playing.Load() {
		return nil
	}
	op.stop = make(chan struct{})
	op.done = make(chan struct{})
	op.playing.Store(true)
	go op.pump(op.stop, op.done)
	return nil
}

func (op *OtoPlayer) pump(stop, done chan struct{}) {
	defer close(done)
	defer op.playing.Store(false)

	ticker := time.NewTicker(op.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			op.reader.Read(op.buf)
		}
	}
}

// halt joins the pump; the caller holds the mutex.
func (op *OtoPlayer) halt() {
	if op.stop != nil {
		close(op.stop)
		<-op.done
		op.stop = nil
	}
}

// stall ends the pump the way a lost device would, leaving the output
// started and the source attached.
func (op *OtoPlayer) stall() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	op.halt()
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.reader.detach()
	op.halt()
	op.started = false
}

func (op *OtoPlayer) Close() error {
	op.Stop()
	return nil
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}

func (op *OtoPlayer) IsPlaying() bool {
	return op.playing.Load()
}

func (op *OtoPlayer) Err() error {
	return nil
}
