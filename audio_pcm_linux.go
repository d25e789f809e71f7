// audio_pcm_linux.go - Period writer and pump loop for ALSA-style PCM devices

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
	"syscall"
	"time"
)

// pcmDevice is the part of an ALSA PCM handle the pump drives. Results follow
// ALSA conventions: frames written, or a negative errno.
type pcmDevice interface {
	WriteFrames(samples []float32, frames int) int
	Recover(code int) int
}

// pcmError is a failed PCM call; Err is the errno ALSA reported.
func pcmError(operation string, code int) error {
	return &AudioError{Operation: operation, Details: "pcm device", Err: syscall.Errno(-code)}
}

// pcmFatal reports errors after which the handle is unusable until reopened
// or prepared again.
func pcmFatal(err error) bool {
	return errors.Is(err, syscall.ENODEV) || errors.Is(err, syscall.EBADFD)
}

// writePeriod hands every frame of samples to dev. Underruns, suspends and
// interrupted calls are recovered in place; a short write continues from the
// first unwritten frame. It returns the frames that reached the device.
func writePeriod(dev pcmDevice, samples []float32, channels int) (int, error) {
	frames := len(samples) / channels
	written := 0
	attempts := 0
	for written < frames {
		n := dev.WriteFrames(samples[written*channels:], frames-written)
		if n > 0 {
			written += n
			attempts = 0
			continue
		}
		if n == 0 {
			n = -int(syscall.EAGAIN)
		}
		if attempts++; attempts > PCM_MAX_RECOVERIES {
			return written, pcmError("write", n)
		}
		switch syscall.Errno(-n) {
		case syscall.EAGAIN:
		case syscall.EPIPE, syscall.ESTRPIPE, syscall.EINTR:
			if r := dev.Recover(n); r < 0 {
				return written, pcmError("recover", r)
			}
		default:
			return written, pcmError("write", n)
		}
	}
	return written, nil
}

// pcmPump feeds a PCM device one period at a time from a sampleReader. A
// period is pulled from the source only once the previous one is fully
// written, so a failing device holds the phase instead of skipping it.
type pcmPump struct {
	dev      pcmDevice
	reader   *sampleReader
	samples  []float32
	channels int
	backoff  time.Duration
	onError  func(error)
}

// run returns nil when stop closes, or the error that made the device
// unusable: a fatal errno, or PCM_MAX_WRITE_FAILURES failed periods in a row.
func (p *pcmPump) run(stop <-chan struct{}) error {
	var pending []float32
	failures := 0
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if len(pending) == 0 {
			frames := p.reader.fillFrames(p.samples)
			pending = p.samples[:frames*p.channels]
		}
		written, err := writePeriod(p.dev, pending, p.channels)
		pending = pending[written*p.channels:]
		if err == nil {
			failures = 0
			continue
		}

		p.onError(err)
		failures++
		if pcmFatal(err) || failures >= PCM_MAX_WRITE_FAILURES {
			return err
		}
		select {
		case <-stop:
			return nil
		case <-time.After(p.backoff):
		}
	}
}
