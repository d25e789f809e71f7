// flicker_driver.go - Two-color toggle driven by redraw requests

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
	"image/color"
)

// FlickerDriver alternates between two fill colors, one per redraw. It keeps
// no clock of its own; cadence is whatever the host's redraw rate is.
type FlickerDriver struct {
	colorA    color.RGBA
	colorB    color.RGBA
	useColorA bool
	status    *runtimeStatusStore
}

func NewFlickerDriver(colorA, colorB color.RGBA, status *runtimeStatusStore) *FlickerDriver {
	return &FlickerDriver{
		colorA: colorA,
		colorB: colorB,
		status: status,
	}
}

// NextColor is the color the next Redraw will clear to.
func (fd *FlickerDriver) NextColor() color.RGBA {
	if fd.useColorA {
		return fd.colorA
	}
	return fd.colorB
}

// Redraw runs one acquire, clear, submit, present cycle. The flag flips even
// when the cycle fails, so a skipped frame does not repeat a color on retry.
func (fd *FlickerDriver) Redraw(surface PresentationSurface) error {
	defer fd.flip()

	img, err := surface.AcquireNextImage()
	if err != nil {
		fd.recordSkipped()
		return &VideoError{Operation: "acquire", Details: "failed to acquire next presentable image", Err: err}
	}

	img.Clear(fd.NextColor())
	img.Submit()
	if err := img.Present(); err != nil {
		fd.recordSkipped()
		return &VideoError{Operation: "present", Details: "presenting frame", Err: err}
	}

	if fd.status != nil {
		fd.status.recordPresented()
	}
	return nil
}

func (fd *FlickerDriver) flip() {
	fd.useColorA = !fd.useColorA
}

func (fd *FlickerDriver) recordSkipped() {
	if fd.status != nil {
		fd.status.recordSkipped()
	}
}
