//go:build !headless

// video_backend_ebiten.go - Ebiten fullscreen host and presentation surface

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
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

// EbitenOutput implements ebiten.Game. Update, Draw and Layout all run on the
// game loop goroutine, so every event reaches the control loop in order from
// a single thread.
type EbitenOutput struct {
	loop    *ControlLoop
	surface *ebitenSurface
	logger  *zap.Logger
	keyBuf  []ebiten.Key
	width   int
	height  int
}

// ebitenSurface exposes the screen image of the current Draw call. Outside of
// Draw there is nothing to acquire.
type ebitenSurface struct {
	target  *ebiten.Image
	width   int
	height  int
	overlay func(*ebiten.Image)
}

type ebitenImage struct {
	surface *ebitenSurface
	screen  *ebiten.Image
}

func NewEbitenOutput(cfg Config, logger *zap.Logger, status *runtimeStatusStore) (VideoOutput, error) {
	eo := &EbitenOutput{
		surface: &ebitenSurface{},
		logger:  logger.With(zap.String("component", "video")),
		keyBuf:  make([]ebiten.Key, 0, 8),
	}
	if cfg.StatusOverlay {
		eo.surface.overlay = func(screen *ebiten.Image) {
			drawRuntimeStatusBar(screen, status.snapshot())
		}
	}
	return eo, nil
}

func (eo *EbitenOutput) Surface() PresentationSurface {
	return eo.surface
}

func (eo *EbitenOutput) Run(loop *ControlLoop) error {
	eo.loop = loop

	ebiten.SetWindowTitle("FlickerTone")
	ebiten.SetWindowDecorated(false)
	ebiten.SetFullscreen(true)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)

	if err := ebiten.RunGame(eo); err != nil && !errors.Is(err, ebiten.Termination) {
		return &VideoError{Operation: "run", Details: "game loop exited", Err: err}
	}
	return nil
}

func (eo *EbitenOutput) Close() error {
	eo.surface.target = nil
	return nil
}

func (eo *EbitenOutput) Update() error {
	if eo.loop.Terminated() {
		return ebiten.Termination
	}

	// Check if the window was closed using Ebiten's built-in detection
	if ebiten.IsWindowBeingClosed() {
		return eo.dispatch(Event{Kind: EventCloseRequested})
	}

	eo.keyBuf = inpututil.AppendJustPressedKeys(eo.keyBuf[:0])
	if len(eo.keyBuf) > 0 {
		return eo.dispatch(Event{Kind: EventKeyPressed, Key: eo.keyBuf[0].String()})
	}
	return nil
}

func (eo *EbitenOutput) dispatch(ev Event) error {
	if err := eo.loop.Dispatch(ev); errors.Is(err, ErrTerminated) {
		return ebiten.Termination
	}
	return nil
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.surface.target = screen
	eo.loop.Dispatch(Event{Kind: EventRedrawRequested})
	eo.surface.target = nil
}

func (eo *EbitenOutput) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != eo.width || outsideHeight != eo.height {
		eo.width, eo.height = outsideWidth, outsideHeight
		if eo.loop != nil {
			eo.loop.Dispatch(Event{Kind: EventResize, Width: outsideWidth, Height: outsideHeight})
		}
	}
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

func (s *ebitenSurface) Configure(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	s.width, s.height = width, height
	return nil
}

func (s *ebitenSurface) AcquireNextImage() (PresentableImage, error) {
	if s.target == nil {
		return nil, ErrSurfaceTimeout
	}
	if s.width == 0 || s.height == 0 || s.target.Bounds().Empty() {
		return nil, ErrSurfaceLost
	}
	return &ebitenImage{surface: s, screen: s.target}, nil
}

func (img *ebitenImage) Clear(c color.RGBA) {
	img.screen.Fill(c)
}

// Submit records any draw work layered on top of the clear. Ebiten flushes
// the command queue itself at the end of Draw.
func (img *ebitenImage) Submit() {
	if img.surface.overlay != nil {
		img.surface.overlay(img.screen)
	}
}

// Present hands the frame back; Ebiten swaps once Draw returns.
func (img *ebitenImage) Present() error {
	if img.surface.target != img.screen {
		return ErrSurfaceLost
	}
	return nil
}

func drawRuntimeStatusBar(screen *ebiten.Image, s runtimeStatusSnapshot) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}

	barHeight := 18
	bounds := screen.Bounds()
	if barHeight >= bounds.Dy() {
		return
	}
	y := bounds.Dy() - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(bounds.Dx()), float64(barHeight), color.RGBA{0, 0, 0, 180})

	line := fmt.Sprintf("FLICKER %5.1f fps  presented %d  skipped %d  |  TONE %.0f Hz  phase %d/%d  %d Hz x%d  errors %d",
		ebiten.ActualFPS(), s.FramesPresented, s.FramesSkipped,
		s.ToneFrequency, s.TonePhase, s.TonePeriod, s.SampleRate, s.Channels, s.StreamErrors)
	text.Draw(screen, line, face, 6, y+13, labelColor)
}
