//go:build ebiten

// Package ebitenhost runs the simulation in an ebiten window.
package ebitenhost

import (
	"errors"
	"fmt"
	"log/slog"

	"gpulife/internal/app"
	"gpulife/internal/core"
	"gpulife/internal/gol"
	"gpulife/internal/gpu/ebitengpu"
	"gpulife/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

func init() {
	app.RegisterBackend("ebiten", Run)
}

var keyActions = []struct {
	key    ebiten.Key
	action app.Action
}{
	{ebiten.KeyQ, app.ActionQuit},
	{ebiten.KeyEscape, app.ActionQuit},
	{ebiten.KeySpace, app.ActionTogglePause},
	{ebiten.KeyEnter, app.ActionResume},
	{ebiten.KeyN, app.ActionStepOnce},
	{ebiten.KeyR, app.ActionReset},
	{ebiten.KeyS, app.ActionShuffle},
	{ebiten.KeyH, app.ActionToggleOverlay},
}

// Game adapts the engine to the ebiten.Game interface.
type Game struct {
	cfg     *app.Config
	log     *slog.Logger
	display core.Size

	dev     *ebitengpu.Device
	eng     *gol.Engine
	ctl     *app.Controller
	overlay *ui.Overlay
}

// New constructs a Game for cfg. Device objects are created on the first
// Update, once ebiten's graphics driver is running.
func New(cfg *app.Config, log *slog.Logger) (*Game, error) {
	display, err := core.AlignedDisplay(core.Size{W: cfg.Width, H: cfg.Height}, cfg.Scale)
	if err != nil {
		return nil, err
	}
	return &Game{cfg: cfg, log: log, display: display}, nil
}

func (g *Game) init() error {
	g.dev = ebitengpu.New(g.log)
	sim, err := core.SimSize(g.display, g.cfg.Scale)
	if err != nil {
		return err
	}
	data, err := app.InitialState(g.cfg, sim, g.cfg.Seed)
	if err != nil {
		return err
	}
	g.eng, err = gol.New(g.dev, gol.Options{Display: g.display, Scale: g.cfg.Scale, Seed: data})
	if err != nil {
		return err
	}
	g.ctl = app.NewController(g.eng, g.cfg, g.log)
	g.overlay = ui.NewOverlay()
	return nil
}

// Update handles input. Generations advance in Draw, where the screen is
// available as the default framebuffer.
func (g *Game) Update() error {
	if g.eng == nil {
		if err := g.init(); err != nil {
			return err
		}
	}
	for _, ka := range keyActions {
		if !inpututil.IsKeyJustPressed(ka.key) {
			continue
		}
		quit, err := g.ctl.Handle(ka.action)
		if err != nil {
			return err
		}
		if quit {
			return ebiten.Termination
		}
	}
	return nil
}

// Draw renders one frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.eng == nil {
		return
	}
	g.dev.SetScreen(screen)
	g.ctl.Frame()
	if g.ctl.OverlayVisible() {
		g.overlay.Draw(screen,
			g.ctl.Stats().String(),
			fmt.Sprintf("%v cells  seed %d", g.eng.Sim(), g.ctl.Seed()),
			ui.HelpLine)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.display.W, g.display.H
}

// Run opens the window and blocks until it closes.
func Run(cfg *app.Config) error {
	log := slog.Default().With(slog.String("backend", "ebiten"))
	g, err := New(cfg, log)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(g.display.W, g.display.H)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Info("starting", slog.String("display", g.display.String()), slog.Int("tps", cfg.TPS))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	if g.dev != nil {
		g.dev.Release()
	}
	return nil
}
