package app

import (
	"fmt"
	"log/slog"
	"time"

	"gpulife/internal/core"
	"gpulife/internal/seed"
)

// Engine is the part of gol.Engine a host drives.
type Engine interface {
	Step()
	Present()
	Reseed(data []byte) error
	Generation() uint64
	Sim() core.Size
}

// Action is a user command recognised by every host.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionResume
	ActionStepOnce
	ActionReset
	ActionShuffle
	ActionToggleOverlay
	ActionQuit
)

// Stats is what the overlay shows.
type Stats struct {
	Generation uint64
	TPS        int
	Paused     bool
}

func (s Stats) String() string {
	state := "running"
	if s.Paused {
		state = "paused"
	}
	return fmt.Sprintf("gen %d  %d tps  %s", s.Generation, s.TPS, state)
}

// Controller turns host frames and key presses into engine calls. It holds
// the pause state and the generation pacing.
type Controller struct {
	eng     Engine
	cfg     *Config
	pacer   *core.FixedStep
	now     func() time.Time
	log     *slog.Logger
	seed    int64
	overlay bool

	paused   bool
	tickOnce bool
}

// NewController wires eng to the settings in cfg.
func NewController(eng Engine, cfg *Config, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		eng:     eng,
		cfg:     cfg,
		pacer:   core.NewFixedStep(cfg.TPS),
		now:     time.Now,
		log:     log,
		seed:    cfg.Seed,
		overlay: cfg.Overlay,
	}
}

// Handle applies a user action. It reports true when the host should exit.
func (c *Controller) Handle(a Action) (quit bool, err error) {
	switch a {
	case ActionTogglePause:
		c.paused = !c.paused
	case ActionResume:
		c.paused = false
	case ActionStepOnce:
		c.tickOnce = true
	case ActionReset:
		err = c.reseed(c.cfg.Seed)
	case ActionShuffle:
		err = c.reseed(c.now().UnixNano())
	case ActionToggleOverlay:
		c.overlay = !c.overlay
	case ActionQuit:
		return true, nil
	}
	return false, err
}

func (c *Controller) reseed(s int64) error {
	data, err := InitialState(c.cfg, c.eng.Sim(), s)
	if err != nil {
		return err
	}
	if err := c.eng.Reseed(data); err != nil {
		return err
	}
	c.seed = s
	c.tickOnce = false
	c.pacer.Reset()
	c.log.Info("reseeded", slog.Int64("seed", s), slog.String("pattern", c.cfg.Pattern))
	return nil
}

// Frame renders one host frame: a generation Step when one is due, otherwise
// a Present of the current generation. It reports whether a Step ran.
func (c *Controller) Frame() bool {
	due := c.pacer.ShouldStep(c.now())
	if c.tickOnce || (!c.paused && due) {
		c.tickOnce = false
		c.eng.Step()
		return true
	}
	c.eng.Present()
	return false
}

// Stats reports the state shown by the overlay.
func (c *Controller) Stats() Stats {
	return Stats{Generation: c.eng.Generation(), TPS: c.cfg.TPS, Paused: c.paused}
}

// Paused reports whether automatic stepping is suspended.
func (c *Controller) Paused() bool { return c.paused }

// OverlayVisible reports whether the overlay should be drawn.
func (c *Controller) OverlayVisible() bool { return c.overlay }

// Seed returns the seed of the last reseed.
func (c *Controller) Seed() int64 { return c.seed }

// InitialState builds the seed buffer for a grid: the configured pattern,
// or random noise at the configured density.
func InitialState(cfg *Config, sim core.Size, s int64) ([]byte, error) {
	if cfg.Pattern != "" {
		return seed.Pattern(sim, cfg.Pattern)
	}
	return seed.Random(sim, s, cfg.Density), nil
}
