package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"gpulife/internal/app"
	"gpulife/internal/gol"
)

func main() {
	cfg, err := app.Parse(flag.CommandLine, os.Args[1:])
	if errors.Is(err, app.ErrNoBackends) {
		fmt.Fprintln(os.Stderr, "gol was built without a rendering backend.")
		fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/gol` or `-tags glfw` for the OpenGL window.")
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gol.SetLogger(logger)

	run, ok := app.Backend(cfg.Backend)
	if !ok {
		log.Fatalf("unknown backend %q (have %v)", cfg.Backend, app.Backends())
	}
	logger.Info("gpulife",
		slog.String("backend", cfg.Backend),
		slog.Int("scale", cfg.Scale),
		slog.Int64("seed", cfg.Seed),
		slog.String("pattern", cfg.Pattern))
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}
