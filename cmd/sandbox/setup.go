package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mad-sand/internal/app"
	"mad-sand/internal/core"
	"mad-sand/internal/sandbox"
)

// setup parses flags, installs the logger and builds the configured scene.
// The returned cleanup stops the rule watcher, if any.
func setup(args []string) (*app.Config, *sandbox.Simulation, func(), error) {
	cfg := app.NewConfig()
	if err := cfg.Parse(flag.CommandLine, args); err != nil {
		return nil, nil, nil, err
	}
	logger, err := app.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(logger)

	sim, err := core.New(cfg.Scene, cfg.SceneConfig())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w (available: %v)", err, core.Scenes())
	}
	s, ok := sim.(*sandbox.Simulation)
	if !ok {
		return nil, nil, nil, fmt.Errorf("scene %q is not a sandbox simulation", cfg.Scene)
	}

	cleanup := func() {}
	if cfg.Watch && cfg.Rules != "" {
		w, err := sandbox.Watch(s, cfg.Rules)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup = func() { _ = w.Close() }
	}
	return cfg, s, cleanup, nil
}
