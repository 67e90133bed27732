//go:build ebiten

package main

import (
	"errors"
	"log"
	"os"

	"mad-sand/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, sim, cleanup, err := setup(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	game := app.New(sim, cfg.Scale, cfg.Seed)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("mad-sand: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
