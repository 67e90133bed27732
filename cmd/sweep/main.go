// Command sweep runs scenes headless across many seeds in parallel and
// reports how quickly each settles and what it settles into.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mad-sand/internal/app"
	"mad-sand/internal/core"
	"mad-sand/internal/sandbox"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type job struct {
	scene string
	seed  int64
}

type scenarioResult struct {
	job
	settledAt  int
	population []sandbox.Count
	elapsed    time.Duration
	steps      int
}

func (r scenarioResult) ticksPerSecond() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.steps) / r.elapsed.Seconds()
}

func main() {
	scenes := flag.String("scenes", strings.Join(core.Scenes(), ","), "comma separated scenes to sweep")
	seeds := flag.Int("seeds", 8, "seeds per scene")
	firstSeed := flag.Int64("seed", 1, "first seed")
	steps := flag.Int("steps", 400, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	width := flag.Int("w", 120, "grid width")
	height := flag.Int("h", 90, "grid height")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	var overrides kvList
	flag.Var(&overrides, "set", "scene config override in key=value form (repeatable)")
	flag.Parse()

	logger, err := app.NewLogger(os.Stderr, *logLevel)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	base := map[string]string{
		"w": fmt.Sprint(*width),
		"h": fmt.Sprint(*height),
	}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			log.Fatalf("override %q is not key=value", kv)
		}
		base[key] = value
	}

	var jobs []job
	for _, scene := range strings.Split(*scenes, ",") {
		scene = strings.TrimSpace(scene)
		if scene == "" {
			continue
		}
		for i := 0; i < *seeds; i++ {
			jobs = append(jobs, job{scene: scene, seed: *firstSeed + int64(i)})
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps)\n", len(jobs), *workers, *steps)
	start := time.Now()
	results, err := sweep(context.Background(), jobs, base, *steps, *workers)
	if err != nil {
		log.Fatal(err)
	}
	report(os.Stdout, results, time.Since(start))
}

// sweep runs every job on its own Simulation, at most workers at a time.
// Results come back in job order.
func sweep(ctx context.Context, jobs []job, base map[string]string, steps, workers int) ([]scenarioResult, error) {
	results := make([]scenarioResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			res, err := runScenario(ctx, j, base, steps)
			if err != nil {
				return fmt.Errorf("%s seed %d: %w", j.scene, j.seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runScenario steps one scene and records the first tick after which no
// cell changed type. settledAt is -1 when the scene never settled.
func runScenario(ctx context.Context, j job, base map[string]string, steps int) (scenarioResult, error) {
	cfg := make(map[string]string, len(base)+1)
	for k, v := range base {
		cfg[k] = v
	}
	cfg["seed"] = fmt.Sprint(j.seed)
	sim, err := core.New(j.scene, cfg)
	if err != nil {
		return scenarioResult{}, err
	}
	s, ok := sim.(*sandbox.Simulation)
	if !ok {
		return scenarioResult{}, fmt.Errorf("scene %q is not a sandbox simulation", j.scene)
	}

	res := scenarioResult{job: j, settledAt: -1}
	prev := make([]uint16, len(s.Cells()))
	snapshot(prev, s)
	began := time.Now()
	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return scenarioResult{}, err
		}
		s.Step()
		res.steps++
		if snapshot(prev, s) {
			if res.settledAt < 0 {
				res.settledAt = step + 1
			}
		} else {
			res.settledAt = -1
		}
	}
	res.elapsed = time.Since(began)
	res.population = s.Population()
	return res, nil
}

// snapshot copies the cell types into buf and reports whether nothing
// changed since the previous copy.
func snapshot(buf []uint16, s *sandbox.Simulation) bool {
	same := true
	for i, p := range s.Cells() {
		t := uint16(p.Type)
		if buf[i] != t {
			same = false
			buf[i] = t
		}
	}
	return same
}

func report(w io.Writer, results []scenarioResult, elapsed time.Duration) {
	sorted := append([]scenarioResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].scene != sorted[j].scene {
			return sorted[i].scene < sorted[j].scene
		}
		return sorted[i].seed < sorted[j].seed
	})
	for _, r := range sorted {
		settled := "never"
		if r.settledAt >= 0 {
			settled = fmt.Sprint(r.settledAt)
		}
		var pop []string
		for _, c := range r.population {
			pop = append(pop, fmt.Sprintf("%s=%d", c.Name, c.Cells))
		}
		fmt.Fprintf(w, "%-10s seed=%-4d settled=%-6s tps=%8.0f %s\n",
			r.scene, r.seed, settled, r.ticksPerSecond(), strings.Join(pop, " "))
	}
	fmt.Fprintf(w, "\nElapsed %s\n", elapsed.Round(time.Millisecond))
}
