package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

// simulationResult summarises one headless run
type simulationResult struct {
	Index       int
	Generations uint64
	LiveCells   int
	Settled     bool
	Interrupted bool
	Elapsed     time.Duration
}

// newUniverse creates a universe seeded with the configured pattern.
// A non-zero perturbation flips one cell so that parallel runs start from distinct grids.
func newUniverse(config utils.Config, pool *model.BufferPool, perturbation int) (*model.Universe, error) {
	var opts []model.Option
	if config.UseBufferPool && pool != nil {
		opts = append(opts, model.WithBufferPool(pool))
	}

	var (
		u   *model.Universe
		err error
	)
	if config.Pattern == utils.PatternSeed || config.Pattern == "" {
		u, err = model.New(config.Width, config.Height, opts...)
	} else {
		u, err = model.NewEmpty(config.Width, config.Height, opts...)
	}
	if err != nil {
		return nil, err
	}

	rowMid, colMid := config.Height/2, config.Width/2
	switch config.Pattern {
	case utils.PatternGlider:
		err = u.SetCells(model.Glider(1, 1)...)
	case utils.PatternBlinker:
		err = u.SetCells(model.Blinker(rowMid, max(colMid, 1)-1)...)
	case utils.PatternBlock:
		err = u.SetCells(model.Block(rowMid, colMid)...)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[newUniverse] pattern %q does not fit %dx%d", config.Pattern, config.Width, config.Height)
	}

	if perturbation > 0 {
		p := uint32(perturbation)
		u.Toggle(p%config.Height, (p*7)%config.Width)
	}
	return u, nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(out io.Writer, config utils.Config, u *model.Universe) {
	fmt.Fprintf(out, "Pattern: %s | Buffer pool: %v | Stop when settled: %v\n",
		config.Pattern, config.UseBufferPool, config.StopWhenSettled)
	fmt.Fprintf(out, "Universe: %dx%d | Initial living cells: %d\n",
		u.Width(), u.Height(), u.LiveCells())
	fmt.Fprintln(out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(out)
}

// updateGameState records the current generation and reports its status
func updateGameState(
	u *model.Universe,
	history *utils.History,
	stats *utils.Stats,
	frameDuration time.Duration,
) (string, bool) {
	stats.Update(u.Generation(), u.LiveCells(), frameDuration)

	fingerprint := u.Fingerprint()
	settled := history.Settled(fingerprint)
	history.Record(fingerprint)

	status := "Active"
	if settled {
		status = "Settled"
	}
	if stats.LiveCells == 0 {
		status = "Extinct"
	}
	return status, settled
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, u *model.Universe, stats *utils.Stats, status string) {
	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		u.Generation(), stats.LiveCells, stats.Density(len(u.Cells())), status)
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())
	fmt.Fprintln(out)
}

// reachedLimit reports whether the generation cap has been hit
func reachedLimit(u *model.Universe, config utils.Config) bool {
	return config.MaxGenerations > 0 && u.Generation() >= uint64(config.MaxGenerations)
}

// wait sleeps for d or until ctx is done, reporting false in the latter case
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// runAnimated draws one universe to out once per frame
func runAnimated(ctx context.Context, config utils.Config, out io.Writer) error {
	u, err := newUniverse(config, model.NewBufferPool(), 0)
	if err != nil {
		return err
	}

	var (
		renderer      = model.NewTerminalRenderer(out, config.Colorize)
		stats         = utils.NewStats()
		history       = utils.NewHistory(config.SettleWindow)
		frameDuration time.Duration
	)
	displayGameInfo(out, config, u)

	for {
		frameStart := time.Now()
		if err = renderer.Clear(); err != nil {
			return err
		}

		status, settled := updateGameState(u, history, stats, frameDuration)
		displayGameStatus(out, u, stats, status)
		if err = renderer.Display(u); err != nil {
			return err
		}

		if config.StopWhenSettled && settled {
			fmt.Fprintf(out, "\nPattern settled after %d generations\n", u.Generation())
			return nil
		}
		if reachedLimit(u, config) {
			fmt.Fprintf(out, "\nReached maximum generations limit (%d)\n", config.MaxGenerations)
			return nil
		}

		u.Tick()

		if !wait(ctx, config.FrameRate) {
			fmt.Fprintln(out, "\nShutting down gracefully...")
			fmt.Fprintf(out, "Final stats: %d generations in %.1f seconds, %.1f avg population\n",
				u.Generation(), stats.Runtime().Seconds(), stats.AveragePopulation)
			return nil
		}
		frameDuration = time.Since(frameStart)
	}
}

// simulate steps u without drawing until it settles, hits the generation cap or ctx is done
func simulate(ctx context.Context, u *model.Universe, config utils.Config) simulationResult {
	var (
		start   = time.Now()
		history = utils.NewHistory(config.SettleWindow)
		res     simulationResult
	)
	for {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		fingerprint := u.Fingerprint()
		if config.StopWhenSettled && history.Settled(fingerprint) {
			res.Settled = true
			break
		}
		history.Record(fingerprint)
		if reachedLimit(u, config) {
			break
		}
		u.Tick()
	}
	res.Generations = u.Generation()
	res.LiveCells = u.LiveCells()
	res.Elapsed = time.Since(start)
	return res
}

// runUniverses runs config.Universes independent universes concurrently, one goroutine each
func runUniverses(ctx context.Context, config utils.Config, out io.Writer) error {
	var (
		eg, egCtx = errgroup.WithContext(ctx)
		pool      = model.NewBufferPool()
		results   = make([]simulationResult, config.Universes)
	)
	fmt.Fprintf(out, "Running %d universes of %dx%d\n", config.Universes, config.Width, config.Height)

	for i := range config.Universes {
		eg.Go(func() error {
			u, err := newUniverse(config, pool, i)
			if err != nil {
				return errors.Wrapf(err, "[runUniverses] universe %d", i)
			}
			results[i] = simulate(egCtx, u, config)
			results[i].Index = i
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	displayResults(out, results)
	return nil
}

// displayResults prints one line per universe
func displayResults(out io.Writer, results []simulationResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Universe\tGenerations\tLiving\tOutcome\tElapsed")
	for _, r := range results {
		outcome := "limit"
		switch {
		case r.Interrupted:
			outcome = "interrupted"
		case r.LiveCells == 0:
			outcome = "extinct"
		case r.Settled:
			outcome = "settled"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%v\n", r.Index, r.Generations, r.LiveCells, outcome, r.Elapsed.Round(time.Microsecond))
	}
	_ = w.Flush()
}
