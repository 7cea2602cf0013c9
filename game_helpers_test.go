package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

func testConfig() utils.Config {
	c := utils.DefaultConfig()
	c.Width, c.Height = 12, 10
	c.FrameRate = 0
	c.MaxGenerations = 40
	c.Colorize = false
	return c
}

func TestNewUniversePatterns(t *testing.T) {
	tests := []struct {
		pattern string
		live    int
	}{
		{utils.PatternGlider, 5},
		{utils.PatternBlinker, 3},
		{utils.PatternBlock, 4},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			c := testConfig()
			c.Pattern = tt.pattern
			u, err := newUniverse(c, nil, 0)
			if err != nil {
				t.Fatal(err)
			}
			if u.LiveCells() != tt.live {
				t.Errorf("LiveCells() = %d, want %d", u.LiveCells(), tt.live)
			}
		})
	}
}

func TestNewUniverseSeedAndPerturbation(t *testing.T) {
	c := testConfig()
	base, err := newUniverse(c, model.NewBufferPool(), 0)
	if err != nil {
		t.Fatal(err)
	}
	seeded, _ := model.New(c.Width, c.Height)
	if base.Fingerprint() != seeded.Fingerprint() {
		t.Error("seed pattern differs from the default seed")
	}
	perturbed, _ := newUniverse(c, nil, 3)
	if diff := base.LiveCells() - perturbed.LiveCells(); diff != 1 && diff != -1 {
		t.Errorf("perturbation changed %d cells", diff)
	}
}

func TestNewUniversePatternTooLarge(t *testing.T) {
	c := testConfig()
	c.Width, c.Height = 2, 2
	c.Pattern = utils.PatternGlider
	if _, err := newUniverse(c, nil, 0); !errors.Is(err, model.ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}

func TestSimulateSettles(t *testing.T) {
	c := testConfig()
	c.Pattern = utils.PatternBlinker
	u, _ := newUniverse(c, nil, 0)
	res := simulate(context.Background(), u, c)
	if !res.Settled || res.Generations != 2 {
		t.Errorf("result = %+v, want settled at generation 2", res)
	}
}

func TestSimulateStopsAtLimit(t *testing.T) {
	c := testConfig()
	c.Pattern = utils.PatternGlider
	c.MaxGenerations = 7
	u, _ := newUniverse(c, nil, 0)
	res := simulate(context.Background(), u, c)
	if res.Settled || res.Interrupted || res.Generations != 7 {
		t.Errorf("result = %+v, want 7 generations", res)
	}
}

func TestSimulateInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := testConfig()
	u, _ := newUniverse(c, nil, 0)
	if res := simulate(ctx, u, c); !res.Interrupted || res.Generations != 0 {
		t.Errorf("result = %+v, want interrupted before first tick", res)
	}
}

func TestRunUniverses(t *testing.T) {
	c := testConfig()
	c.Universes = 4
	var out bytes.Buffer
	if err := run(context.Background(), c, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// banner, header and one row per universe
	if len(lines) != 6 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
}

func TestRunUniversesPropagatesErrors(t *testing.T) {
	c := testConfig()
	c.Universes = 3
	c.Width, c.Height = 2, 2
	c.Pattern = utils.PatternBlock
	if err := run(context.Background(), c, &bytes.Buffer{}); !errors.Is(err, model.ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}

func TestRunAnimated(t *testing.T) {
	c := testConfig()
	c.Pattern = utils.PatternBlock
	var out bytes.Buffer
	if err := run(context.Background(), c, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Pattern settled after 1 generations") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunAnimatedStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c := testConfig()
	c.Pattern = utils.PatternGlider
	c.MaxGenerations = 0
	c.FrameRate = 5 * time.Millisecond
	var out bytes.Buffer
	if err := run(ctx, c, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Shutting down gracefully") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestParseOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "life.yaml")
	if err := os.WriteFile(path, []byte("width: 40\nheight: 20\npattern: glider\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := parseOptions([]string{"-c", path, "-x", "50", "-i", "10ms", "--no-color"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 50 || c.Height != 20 {
		t.Errorf("dimensions = %dx%d, want 50x20", c.Width, c.Height)
	}
	if c.FrameRate != 10*time.Millisecond {
		t.Errorf("frame rate = %v", c.FrameRate)
	}
	if c.Pattern != utils.PatternGlider || c.Colorize {
		t.Errorf("unexpected config: %+v", c)
	}
}

func TestParseOptionsRejectsZeroWidth(t *testing.T) {
	_, err := parseOptions([]string{"-x", "0"}, &bytes.Buffer{})
	if !errors.Is(err, utils.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestRunAnimatedReportsWriteErrors(t *testing.T) {
	c := testConfig()
	c.Pattern = utils.PatternBlock
	if err := run(context.Background(), c, failingWriter{}); !errors.Is(err, os.ErrClosed) {
		t.Errorf("err = %v, want os.ErrClosed", err)
	}
}

func TestRunAnimatedClearsEachFrame(t *testing.T) {
	c := testConfig()
	c.Pattern = utils.PatternBlock
	var out bytes.Buffer
	if err := run(context.Background(), c, &out); err != nil {
		t.Fatal(err)
	}
	// the block settles on the second frame
	if n := strings.Count(out.String(), "\x1b[H\x1b[2J"); n != 2 {
		t.Errorf("screen cleared %d times, want 2", n)
	}
}

func TestFlagOverridesApply(t *testing.T) {
	tooWide := uint64(math.MaxUint32) + 1
	tests := []struct {
		name    string
		f       flagOverrides
		wantErr string
	}{
		{"negative width", flagOverrides{width: -5, height: unset}, "width"},
		{"negative height", flagOverrides{width: unset, height: -1}, "height"},
		{"both zero", flagOverrides{width: 0, height: 0}, "width"},
		{"too wide", flagOverrides{width: int(tooWide), height: unset}, "width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.f.interval, tt.f.maxGenerations, tt.f.universes = unsetDuration, unset, unset
			c := utils.DefaultConfig()
			err := tt.f.apply(&c)
			if !errors.Is(err, utils.ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err %q does not name %s", err, tt.wantErr)
			}
		})
	}
}

func TestFlagOverridesApplyKeepsUnsetValues(t *testing.T) {
	f := flagOverrides{width: unset, height: 7, interval: unsetDuration, maxGenerations: unset, universes: -2}
	c := utils.DefaultConfig()
	if err := f.apply(&c); err != nil {
		t.Fatal(err)
	}
	def := utils.DefaultConfig()
	if c.Width != def.Width || c.Height != 7 || c.FrameRate != def.FrameRate || c.MaxGenerations != def.MaxGenerations {
		t.Errorf("unexpected config: %+v", c)
	}
	// explicit negatives reach Validate instead of being dropped
	if c.Universes != -2 || !errors.Is(c.Validate(), utils.ErrInvalidConfig) {
		t.Errorf("universes = %d, Validate() = %v", c.Universes, c.Validate())
	}
}
