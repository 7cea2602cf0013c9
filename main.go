package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
	"github.com/sheikhrachel/go-life/view"
)

const defaultConfigFile = "config.json"

// unset marks a numeric flag that was not given on the command line
const (
	unset         = math.MinInt
	unsetDuration = time.Duration(math.MinInt64)
)

// flagOverrides holds command line values; unset or empty values keep the config file value
type flagOverrides struct {
	configFile     string
	width          int
	height         int
	interval       time.Duration
	maxGenerations int
	universes      int
	pattern        string
	interactive    bool
	noColor        bool
}

func main() {
	config, err := parseOptions(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, config, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// parseOptions builds the config from the config file and command line flags
func parseOptions(args []string, out io.Writer) (utils.Config, error) {
	f := flagOverrides{width: unset, height: unset, interval: unsetDuration, maxGenerations: unset, universes: unset}

	p := flaggy.NewParser("go-life")
	p.Description = "Conway's Game of Life on a toroidal grid"
	p.String(&f.configFile, "c", "config", "Path to a JSON or YAML config file (default "+defaultConfigFile+")")
	p.Int(&f.width, "x", "width", "Width of the universe")
	p.Int(&f.height, "y", "height", "Height of the universe")
	p.Duration(&f.interval, "i", "interval", "Interval between generations, for example 150ms")
	p.Int(&f.maxGenerations, "s", "maxGenerations", "Stop after this many generations (0 runs forever)")
	p.Int(&f.universes, "u", "universes", "Number of independent universes to run headless")
	p.String(&f.pattern, "p", "pattern", "Initial pattern [seed|glider|blinker|block]")
	p.Bool(&f.interactive, "n", "interactive", "Start interactive mode")
	p.Bool(&f.noColor, "", "no-color", "Disable colored output")
	if err := p.ParseArgs(args); err != nil {
		return utils.Config{}, errors.Wrap(err, "[parseOptions] failed to parse flags")
	}

	config, err := loadConfig(f.configFile, out)
	if err != nil {
		return config, err
	}
	if err = f.apply(&config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// loadConfig reads the named file, or config.json when present, or the defaults
func loadConfig(filename string, out io.Writer) (utils.Config, error) {
	if filename != "" {
		return utils.LoadConfig(filename)
	}
	config, err := utils.LoadConfig(defaultConfigFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config, err
		}
		fmt.Fprintf(out, "Using default configuration (%s not found)\n", defaultConfigFile)
		config = utils.DefaultConfig()
	}
	return config, nil
}

func (f flagOverrides) apply(c *utils.Config) error {
	dims := []struct {
		name  string
		value int
		field *uint32
	}{
		{"width", f.width, &c.Width},
		{"height", f.height, &c.Height},
	}
	for _, d := range dims {
		if d.value == unset {
			continue
		}
		if d.value <= 0 || uint64(d.value) > math.MaxUint32 {
			return errors.Wrapf(utils.ErrInvalidConfig, "%s out of range: %d", d.name, d.value)
		}
		*d.field = uint32(d.value)
	}
	// negative values are passed on so Validate reports them
	if f.interval != unsetDuration {
		c.FrameRate = f.interval
	}
	if f.maxGenerations != unset {
		c.MaxGenerations = f.maxGenerations
	}
	if f.universes != unset {
		c.Universes = f.universes
	}
	if f.pattern != "" {
		c.Pattern = f.pattern
	}
	if f.interactive {
		c.Interactive = true
	}
	if f.noColor {
		c.Colorize = false
	}
	return nil
}

// run picks the front-end for the config
func run(ctx context.Context, config utils.Config, out io.Writer) error {
	switch {
	case config.Interactive:
		return runInteractive(ctx, config)
	case config.Universes > 1:
		return runUniverses(ctx, config, out)
	default:
		return runAnimated(ctx, config, out)
	}
}

func runInteractive(ctx context.Context, config utils.Config) error {
	u, err := newUniverse(config, model.NewBufferPool(), 0)
	if err != nil {
		return err
	}
	ui, err := view.NewConsoleUI(u, config.FrameRate, config.Colorize)
	if err != nil {
		return err
	}
	return ui.Start(ctx)
}
