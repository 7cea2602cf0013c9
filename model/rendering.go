package model

import (
	"bufio"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/cells"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	// cursor home, then erase the whole screen
	clearScreen = "\x1b[H\x1b[2J"
)

// TerminalRenderer draws a universe by reading its raw cell buffer
type TerminalRenderer struct {
	out io.Writer
	au  aurora.Aurora
}

// NewTerminalRenderer creates a renderer writing to out, with ANSI colours when colorize is set
func NewTerminalRenderer(out io.Writer, colorize bool) *TerminalRenderer {
	return &TerminalRenderer{out: out, au: aurora.NewAurora(colorize)}
}

// Display renders the current generation, two columns per cell
func (r *TerminalRenderer) Display(u *Universe) error {
	var (
		buf   = u.Cells()
		width = int(u.Width())
		alive = r.au.Green(gridPosBlock).String()
		w     = bufio.NewWriter(r.out)
	)
	for i, c := range buf {
		if c == cells.Alive {
			w.WriteString(alive)
		} else {
			w.WriteString(gridPosEmpty)
		}
		if (i+1)%width == 0 {
			w.WriteByte('\n')
		}
	}
	return errors.Wrap(w.Flush(), "[Display] failed to write frame")
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.out, clearScreen)
	return errors.Wrap(err, "[Clear] failed to clear terminal")
}
