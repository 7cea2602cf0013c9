package view

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/cells"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

const (
	viewHeader        = "header"
	viewConfiguration = "configuration"
	viewStatus        = "status"
	viewField         = "universe"
	viewHelp          = "help"

	leftColumnWidth = 28
	minWindowHeight = 20
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// ConsoleUI is the interactive terminal front-end.
// Every access to the universe happens on the gocui main loop goroutine,
// either from a key handler or from a function queued with Gui.Update.
type ConsoleUI struct {
	u        *model.Universe
	g        *gocui.Gui
	k        []keyBinding
	au       aurora.Aurora
	stats    *utils.Stats
	interval time.Duration
	stopCh   chan struct{}

	lastTick   time.Duration
	liveFiller string
	deadFiller string
}

// NewConsoleUI creates the terminal UI for u, stepping every interval while running
func NewConsoleUI(u *model.Universe, interval time.Duration, colorize bool) (*ConsoleUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "[NewConsoleUI] failed to create gui")
	}
	au := aurora.NewAurora(colorize)
	t := &ConsoleUI{
		u:          u,
		g:          g,
		au:         au,
		stats:      utils.NewStats(),
		interval:   interval,
		liveFiller: au.Green("█").String(),
		deadFiller: "░",
	}
	g.Mouse = true

	t.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextStep, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, viewField},
	}
	g.SetManagerFunc(t.layout)

	if err = t.initKeyBindings(); err != nil {
		g.Close()
		return nil, err
	}
	return t, nil
}

func (t *ConsoleUI) initKeyBindings() error {
	for _, kb := range t.k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return h(v) }); err != nil {
			return errors.Wrapf(err, "[initKeyBindings] key %s", kb.name)
		}
	}
	return nil
}

// Start runs the UI until the user quits or ctx is done
func (t *ConsoleUI) Start(ctx context.Context) error {
	done := make(chan struct{})
	go quitOnDone(ctx, done, t.g.Update)

	err := t.g.MainLoop()
	close(done)
	t.stopRunning()
	t.g.Close()
	if err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "[Start] main loop failed")
	}
	return nil
}

// quitOnDone queues a quit on the main loop once ctx is done,
// unless done is closed first
func quitOnDone(ctx context.Context, done <-chan struct{}, update func(func(*gocui.Gui) error)) {
	select {
	case <-ctx.Done():
		update(func(*gocui.Gui) error { return gocui.ErrQuit })
	case <-done:
	}
}

// step advances the universe one generation and refreshes the views
func (t *ConsoleUI) step() {
	start := time.Now()
	t.u.Tick()
	t.lastTick = time.Since(start)
	t.stats.Update(t.u.Generation(), t.u.LiveCells(), t.lastTick)
	t.refresh(t.g)
}

func (t *ConsoleUI) refresh(g *gocui.Gui) {
	if v, err := g.View(viewField); err == nil {
		t.renderField(v)
	}
	if v, err := g.View(viewStatus); err == nil {
		t.renderStatus(v)
	}
}

func (t *ConsoleUI) renderField(v *gocui.View) {
	v.Clear()
	_, _ = v.Write(t.fieldText(v.Size()))
}

// cropped reports whether the universe does not fit a maxW x maxH view,
// in which case the last visible row carries a notice instead of cells
func (t *ConsoleUI) cropped(maxW, maxH int) bool {
	return int(t.u.Width()) > maxW || int(t.u.Height()) > maxH
}

// fieldText draws the raw cell buffer, cropped to maxW x maxH
func (t *ConsoleUI) fieldText(maxW, maxH int) []byte {
	buf := t.u.Cells()
	width, height := int(t.u.Width()), int(t.u.Height())
	crop := t.cropped(maxW, maxH)

	var b bytes.Buffer
	for row := 0; row < height && row < maxH; row++ {
		if row != 0 {
			b.WriteByte('\n')
		}
		if crop && row == maxH-1 {
			b.WriteString(t.au.Red("The universe is larger than the viewing area").String())
			break
		}
		line := buf[row*width : (row+1)*width]
		for col, c := range line {
			if col >= maxW {
				break
			}
			if c == cells.Alive {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	return b.Bytes()
}

func (t *ConsoleUI) renderStatus(v *gocui.View) {
	v.Clear()
	mode := t.au.Blue("waiting").String()
	if t.stopCh != nil {
		mode = t.au.Cyan("running").String()
	}
	_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", t.u.Generation()))
	_, _ = fmt.Fprintln(v, t.renderProp("Live cells", "%v", t.u.LiveCells()))
	_, _ = fmt.Fprintln(v, t.renderProp("Tick time", "%v", t.lastTick.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Avg pop", "%.1f", t.stats.AveragePopulation))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", mode))
}

func (t *ConsoleUI) renderConfiguration(v *gocui.View) {
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", t.u.Width(), t.u.Height()))
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", t.interval))
}

func (t *ConsoleUI) renderProp(name string, valueFormat string, values ...interface{}) string {
	return fmt.Sprintf(" "+t.au.Green(name).String()+": "+valueFormat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if maxY < minWindowHeight {
		if err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			return err
		}
		_ = g.DeleteView(viewConfiguration)
		_ = g.DeleteView(viewStatus)
		_ = g.DeleteView(viewField)
		return nil
	}
	if err := t.headerLayout(g, 3, "Conway's Game of Life"); err != nil {
		return err
	}

	if v, err := g.SetView(viewConfiguration, 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Configuration"
		t.renderConfiguration(v)
	}

	if v, err := g.SetView(viewStatus, 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		t.renderStatus(v)
	}

	v, err := g.SetView(viewField, leftColumnWidth+1, 3, maxX-1, maxY-5)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Universe"
	}
	t.renderField(v)

	if v, err := g.SetView(viewHelp, -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		var b strings.Builder
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.au.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) error {
	maxX, _ := g.Size()
	v, err := g.SetView(viewHeader, -1, -1, maxX+1, height)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorCyan
		v.FgColor = gocui.ColorBlack
	}
	v.Clear()
	pad := 0
	if maxX > len(text) {
		pad = (maxX - len(text)) / 2
	}
	_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", pad)+text)
	return nil
}

// stopRunning stops the background ticker if it is active
func (t *ConsoleUI) stopRunning() {
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextStep(_ *gocui.View) error {
	t.stopRunning()
	t.step()
	return nil
}

// cmdRun starts a ticker that queues one step per interval on the main loop
func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	if t.stopCh != nil {
		return nil
	}
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	interval := t.interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				t.g.Update(func(_ *gocui.Gui) error {
					select {
					case <-stopCh:
					default:
						t.step()
					}
					return nil
				})
			}
		}
	}()
	t.refresh(t.g)
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.stopRunning()
	t.refresh(t.g)
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.stopRunning()
	t.u.Clear()
	t.refresh(t.g)
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	maxW, maxH := v.Size()
	if row, col, ok := t.cellAt(cx, cy, maxW, maxH); ok {
		t.u.Toggle(row, col)
		t.refresh(t.g)
	}
	return nil
}

// cellAt maps a cursor position in a maxW x maxH view to a cell
func (t *ConsoleUI) cellAt(cx, cy, maxW, maxH int) (uint32, uint32, bool) {
	if cx < 0 || cy < 0 || cx >= maxW || cy >= maxH {
		return 0, 0, false
	}
	if t.cropped(maxW, maxH) && cy == maxH-1 {
		return 0, 0, false
	}
	if cx >= int(t.u.Width()) || cy >= int(t.u.Height()) {
		return 0, 0, false
	}
	return uint32(cy), uint32(cx), true
}
