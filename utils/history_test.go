package utils

import (
	"testing"

	"github.com/sheikhrachel/go-life/model"
)

func settleAfter(t *testing.T, u *model.Universe, window, limit int) (uint64, bool) {
	t.Helper()
	h := NewHistory(window)
	for i := 0; i < limit; i++ {
		fp := u.Fingerprint()
		if h.Settled(fp) {
			return u.Generation(), true
		}
		h.Record(fp)
		u.Tick()
	}
	return u.Generation(), false
}

func TestHistoryStillLife(t *testing.T) {
	u, _ := model.NewEmpty(6, 6)
	if err := u.SetCells(model.Block(2, 2)...); err != nil {
		t.Fatal(err)
	}
	gen, ok := settleAfter(t, u, 5, 10)
	if !ok || gen != 1 {
		t.Errorf("block settled = %v at generation %d, want generation 1", ok, gen)
	}
}

func TestHistoryOscillator(t *testing.T) {
	u, _ := model.NewEmpty(5, 5)
	if err := u.SetCells(model.Blinker(2, 1)...); err != nil {
		t.Fatal(err)
	}
	gen, ok := settleAfter(t, u, 5, 10)
	if !ok || gen != 2 {
		t.Errorf("blinker settled = %v at generation %d, want generation 2", ok, gen)
	}
}

func TestHistoryGliderNeverSettlesInsideWindow(t *testing.T) {
	u, _ := model.NewEmpty(10, 10)
	if err := u.SetCells(model.Glider(0, 0)...); err != nil {
		t.Fatal(err)
	}
	if gen, ok := settleAfter(t, u, 5, 30); ok {
		t.Errorf("glider reported settled at generation %d", gen)
	}
}

func TestHistoryWindowDropsOldest(t *testing.T) {
	h := NewHistory(2)
	h.Record("a")
	h.Record("b")
	h.Record("c")
	if h.Settled("a") {
		t.Error("oldest entry should have been dropped")
	}
	if !h.Settled("b") || !h.Settled("c") {
		t.Error("recent entries missing")
	}
	h.Reset()
	if h.Settled("c") {
		t.Error("Reset kept entries")
	}
}
