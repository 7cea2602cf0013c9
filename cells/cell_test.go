package cells

import "testing"

func TestCellNumericIdentity(t *testing.T) {
	if uint8(Dead) != 0 {
		t.Errorf("Dead = %d, want 0", Dead)
	}
	if uint8(Alive) != 1 {
		t.Errorf("Alive = %d, want 1", Alive)
	}
}

func TestCellGlyphs(t *testing.T) {
	if got := Dead.String(); got != "◻" {
		t.Errorf("Dead.String() = %q", got)
	}
	if got := Alive.String(); got != "◼" {
		t.Errorf("Alive.String() = %q", got)
	}
}

func TestCellValid(t *testing.T) {
	for _, c := range []Cell{Dead, Alive} {
		if !c.Valid() {
			t.Errorf("%d should be valid", c)
		}
	}
	if Cell(2).Valid() {
		t.Error("2 should not be valid")
	}
	if Dead.IsAlive() || !Alive.IsAlive() {
		t.Error("IsAlive mismatch")
	}
}
