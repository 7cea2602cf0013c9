package rules

import "github.com/sheikhrachel/go-life/cells"

/*
ApplyConwayRules applies Conway's Game of Life rules (B3/S23) to determine the next state of a cell.

An Alive cell survives with 2 or 3 live neighbors, a Dead cell is born with exactly 3,
every other cell is Dead in the next generation.
*/
func ApplyConwayRules(cell cells.Cell, neighbors uint8) cells.Cell {
	if (cell == cells.Alive && neighbors == 2) || neighbors == 3 {
		return cells.Alive
	}
	return cells.Dead
}
