package model

// Glider returns the cells of a south-east bound glider whose bounding box starts at row, col
func Glider(row, col uint32) []Coord {
	return []Coord{
		{row, col + 1},
		{row + 1, col + 2},
		{row + 2, col}, {row + 2, col + 1}, {row + 2, col + 2},
	}
}

// Blinker returns a horizontal period-2 oscillator starting at row, col
func Blinker(row, col uint32) []Coord {
	return []Coord{{row, col}, {row, col + 1}, {row, col + 2}}
}

// Block returns a 2x2 still life with its top-left corner at row, col
func Block(row, col uint32) []Coord {
	return []Coord{
		{row, col}, {row, col + 1},
		{row + 1, col}, {row + 1, col + 1},
	}
}
