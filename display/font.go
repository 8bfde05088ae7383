package display

// Glyph bitmaps on a 5x7 grid. Each is drawn scaled by fontScale and
// centred in its 24x24 cell.
const (
	fontCols  = 5
	fontRows  = 7
	fontScale = 3
	fontLeft  = (CellWidth - fontCols*fontScale) / 2
	fontTop   = (CellHeight - fontRows*fontScale) / 2
)

var font = [numGlyphs][fontRows]string{
	Digit0: {
		".###.",
		"#...#",
		"#..##",
		"#.#.#",
		"##..#",
		"#...#",
		".###.",
	},
	Digit1: {
		"..#..",
		".##..",
		"..#..",
		"..#..",
		"..#..",
		"..#..",
		".###.",
	},
	Digit2: {
		".###.",
		"#...#",
		"....#",
		"...#.",
		"..#..",
		".#...",
		"#####",
	},
	Digit3: {
		"#####",
		"...#.",
		"..#..",
		"...#.",
		"....#",
		"#...#",
		".###.",
	},
	Digit4: {
		"...#.",
		"..##.",
		".#.#.",
		"#..#.",
		"#####",
		"...#.",
		"...#.",
	},
	Digit5: {
		"#####",
		"#....",
		"####.",
		"....#",
		"....#",
		"#...#",
		".###.",
	},
	Digit6: {
		"..##.",
		".#...",
		"#....",
		"####.",
		"#...#",
		"#...#",
		".###.",
	},
	Digit7: {
		"#####",
		"....#",
		"...#.",
		"..#..",
		".#...",
		".#...",
		".#...",
	},
	Digit8: {
		".###.",
		"#...#",
		"#...#",
		".###.",
		"#...#",
		"#...#",
		".###.",
	},
	Digit9: {
		".###.",
		"#...#",
		"#...#",
		".####",
		"....#",
		"...#.",
		".##..",
	},
	Space: {
		".....",
		".....",
		".....",
		".....",
		".....",
		".....",
		".....",
	},
	Dash: {
		".....",
		".....",
		".....",
		"#####",
		".....",
		".....",
		".....",
	},
	Dot: {
		".....",
		".....",
		".....",
		".....",
		".....",
		".##..",
		".##..",
	},
	Off: {
		".....",
		".....",
		"#...#",
		".#.#.",
		"..#..",
		".#.#.",
		"#...#",
	},
	Mem: {
		"#...#",
		"##.##",
		"#.#.#",
		"#...#",
		"#...#",
		".....",
		"#####",
	},
}

// lit reports whether font pixel (col, row) of g is set.
func lit(g Glyph, col, row int) bool {
	return font[g][row][col] == '#'
}
