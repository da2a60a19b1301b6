package canvas

// junctions maps two connector glyphs meeting in one cell to the glyph
// drawn there. Lookups try both orders.
var junctions = map[[2]rune]rune{
	{'─', '│'}: '┼',
	{'╲', '╱'}: '╳',
	{'┼', '─'}: '┼',
	{'┼', '│'}: '┼',
	{'╳', '╲'}: '╳',
	{'╳', '╱'}: '╳',
}

// junction returns the glyph for r drawn over existing. Without a rule the
// newer glyph wins.
func junction(existing, r rune) rune {
	if existing == ' ' || existing == 0 || existing == r {
		return r
	}
	if j, ok := junctions[[2]rune{existing, r}]; ok {
		return j
	}
	if j, ok := junctions[[2]rune{r, existing}]; ok {
		return j
	}
	return r
}

// merge writes r at (x, y), joining it with a connector already there.
func (c *Canvas) merge(x, y int, r rune) {
	if c.inBounds(x, y) {
		c.cells[y][x] = junction(c.cells[y][x], r)
	}
}
