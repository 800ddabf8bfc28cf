package brain

// CollectionGrid is the collection-mode progress tracker: one row of
// observed-element flags per theme, indexed [theme][element].
//
// The grid only records observations; the mode logic in the reducer decides
// when marks happen and what a completion triggers.
type CollectionGrid struct {
	Rows [ThemeCount][ElementsPerTheme]bool
}

// Mark records an observation and reports whether it was new. Out-of-range
// indices are ignored and report false.
func (g *CollectionGrid) Mark(theme, element int) bool {
	if theme < 0 || theme >= ThemeCount || element < 0 || element >= ElementsPerTheme {
		return false
	}
	if g.Rows[theme][element] {
		return false
	}
	g.Rows[theme][element] = true
	return true
}

// RowComplete reports whether every element of the theme has been observed.
func (g *CollectionGrid) RowComplete(theme int) bool {
	if theme < 0 || theme >= ThemeCount {
		return false
	}
	for _, seen := range g.Rows[theme] {
		if !seen {
			return false
		}
	}
	return true
}

// ResetRow clears one theme's row. Called in the same tick a completion
// fires so the theme can be collected again.
func (g *CollectionGrid) ResetRow(theme int) {
	if theme < 0 || theme >= ThemeCount {
		return
	}
	g.Rows[theme] = [ElementsPerTheme]bool{}
}

// Reset clears every row. Called on mode switch and when sensing is toggled
// on while already in Collection mode.
func (g *CollectionGrid) Reset() {
	g.Rows = [ThemeCount][ElementsPerTheme]bool{}
}
