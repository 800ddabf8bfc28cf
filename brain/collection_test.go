package brain

import "testing"

// TestCollectionGrid_MarkReportsNew verifies only the first mark of a cell
// reports true.
func TestCollectionGrid_MarkReportsNew(t *testing.T) {
	var g CollectionGrid

	if !g.Mark(2, 3) {
		t.Fatalf("expected first mark to report new")
	}
	if g.Mark(2, 3) {
		t.Errorf("expected repeat mark to report false")
	}
	if !g.Rows[2][3] {
		t.Errorf("expected cell set")
	}
}

// TestCollectionGrid_MarkBounds verifies out-of-range marks are ignored.
func TestCollectionGrid_MarkBounds(t *testing.T) {
	var g CollectionGrid

	if g.Mark(-1, 0) || g.Mark(ThemeCount, 0) || g.Mark(0, -1) || g.Mark(0, ElementsPerTheme) {
		t.Errorf("expected out-of-range marks rejected")
	}
	if g != (CollectionGrid{}) {
		t.Errorf("expected grid untouched, got %v", g.Rows)
	}
}

// TestCollectionGrid_RowComplete verifies completion needs every element.
func TestCollectionGrid_RowComplete(t *testing.T) {
	var g CollectionGrid

	for e := 0; e < ElementsPerTheme-1; e++ {
		g.Mark(1, e)
	}
	if g.RowComplete(1) {
		t.Fatalf("expected incomplete row with one element missing")
	}

	g.Mark(1, ElementsPerTheme-1)
	if !g.RowComplete(1) {
		t.Errorf("expected complete row")
	}
	if g.RowComplete(0) {
		t.Errorf("expected untouched row incomplete")
	}
}

// TestCollectionGrid_ResetRow verifies a row reset leaves other rows alone.
func TestCollectionGrid_ResetRow(t *testing.T) {
	var g CollectionGrid
	g.Mark(0, 0)
	g.Mark(3, 2)

	g.ResetRow(0)
	if g.Rows[0][0] {
		t.Errorf("expected row 0 cleared")
	}
	if !g.Rows[3][2] {
		t.Errorf("expected row 3 untouched")
	}
}

// TestCollectionGrid_Reset verifies a full reset clears everything.
func TestCollectionGrid_Reset(t *testing.T) {
	var g CollectionGrid
	for th := 0; th < ThemeCount; th++ {
		g.Mark(th, 0)
	}

	g.Reset()
	if g != (CollectionGrid{}) {
		t.Errorf("expected empty grid after reset, got %v", g.Rows)
	}
}
