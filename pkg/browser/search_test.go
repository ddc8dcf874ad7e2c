package browser

import "testing"

// searchFixture builds the canonical four-row case: two matching rows
// interleaved with non-matching ones under a pre-expanded root.
func searchFixture() *Browser {
	top := tn("top", tn("alpha"), tn("bus_x"), tn("core"), tn("dma_x"))
	return New(newSource(top))
	// rows: top(0) alpha(1) bus_x(2) core(3) dma_x(4)
}

func TestSearchNextWrapsAround(t *testing.T) {
	b := searchFixture()
	b.SetQuery("_x")

	if !b.SearchNext() {
		t.Fatal("no first match")
	}
	if b.SelectedIndex() != 2 {
		t.Fatalf("first match at %d, want 2", b.SelectedIndex())
	}
	if !b.SearchNext() {
		t.Fatal("no second match")
	}
	if b.SelectedIndex() != 4 {
		t.Fatalf("second match at %d, want 4", b.SelectedIndex())
	}
	if !b.SearchNext() {
		t.Fatal("no wrapped match")
	}
	if b.SelectedIndex() != 2 {
		t.Fatalf("wrap landed at %d, want 2", b.SelectedIndex())
	}
}

func TestSearchPrevWrapsBackward(t *testing.T) {
	b := searchFixture()
	b.SetQuery("_x")
	if !b.SearchPrev() {
		t.Fatal("no match")
	}
	if b.SelectedIndex() != 4 {
		t.Fatalf("backward from top landed at %d, want 4", b.SelectedIndex())
	}
	if !b.SearchPrev() {
		t.Fatal("no second match")
	}
	if b.SelectedIndex() != 2 {
		t.Fatalf("second backward match at %d, want 2", b.SelectedIndex())
	}
}

func TestSearchPreviewChecksCurrentRowFirst(t *testing.T) {
	b := searchFixture()
	b.SetQuery("_x")

	b.Select(2) // already on a match
	if !b.SearchPreview() {
		t.Fatal("preview found nothing")
	}
	if b.SelectedIndex() != 2 {
		t.Errorf("preview jumped to %d from a matching row", b.SelectedIndex())
	}

	b.Select(3) // non-matching row: preview steps forward
	if !b.SearchPreview() {
		t.Fatal("preview found nothing from row 3")
	}
	if b.SelectedIndex() != 4 {
		t.Errorf("preview landed at %d, want 4", b.SelectedIndex())
	}
}

func TestSearchExhaustionKeepsSelection(t *testing.T) {
	b := searchFixture()
	b.Select(3)
	b.SetQuery("zzz")
	if b.SearchNext() {
		t.Fatal("match reported for absent substring")
	}
	if b.SelectedIndex() != 3 {
		t.Errorf("selection moved to %d on exhausted search", b.SelectedIndex())
	}
	if _, _, ok := b.Match(); ok {
		t.Error("highlight set on exhausted search")
	}
}

func TestSearchIsCaseSensitive(t *testing.T) {
	b := searchFixture()
	b.SetQuery("ALPHA")
	if b.SearchNext() {
		t.Error("case-insensitive match reported")
	}
}

func TestSearchMatchesTypeText(t *testing.T) {
	// Labels render as "name type"; the query can span both.
	b := searchFixture()
	b.SetQuery("core mod")
	if !b.SearchNext() {
		t.Fatal("no match across name and type")
	}
	if b.SelectedIndex() != 3 {
		t.Errorf("match at %d, want 3", b.SelectedIndex())
	}
}

func TestSearchMatchColumn(t *testing.T) {
	b := searchFixture()
	b.SetQuery("us")
	if !b.SearchNext() {
		t.Fatal("no match")
	}
	row, col, ok := b.Match()
	if !ok {
		t.Fatal("no highlight after match")
	}
	if row != 2 || col != 1 {
		t.Errorf("match at row %d col %d, want row 2 col 1", row, col)
	}
}

func TestHighlightInvalidatedByResplice(t *testing.T) {
	b := searchFixture()
	b.SetQuery("_x")
	if !b.SearchNext() {
		t.Fatal("no match")
	}
	if _, _, ok := b.Match(); !ok {
		t.Fatal("no highlight")
	}
	b.Select(0)
	b.Handle(CmdToggleExpand) // collapse top: rows resplice
	if _, _, ok := b.Match(); ok {
		t.Error("stale highlight survived a resplice")
	}
}

func TestSearchMatchesPlaceholderText(t *testing.T) {
	const k = 2
	top := tn("top", leafs("c", 2*k)...)
	b := New(newSource(top, tn("other")), WithLimit(k))
	b.Handle(CmdToggleExpand)

	b.SetQuery("more")
	if !b.SearchNext() {
		t.Fatal("placeholder text not searchable")
	}
	if got := b.Outline()[b.SelectedIndex()]; got != " "+moreText {
		t.Errorf("selected row %q", got)
	}
}

func TestClearSearch(t *testing.T) {
	b := searchFixture()
	b.SetQuery("_x")
	b.SearchNext()
	b.ClearSearch()
	if b.Query() != "" {
		t.Errorf("query %q after clear", b.Query())
	}
	if _, _, ok := b.Match(); ok {
		t.Error("highlight after clear")
	}
}
