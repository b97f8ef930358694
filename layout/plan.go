// Package layout holds the single geometry description every rendering
// backend consumes. The HTML renderer and the presentation-file exporter
// both derive column counts, the split rule and field visibility from here,
// so the two surfaces cannot drift apart.
package layout

import (
	"slidesmith/deck"
)

// Plan describes how one layout variant composes a slide's fields.
type Plan struct {
	Columns      int // content columns; 0 when content is ignored
	ShowsTitle   bool
	ShowsContent bool
	ShowsVisual  bool
	FullBleed    bool // distinct full-bleed background, no shared masthead
	Numbered     bool // content items rendered with ordinal markers
	BigNumber    bool // first content item rendered at display size
	Quote        bool // content rendered as a pull quote
	DynamicFont  bool // content font tier selected from total length
}

var plans = map[deck.Layout]Plan{
	deck.LayoutTitle:          {ShowsTitle: true, FullBleed: true},
	deck.LayoutAgenda:         {Columns: 1, ShowsTitle: true, ShowsContent: true, Numbered: true, DynamicFont: true},
	deck.LayoutSectionHeader:  {ShowsTitle: true, FullBleed: true},
	deck.LayoutContentBullets: {Columns: 1, ShowsTitle: true, ShowsContent: true, ShowsVisual: true, DynamicFont: true},
	deck.LayoutTwoColumn:      {Columns: 2, ShowsTitle: true, ShowsContent: true, ShowsVisual: true, DynamicFont: true},
	deck.LayoutThreeColumn:    {Columns: 3, ShowsTitle: true, ShowsContent: true, DynamicFont: true},
	deck.LayoutQuote:          {ShowsTitle: true, ShowsContent: true, Quote: true},
	deck.LayoutBigNumber:      {ShowsTitle: true, ShowsContent: true, BigNumber: true},
	deck.LayoutClosing:        {ShowsTitle: true, FullBleed: true},
}

// For returns the plan for a layout. ok is false for values outside the
// closed set; callers must render their "not implemented" fallback instead
// of failing.
func For(l deck.Layout) (Plan, bool) {
	p, ok := plans[l]
	return p, ok
}

// SplitColumns splits content into k contiguous chunks of size ceil(n/k),
// assigned left to right. Sizes are recomputed over the remainder at each
// step, so 7 items over 3 columns yield 3,2,2. Concatenating the chunks in
// order reproduces the input exactly.
func SplitColumns(content []string, k int) [][]string {
	if k <= 1 {
		return [][]string{append([]string(nil), content...)}
	}
	chunks := make([][]string, 0, k)
	rest := content
	for i := 0; i < k; i++ {
		remaining := k - i
		size := (len(rest) + remaining - 1) / remaining
		chunks = append(chunks, append([]string(nil), rest[:size]...))
		rest = rest[size:]
	}
	return chunks
}

// ColumnsFor returns the content chunks for a slide together with whether a
// visual displaces the second column. On a TWO_COLUMN slide carrying a
// visual, the visual occupies the second column's position and that chunk's
// content is suppressed.
func ColumnsFor(s deck.Slide) (chunks [][]string, visualInSecond bool) {
	p, ok := For(s.Layout)
	if !ok || !p.ShowsContent || p.Columns == 0 {
		return nil, false
	}
	chunks = SplitColumns(s.Content, p.Columns)
	if s.Layout == deck.LayoutTwoColumn && s.HasVisual() {
		chunks = chunks[:1]
		visualInSecond = true
	}
	return chunks, visualInSecond
}

// FontTier selects one of three discrete content sizes from the concatenated
// content length: 0 is the largest (short content), 2 the smallest.
func FontTier(content []string) int {
	total := 0
	for _, c := range content {
		total += len(c)
	}
	switch {
	case total < 100:
		return 0
	case total < 200:
		return 1
	default:
		return 2
	}
}
