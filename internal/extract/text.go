package extract

import (
	"math"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/samber/lo"
)

type textLine struct {
	y    float64
	size float64
	text string
}

// Lines rebuilds the text lines of a page from its glyphs, top to bottom.
func Lines(glyphs []pdf.Text) []string {
	return lo.Map(groupLines(glyphs), func(l textLine, _ int) string { return l.text })
}

// PageText renders a page as newline separated lines. Lines further apart than a
// paragraph gap are separated by a blank line.
func PageText(glyphs []pdf.Text) string {
	lines := groupLines(glyphs)

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
			prev := lines[i-1]
			if prev.y-l.y > paragraphGapRatio*prev.size {
				b.WriteByte('\n')
			}
		}
		b.WriteString(l.text)
	}
	return b.String()
}

func groupLines(glyphs []pdf.Text) []textLine {
	type bucket struct {
		y      float64
		glyphs []pdf.Text
	}

	var buckets []*bucket
	for _, g := range glyphs {
		target, found := lo.Find(buckets, func(b *bucket) bool { return math.Abs(b.y-g.Y) < baselineTolerance })
		if !found {
			target = &bucket{y: g.Y}
			buckets = append(buckets, target)
		}
		target.glyphs = append(target.glyphs, g)
	}

	// PDF y grows upwards.
	slices.SortStableFunc(buckets, func(a, b *bucket) int {
		switch {
		case a.y > b.y:
			return -1
		case a.y < b.y:
			return 1
		default:
			return 0
		}
	})

	lines := make([]textLine, 0, len(buckets))
	for _, b := range buckets {
		slices.SortStableFunc(b.glyphs, func(a, b pdf.Text) int {
			switch {
			case a.X < b.X:
				return -1
			case a.X > b.X:
				return 1
			default:
				return 0
			}
		})

		text := joinGlyphs(b.glyphs)
		if text == "" {
			continue
		}
		size := lo.Max(lo.Map(b.glyphs, func(g pdf.Text, _ int) float64 { return math.Abs(g.FontSize) }))
		lines = append(lines, textLine{y: b.y, size: size, text: text})
	}

	return lines
}

// joinGlyphs concatenates glyphs ordered by X, inserting a space where the gap to the
// previous glyph is wider than a word gap. Whitespace glyphs collapse to one space.
func joinGlyphs(glyphs []pdf.Text) string {
	var (
		b     strings.Builder
		space bool
	)

	for i, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			space = true
			continue
		}

		if i > 0 {
			prev := glyphs[i-1]
			if g.X-(prev.X+prev.W) > wordGapRatio*math.Abs(g.FontSize) {
				space = true
			}
		}

		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteString(g.S)
	}

	return b.String()
}
