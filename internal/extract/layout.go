package extract

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/samber/lo"
)

// bulletMarkers are the glyphs recognised as list markers at the start of a line.
var bulletMarkers = []rune{'•', '-', '▪', '*', '◦', '●', '■', '‣'}

const (
	// baselineTolerance is how far apart two glyph baselines may be and still share a line.
	baselineTolerance = 1.0
	// wordGapRatio is the horizontal gap, relative to the font size, that separates words.
	wordGapRatio = 0.15
	// paragraphGapRatio is the baseline distance, relative to the font size of the line
	// above, past which a blank line is emitted.
	paragraphGapRatio = 1.8
)

// Sample is one text run observation.
type Sample struct {
	FontName   string `json:"font_name"`
	FontSize   int    `json:"font_size"`
	LeftOffset int    `json:"left_offset"`
}

// Layout aggregates the samples of a whole document.
type Layout struct {
	Samples       []Sample `json:"samples"`
	Fonts         []string `json:"fonts"`
	FontSizes     []int    `json:"font_sizes"`
	LeftOffsets   []int    `json:"left_offsets"`
	BulletMarkers []string `json:"bullet_markers"`
}

// NewLayout builds the document aggregates from run samples and the lines of page 1.
func NewLayout(samples []Sample, firstPageLines []string) *Layout {
	fonts := lo.Uniq(lo.Map(samples, func(s Sample, _ int) string { return s.FontName }))
	sizes := lo.Uniq(lo.Map(samples, func(s Sample, _ int) int { return s.FontSize }))
	offsets := lo.Map(samples, func(s Sample, _ int) int { return s.LeftOffset })

	slices.Sort(fonts)
	slices.Sort(sizes)

	return &Layout{
		Samples:       samples,
		Fonts:         fonts,
		FontSizes:     sizes,
		LeftOffsets:   offsets,
		BulletMarkers: BulletMarkers(firstPageLines),
	}
}

// OffsetSpread is the distance between the leftmost and rightmost run start.
// It is zero when no offsets were collected.
func (l *Layout) OffsetSpread() int {
	if l == nil || len(l.LeftOffsets) == 0 {
		return 0
	}
	return lo.Max(l.LeftOffsets) - lo.Min(l.LeftOffsets)
}

// Runs groups consecutive glyphs sharing font, size and baseline into text runs and
// returns one sample per run with visible text.
func Runs(glyphs []pdf.Text) []Sample {
	var (
		samples []Sample
		current *run
	)

	flush := func() {
		if current != nil && current.visible {
			samples = append(samples, current.sample())
		}
		current = nil
	}

	for _, g := range glyphs {
		if current == nil || !current.continues(g) {
			flush()
			current = &run{first: g, last: g}
		}
		current.last = g
		if strings.TrimSpace(g.S) != "" {
			current.visible = true
		}
	}
	flush()

	return samples
}

type run struct {
	first   pdf.Text
	last    pdf.Text
	visible bool
}

func (r *run) continues(g pdf.Text) bool {
	return g.Font == r.last.Font &&
		roundSize(g.FontSize) == roundSize(r.last.FontSize) &&
		math.Abs(g.Y-r.last.Y) < baselineTolerance &&
		g.X >= r.last.X
}

func (r *run) sample() Sample {
	return Sample{
		FontName:   r.first.Font,
		FontSize:   roundSize(r.first.FontSize),
		LeftOffset: int(math.Round(r.first.X)),
	}
}

func roundSize(size float64) int {
	return int(math.Round(math.Abs(size)))
}

// BulletMarkers returns the distinct markers that start the given lines, sorted.
func BulletMarkers(lines []string) []string {
	markers := make([]string, 0)
	for _, l := range lines {
		l = strings.TrimLeftFunc(l, unicode.IsSpace)
		first, size := utf8.DecodeRuneInString(l)
		if size == 0 || !slices.Contains(bulletMarkers, first) {
			continue
		}
		markers = append(markers, string(first))
	}

	markers = lo.Uniq(markers)
	slices.Sort(markers)
	return markers
}
