package checks

import (
	"strings"

	"github.com/spigell/resume-reviewer/internal/extract"
	"github.com/spigell/resume-reviewer/internal/feedback"
)

const (
	MaxFonts         = 2
	MaxFontSizes     = 4
	MaxOffsetSpread  = 30
	MaxBulletMarkers = 1
)

// Formatting checks the layout for font, size, alignment and bullet consistency.
// A failed layout extraction yields a single failure item.
func Formatting(layout *extract.Layout, layoutErr error) []feedback.Item {
	if layoutErr != nil {
		return []feedback.Item{feedback.New(feedback.TagFailure, "Could not analyze formatting")}
	}
	if layout == nil {
		layout = extract.NewLayout(nil, nil)
	}

	var items []feedback.Item
	if n := len(layout.Fonts); n > MaxFonts {
		items = append(items, feedback.New(feedback.TagWarning,
			"Multiple fonts detected (%d). Stick to one or two fonts.", n))
	}
	if n := len(layout.FontSizes); n > MaxFontSizes {
		items = append(items, feedback.New(feedback.TagWarning,
			"Too many font sizes (%d). Limit the number of different sizes.", n))
	}
	if spread := layout.OffsetSpread(); spread > MaxOffsetSpread {
		items = append(items, feedback.New(feedback.TagWarning,
			"Inconsistent alignment detected (left offsets vary by %d units).", spread))
	}
	if n := len(layout.BulletMarkers); n > MaxBulletMarkers {
		items = append(items, feedback.New(feedback.TagWarning,
			"Inconsistent bullet styles (%s). Use a single bullet style.", strings.Join(layout.BulletMarkers, " ")))
	}

	if len(items) == 0 {
		items = append(items, feedback.New(feedback.TagSuccess, "Formatting looks consistent."))
	}
	return items
}
