package checks

import (
	"math"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/spigell/resume-reviewer/internal/feedback"
)

// KeywordMatch reports how similar the resume is to the job description. It reports
// nothing when no job description is given.
func KeywordMatch(text, jobDescription string) []feedback.Item {
	if strings.TrimSpace(jobDescription) == "" {
		return nil
	}

	score := Similarity(text, jobDescription)
	return []feedback.Item{
		feedback.New(feedback.TagSuggestion, "Keyword match with job description: %.2f%%", score*100),
	}
}

// Similarity is the Sørensen-Dice coefficient over character bigrams of the lowercased
// inputs, within [0, 1].
func Similarity(a, b string) float64 {
	metric := metrics.NewSorensenDice()
	metric.CaseSensitive = false
	metric.NgramSize = 2

	score := strutil.Similarity(strings.ToLower(a), strings.ToLower(b), metric)
	if math.IsNaN(score) {
		return 0
	}
	return math.Min(1, math.Max(0, score))
}
