package checks

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/resume-reviewer/internal/feedback"
)

const (
	// MinTextLength is the character count below which a PDF is assumed to be image based.
	MinTextLength = 200
	// MaxWordsPerSentence is the word count above which a sentence counts as long.
	MaxWordsPerSentence = 25
	// MaxLongSentences is how many long sentences are tolerated.
	MaxLongSentences = 5
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// phonePattern accepts ten digits with an optional +country code of up to three digits.
	phonePattern       = regexp.MustCompile(`(?:\+?\d{1,3}[-. ]?)?\d{3}[-. ]?\d{3}[-. ]?\d{4}`)
	achievementPattern = regexp.MustCompile(`(?i)experience|achievement|project|work`)
	quantifiedPattern  = regexp.MustCompile(`\d+%|\d+\+`)
	sentenceSeparator  = regexp.MustCompile(`[.!?]`)
)

// Contact flags a resume missing either an email address or a phone number.
func Contact(text string) []feedback.Item {
	if emailPattern.MatchString(text) && phonePattern.MatchString(text) {
		return nil
	}
	return []feedback.Item{
		feedback.New(feedback.TagCritical, "Contact information is missing or improperly formatted. Include an email address and a 10-digit phone number."),
	}
}

// Achievements flags every line about experience, achievements, projects or work that
// carries no percentage or "N+" figure.
func Achievements(text string) []feedback.Item {
	var items []feedback.Item
	for _, line := range strings.Split(text, "\n") {
		if !achievementPattern.MatchString(line) || quantifiedPattern.MatchString(line) {
			continue
		}
		items = append(items, feedback.New(feedback.TagSuggestion,
			"Consider quantifying achievements with numbers or percentages: '%s'", strings.TrimSpace(line)))
	}
	return items
}

// Compatibility flags text too short to come from a real text layer.
func Compatibility(text string) []feedback.Item {
	if utf8.RuneCountInString(text) >= MinTextLength {
		return nil
	}
	return []feedback.Item{
		feedback.New(feedback.TagCritical, "Very little text could be extracted. The PDF may be image-based and unreadable by ATS software."),
	}
}

// Grammar applies two sentence-level heuristics: too many long sentences and sentences
// starting with a lowercase letter. Without findings it reports a single success.
func Grammar(text string) []feedback.Item {
	var (
		long      int
		lowercase bool
	)

	for _, sentence := range Sentences(text) {
		if len(strings.Fields(sentence)) > MaxWordsPerSentence {
			long++
		}
		if first, _ := utf8.DecodeRuneInString(sentence); unicode.IsLower(first) {
			lowercase = true
		}
	}

	var items []feedback.Item
	if long > MaxLongSentences {
		items = append(items, feedback.New(feedback.TagMajor,
			"Found %d long sentences (over %d words). Consider splitting them up.", long, MaxWordsPerSentence))
	}
	if lowercase {
		items = append(items, feedback.New(feedback.TagMajor, "Some sentences start with a lowercase letter. Check capitalization."))
	}
	if len(items) == 0 {
		items = append(items, feedback.New(feedback.TagSuccess, "No major grammar issues found."))
	}
	return items
}

// Sentences splits text on sentence punctuation and drops empty pieces.
func Sentences(text string) []string {
	var sentences []string
	for _, part := range sentenceSeparator.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
