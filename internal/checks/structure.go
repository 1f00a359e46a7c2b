package checks

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/resume-reviewer/internal/feedback"
)

const (
	// MaxSentencesWithoutBullets is the dot count a bullet-less section may reach before it is flagged.
	MaxSentencesWithoutBullets = 5
)

var (
	sectionSeparator = regexp.MustCompile(`\n\s*\n`)
	// headingPattern matches whole lines made of a capitalized run of letters and spaces,
	// optionally terminated by a colon.
	headingPattern = regexp.MustCompile(`(?m)^[ \t]*([A-Z](?:[A-Za-z ]*[A-Za-z])?)[ \t]*(?::|$)`)
)

// bulletGlyphs start a bulleted line in the plain text.
var bulletGlyphs = []string{"-", "•", "▪", "*"}

// BulletUsage flags every blank-line-delimited section that reads as a long paragraph
// without any bulleted line.
func BulletUsage(text string) []feedback.Item {
	var items []feedback.Item
	for _, section := range sectionSeparator.Split(text, -1) {
		bullets := 0
		for _, line := range strings.Split(section, "\n") {
			if isBulletLine(line) {
				bullets++
			}
		}

		sentences := strings.Count(section, ".")
		if sentences > MaxSentencesWithoutBullets && bullets == 0 {
			items = append(items, feedback.New(feedback.TagMajor,
				"Long paragraph detected (%d sentences). Consider using bullet points for better readability.", sentences))
		}
	}
	return items
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, glyph := range bulletGlyphs {
		if strings.HasPrefix(trimmed, glyph) {
			return true
		}
	}
	return false
}

// Projects flags a resume that never mentions a project.
func Projects(text string) []feedback.Item {
	if strings.Contains(strings.ToLower(text), "project") {
		return nil
	}
	return []feedback.Item{
		feedback.New(feedback.TagMinor, "Missing 'Projects' section. Adding projects can showcase practical experience."),
	}
}

// HeadingCasing flags every heading-like line that differs from its title-cased form.
// All-caps headings, acronyms and ampersands are flagged as well.
func HeadingCasing(text string) []feedback.Item {
	// Casers are stateful, one per call.
	title := cases.Title(language.English)

	var items []feedback.Item
	for _, match := range headingPattern.FindAllStringSubmatch(text, -1) {
		heading := match[1]
		if title.String(heading) == heading {
			continue
		}
		items = append(items, feedback.New(feedback.TagMinor, "Heading '%s' should be in Title Case.", heading))
	}
	return items
}
