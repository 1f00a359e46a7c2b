package feedback

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tag is the severity marker of a feedback item.
type Tag int

const (
	TagCritical Tag = iota + 1
	TagWarning
	TagMajor
	TagMinor
	TagSuggestion
	TagSuccess
	TagFailure
)

type tagInfo struct {
	icon   string
	name   string
	weight int
}

// tags is the fixed tag table. Only the first four deduct points.
var tags = map[Tag]tagInfo{
	TagCritical:   {icon: "🔴", name: "critical", weight: 15},
	TagWarning:    {icon: "⚠️", name: "warning", weight: 10},
	TagMajor:      {icon: "🟠", name: "major", weight: 7},
	TagMinor:      {icon: "🟡", name: "minor", weight: 5},
	TagSuggestion: {icon: "🟢", name: "suggestion", weight: 0},
	TagSuccess:    {icon: "✅", name: "success", weight: 0},
	TagFailure:    {icon: "❌", name: "failure", weight: 0},
}

func (t Tag) Icon() string { return tags[t].icon }

func (t Tag) Weight() int { return tags[t].weight }

func (t Tag) String() string {
	if info, ok := tags[t]; ok {
		return info.name
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// Item is a single tagged diagnostic produced by a check.
type Item struct {
	Tag     Tag
	Message string
}

func New(tag Tag, format string, args ...any) Item {
	return Item{Tag: tag, Message: fmt.Sprintf(format, args...)}
}

func (i Item) String() string {
	return i.Tag.Icon() + " " + i.Message
}

// MarshalJSON renders the item as its tagged string.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

const (
	maxScore = 100
	minScore = 0
)

// Score deducts each item's tag weight from 100 and clamps the result to [0, 100].
func Score(items []Item) int {
	score := maxScore
	for _, item := range items {
		score -= item.Tag.Weight()
	}

	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// Deduction is the total weight carried by items, before clamping.
func Deduction(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Tag.Weight()
	}
	return total
}

// BySeverity groups rendered items under their tag name, keeping battery order inside a group.
func BySeverity(items []Item) map[string][]string {
	report := make(map[string][]string)
	for _, item := range items {
		key := fmt.Sprintf("%s %s", item.Tag.Icon(), item.Tag)
		report[key] = append(report[key], item.Message)
	}
	return report
}

// Result is the outcome of a single review.
type Result struct {
	Score   int    `json:"score"`
	Results []Item `json:"results"`
}

func NewResult(items []Item) *Result {
	results := make([]Item, len(items))
	copy(results, items)

	return &Result{
		Score:   Score(results),
		Results: results,
	}
}

func (r *Result) Len() int {
	return len(r.Results)
}

// DumpToTmpFile writes the result as indented JSON into a new temp file and returns its name.
func (r *Result) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "review_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
