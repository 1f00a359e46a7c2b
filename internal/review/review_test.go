package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-reviewer/internal/checks"
	"github.com/spigell/resume-reviewer/internal/extract"
	"github.com/spigell/resume-reviewer/internal/feedback"
)

type stubText struct {
	text string
	err  error
}

func (s stubText) Text(context.Context, string) (string, error) { return s.text, s.err }

type stubLayout struct {
	layout *extract.Layout
	err    error
}

func (s stubLayout) Layout(context.Context, string) (*extract.Layout, error) { return s.layout, s.err }

var goodResume = `Jane Doe
Jane.Doe@Example.Com | 555-123-4567

Experience
- Cut build times by 40% across 12 services.
- Mentored 5+ engineers.

Projects
- Built an open source scheduler used by 3 companies.

Skills
- Go, Kubernetes, PostgreSQL, Terraform, Prometheus, Grafana, Linux, Bash.
`

func consistentLayout() *extract.Layout {
	return extract.NewLayout([]extract.Sample{
		{FontName: "Helvetica", FontSize: 11, LeftOffset: 72},
		{FontName: "Helvetica-Bold", FontSize: 14, LeftOffset: 72},
	}, []string{"Jane Doe", "- one", "- two"})
}

func TestReviewCleanResume(t *testing.T) {
	t.Parallel()

	require.GreaterOrEqual(t, len(goodResume), checks.MinTextLength)

	r := New(Config{}, Deps{
		Text:   stubText{text: goodResume},
		Layout: stubLayout{layout: consistentLayout()},
	})

	result, err := r.Review(context.Background(), "resume.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, []string{
		"🟢 Consider quantifying achievements with numbers or percentages: 'Experience'",
		"🟢 Consider quantifying achievements with numbers or percentages: 'Projects'",
		"✅ No major grammar issues found.",
		"✅ Formatting looks consistent.",
	}, rendered(result.Results))
}

func TestReviewScoresItems(t *testing.T) {
	t.Parallel()

	battery := []checks.Check{
		checks.NewCheck("critical", func(*checks.Input) []feedback.Item {
			return []feedback.Item{feedback.New(feedback.TagCritical, "c")}
		}),
		checks.NewCheck("minor", func(*checks.Input) []feedback.Item {
			return []feedback.Item{feedback.New(feedback.TagMinor, "m"), feedback.New(feedback.TagMajor, "j")}
		}),
	}

	r := New(Config{Checks: battery}, Deps{
		Text:   stubText{text: "text"},
		Layout: stubLayout{layout: consistentLayout()},
	})

	result, err := r.Review(context.Background(), "resume.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, 73, result.Score)
	assert.Equal(t, []string{"🔴 c", "🟡 m", "🟠 j"}, rendered(result.Results))
}

func TestReviewUnreadable(t *testing.T) {
	t.Parallel()

	cause := &extract.ExtractionError{Op: "open pdf", Path: "x.pdf", Cause: errors.New("malformed")}

	tests := []struct {
		name string
		text stubText
	}{
		{name: "extraction error", text: stubText{err: cause}},
		{name: "blank text", text: stubText{text: " \n\t "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorded := 0
			r := New(Config{}, Deps{
				Text:     tt.text,
				Layout:   stubLayout{layout: consistentLayout()},
				Recorder: RecorderFunc(func(Event) { recorded++ }),
			})

			result, err := r.Review(context.Background(), "x.pdf", "")
			require.ErrorIs(t, err, ErrUnreadable)
			assert.Nil(t, result)
			assert.Zero(t, recorded)
		})
	}

	r := New(Config{}, Deps{Text: stubText{err: cause}, Layout: stubLayout{}})
	_, err := r.Review(context.Background(), "x.pdf", "")

	var extractionErr *extract.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "open pdf", extractionErr.Op)
}

func TestReviewLayoutFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	r := New(Config{}, Deps{
		Text:   stubText{text: goodResume},
		Layout: stubLayout{err: errors.New("broken content stream")},
		Logger: zap.New(core),
	})

	result, err := r.Review(context.Background(), "resume.pdf", "")
	require.NoError(t, err)

	last := result.Results[len(result.Results)-1]
	assert.Equal(t, feedback.TagFailure, last.Tag)
	assert.Equal(t, "Could not analyze formatting", last.Message)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, 1, logs.FilterMessage("layout extraction failed").Len())
}

func TestReviewIsIdempotent(t *testing.T) {
	t.Parallel()

	text := strings.ReplaceAll(goodResume, "Projects", "Portfolio") + "\nwork on things."
	deps := Deps{
		Text:   stubText{text: text},
		Layout: stubLayout{layout: consistentLayout()},
	}

	for _, concurrent := range []bool{false, true} {
		r := New(Config{Concurrent: concurrent}, deps)

		first, err := r.Review(context.Background(), "resume.pdf", "Go developer")
		require.NoError(t, err)
		second, err := r.Review(context.Background(), "resume.pdf", "Go developer")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	}
}

func TestReviewKeywordMatchOnlyWithJobDescription(t *testing.T) {
	t.Parallel()

	r := New(Config{}, Deps{
		Text:   stubText{text: goodResume},
		Layout: stubLayout{layout: consistentLayout()},
	})

	without, err := r.Review(context.Background(), "resume.pdf", "")
	require.NoError(t, err)
	with, err := r.Review(context.Background(), "resume.pdf", "Senior Go engineer, Kubernetes")
	require.NoError(t, err)

	assert.Equal(t, without.Len()+1, with.Len())
	assert.Equal(t, without.Score, with.Score)
}

func TestReviewCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{}, Deps{
		Text:   stubText{err: context.Canceled},
		Layout: stubLayout{},
	})

	_, err := r.Review(ctx, "resume.pdf", "")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnreadable)
}

func TestReviewRecordsEvent(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	var events []Event

	r := New(Config{}, Deps{
		Text:   stubText{text: "too short"},
		Layout: stubLayout{layout: consistentLayout()},
		Recorder: RecorderFunc(func(e Event) {
			events = append(events, e)
			NewZapRecorder(zap.New(core)).Record(e)
		}),
	})

	result, err := r.Review(context.Background(), "/tmp/resume.pdf", "")
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "/tmp/resume.pdf", events[0].File)
	assert.Same(t, result, events[0].Result)
	assert.Len(t, events[0].Steps, len(checks.Default()))

	finished := logs.FilterMessage("review finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(result.Score), finished[0].ContextMap()["score"])
	assert.Equal(t, result.Len()+1, logs.Len())
}

func rendered(items []feedback.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}
