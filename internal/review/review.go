// Package review runs a full resume review: extraction, the check battery and scoring.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-reviewer/internal/checks"
	"github.com/spigell/resume-reviewer/internal/extract"
	"github.com/spigell/resume-reviewer/internal/feedback"
	"github.com/spigell/resume-reviewer/internal/logger"
	"github.com/spigell/resume-reviewer/internal/utils"
)

// ErrUnreadable is returned when a file yields no usable text.
var ErrUnreadable = errors.New("resume is unreadable")

const previewLength = 120

// TextExtractor returns the plain text of a document.
type TextExtractor interface {
	Text(ctx context.Context, path string) (string, error)
}

// LayoutExtractor returns the typographic layout of a document.
type LayoutExtractor interface {
	Layout(ctx context.Context, path string) (*extract.Layout, error)
}

// Config contains settings for a Reviewer.
type Config struct {
	Concurrent bool
	// Checks overrides the default battery when set.
	Checks []checks.Check
}

// Deps aggregates the collaborators of a Reviewer. Nil fields get defaults.
type Deps struct {
	Text     TextExtractor
	Layout   LayoutExtractor
	Recorder Recorder
	Logger   *zap.Logger
}

type Reviewer struct {
	cfg  Config
	deps Deps
}

func New(cfg Config, deps Deps) *Reviewer {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if deps.Text == nil || deps.Layout == nil {
		pdf := extract.New(deps.Logger)
		if deps.Text == nil {
			deps.Text = pdf
		}
		if deps.Layout == nil {
			deps.Layout = pdf
		}
	}

	if deps.Recorder == nil {
		deps.Recorder = NopRecorder{}
	}

	if len(cfg.Checks) == 0 {
		cfg.Checks = checks.Default()
	}

	return &Reviewer{cfg: cfg, deps: deps}
}

// Review analyzes the file at path, optionally against a job description.
// It fails with ErrUnreadable when no text can be extracted; a layout failure only
// degrades the formatting check.
func (r *Reviewer) Review(ctx context.Context, path, jobDesc string) (*feedback.Result, error) {
	log := logger.WithReviewFields(r.deps.Logger, path, "")

	text, err := r.deps.Text.Text(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text layer in %s", ErrUnreadable, path)
	}

	log.Debug("text extracted",
		zap.Int("chars", utf8.RuneCountInString(text)),
		zap.String("preview", utils.Preview(text, previewLength)),
	)

	layout, layoutErr := r.deps.Layout.Layout(ctx, path)
	if layoutErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("layout extraction failed", zap.Error(layoutErr))
	}

	in := &checks.Input{
		Text:           text,
		JobDescription: jobDesc,
		Layout:         layout,
		LayoutErr:      layoutErr,
	}

	items, steps, err := checks.Run(ctx, in, r.cfg.Checks, checks.Options{
		Concurrent: r.cfg.Concurrent,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("running checks: %w", err)
	}

	result := feedback.NewResult(items)

	r.deps.Recorder.Record(Event{
		File:   path,
		Result: result,
		Steps:  steps,
	})

	return result, nil
}
