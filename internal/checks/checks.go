// Package checks implements the fixed battery of resume heuristics.
package checks

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-reviewer/internal/extract"
	"github.com/spigell/resume-reviewer/internal/feedback"
)

// Input is everything a check may look at. It is read-only for checks.
type Input struct {
	Text           string
	JobDescription string
	Layout         *extract.Layout
	// LayoutErr is set when layout extraction failed.
	LayoutErr error
}

// Check represents a single heuristic in the battery.
type Check interface {
	Name() string
	Run(in *Input) []feedback.Item
}

// Step describes the result of executing a check.
type Step struct {
	Name      string
	Items     int
	Deduction int
	Err       error
}

// Options controls how the battery is executed.
type Options struct {
	Concurrent bool
	Logger     *zap.Logger
}

type checkFunc struct {
	name string
	fn   func(in *Input) []feedback.Item
}

func (c checkFunc) Name() string { return c.name }

func (c checkFunc) Run(in *Input) []feedback.Item { return c.fn(in) }

// NewCheck wraps a function into a named Check.
func NewCheck(name string, fn func(in *Input) []feedback.Item) Check {
	return checkFunc{name: name, fn: fn}
}

// Default returns the battery in its fixed execution order.
func Default() []Check {
	return []Check{
		NewCheck("bullet_usage", func(in *Input) []feedback.Item { return BulletUsage(in.Text) }),
		NewCheck("projects", func(in *Input) []feedback.Item { return Projects(in.Text) }),
		NewCheck("contact", func(in *Input) []feedback.Item { return Contact(in.Text) }),
		NewCheck("heading_casing", func(in *Input) []feedback.Item { return HeadingCasing(in.Text) }),
		NewCheck("achievements", func(in *Input) []feedback.Item { return Achievements(in.Text) }),
		NewCheck("compatibility", func(in *Input) []feedback.Item { return Compatibility(in.Text) }),
		NewCheck("keyword_match", func(in *Input) []feedback.Item { return KeywordMatch(in.Text, in.JobDescription) }),
		NewCheck("grammar", func(in *Input) []feedback.Item { return Grammar(in.Text) }),
		NewCheck("formatting", func(in *Input) []feedback.Item { return Formatting(in.Layout, in.LayoutErr) }),
	}
}

// Run executes the checks and returns their items flattened in battery order.
// A check that panics contributes no items; the others still run.
func Run(ctx context.Context, in *Input, battery []Check, opts Options) ([]feedback.Item, []Step, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	slots := make([][]feedback.Item, len(battery))
	steps := make([]Step, len(battery))

	if opts.Concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for idx, check := range battery {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[idx], steps[idx] = runOne(check, in)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for idx, check := range battery {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			slots[idx], steps[idx] = runOne(check, in)
		}
	}

	var items []feedback.Item
	for idx, step := range steps {
		if step.Err != nil {
			logger.Warn("check failed", zap.String("name", step.Name), zap.Error(step.Err))
			continue
		}

		logger.Debug("check step",
			zap.String("name", step.Name),
			zap.Int("items", step.Items),
			zap.Int("deduction", step.Deduction),
		)
		items = append(items, slots[idx]...)
	}

	return items, steps, nil
}

func runOne(check Check, in *Input) (items []feedback.Item, step Step) {
	step.Name = check.Name()

	defer func() {
		if r := recover(); r != nil {
			items = nil
			step.Items = 0
			step.Deduction = 0
			step.Err = fmt.Errorf("%s: panic: %v", step.Name, r)
		}
	}()

	items = check.Run(in)
	step.Items = len(items)
	step.Deduction = feedback.Deduction(items)
	return items, step
}
