package review

import (
	"go.uber.org/zap"

	"github.com/spigell/resume-reviewer/internal/checks"
	"github.com/spigell/resume-reviewer/internal/feedback"
	"github.com/spigell/resume-reviewer/internal/logger"
)

// Event summarizes a finished review.
type Event struct {
	File   string
	Result *feedback.Result
	Steps  []checks.Step
}

// Recorder receives a summary of every finished review.
type Recorder interface {
	Record(e Event)
}

// NopRecorder drops all events.
type NopRecorder struct{}

func (NopRecorder) Record(Event) {}

// RecorderFunc adapts a function to a Recorder.
type RecorderFunc func(Event)

func (f RecorderFunc) Record(e Event) { f(e) }

type zapRecorder struct {
	logger *zap.Logger
}

// NewZapRecorder returns a Recorder logging every item and the final score.
func NewZapRecorder(l *zap.Logger) Recorder {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapRecorder{logger: l}
}

func (r *zapRecorder) Record(e Event) {
	if e.Result == nil {
		return
	}

	log := logger.WithFields(r.logger, logger.ReviewFields(e.File, "")...)

	for _, step := range e.Steps {
		if step.Err != nil {
			log.Warn("check skipped", zap.String(logger.FieldCheck, step.Name), zap.Error(step.Err))
		}
	}

	for _, item := range e.Result.Results {
		log.Info(item.String(), zap.String("severity", item.Tag.String()))
	}

	log.Info("review finished", logger.ScoreFields(e.Result.Score, e.Result.Len())...)
}
