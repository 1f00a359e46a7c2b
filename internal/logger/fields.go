package logger

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldFile is the structured log field key for the reviewed file.
	FieldFile = "file"
	// FieldCheck is the structured log field key for the check name.
	FieldCheck = "check"
	// FieldScore is the structured log field key for a review score.
	FieldScore = "score"
	// FieldItems is the structured log field key for the number of feedback items.
	FieldItems = "items"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a no-op
// logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ReviewFields returns the fields identifying a review and, optionally, one of its checks.
// Only the base name of file is logged so upload directories stay out of the logs.
func ReviewFields(file, check string) []zap.Field {
	if file = strings.TrimSpace(file); file != "" {
		file = filepath.Base(file)
	}

	return StringFields(
		StringField{Key: FieldFile, Value: file},
		StringField{Key: FieldCheck, Value: check},
	)
}

// WithReviewFields attaches the review fields to the provided logger.
func WithReviewFields(logger *zap.Logger, file, check string) *zap.Logger {
	return WithFields(logger, ReviewFields(file, check)...)
}

// ScoreFields describes a finished review.
func ScoreFields(score, items int) []zap.Field {
	return []zap.Field{zap.Int(FieldScore, score), zap.Int(FieldItems, items)}
}
