package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Field keys shared by every component that logs about an interview.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldSession  = "session_id"
	FieldStage    = "stage"
)

// StringField is a key/value pair that is only logged when both sides are set.
type StringField struct {
	Key   string
	Value string
}

// StringFields turns pairs into zap fields. Keys and values are trimmed, and
// pairs with a blank side are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key, value := strings.TrimSpace(field.Key), strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields describes the text generator behind a log line.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// InterviewFields places a log line within a session and, optionally, one of
// its workflow stages.
func InterviewFields(sessionID, stage string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSession, Value: sessionID},
		StringField{Key: FieldStage, Value: stage},
	)
}

// WithSession scopes the logger to a single interview session.
func WithSession(logger *zap.Logger, sessionID string) *zap.Logger {
	return WithFields(logger, InterviewFields(sessionID, "")...)
}

// WithStage scopes the logger to one stage of an interview session.
func WithStage(logger *zap.Logger, sessionID, stage string) *zap.Logger {
	return WithFields(logger, InterviewFields(sessionID, stage)...)
}
