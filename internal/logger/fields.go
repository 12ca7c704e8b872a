package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldUserID is the structured log field key for the signed-in user id.
	FieldUserID = "user_id"
	// FieldUserEmail is the structured log field key for the signed-in user email.
	FieldUserEmail = "user_email"
	// FieldAPIURL is the structured log field key for the backend base URL.
	FieldAPIURL = "api_url"
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

// WithFields attaches the fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// UserFields describes the signed-in user. Empty values are skipped.
func UserFields(id, email string) []zap.Field {
	return StringFields(
		StringField{Key: FieldUserID, Value: id},
		StringField{Key: FieldUserEmail, Value: email},
	)
}

// WithUser attaches the user fields to the logger.
func WithUser(logger *zap.Logger, id, email string) *zap.Logger {
	return WithFields(logger, UserFields(id, email)...)
}
