package log

import (
	"github.com/project/catalog/pkg/logger"
	"go.uber.org/zap"
)

func InfoListAuthors(l *zap.Logger, msg string, traceID string, count ...int) {
	fields := []zap.Field{
		zap.String("trace_id", traceID),
		zap.String("action", ListAuthors),
	}
	if len(count) > 0 {
		fields = append(fields, zap.Int("count", count[0]))
	}
	logger.MakeInfo(l, msg, fields...)
}

func ErrorListAuthors(l *zap.Logger, err error, msg string, traceID string) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.Error(err),
		zap.String("action", ListAuthors))
}

func InfoCreateAuthor(l *zap.Logger, msg string, traceID, authorName string, id ...int64) {
	if len(id) == 0 {
		logger.MakeInfo(l, msg,
			zap.String("trace_id", traceID),
			zap.String("author_name", authorName),
			zap.String("action", CreateAuthor))
		return
	}
	logger.MakeInfo(l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("author_id", id[0]),
		zap.String("author_name", authorName),
		zap.String("action", CreateAuthor))
}

func ErrorCreateAuthor(l *zap.Logger, err error, msg string, traceID, authorName string) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.String("author_name", authorName),
		zap.Error(err),
		zap.String("action", CreateAuthor))
}

func InfoUpdateAuthor(l *zap.Logger, msg string, traceID string, authorID int64, newName string) {
	logger.MakeInfo(l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("author_id", authorID),
		zap.String("author_name", newName),
		zap.String("action", UpdateAuthor))
}

func ErrorUpdateAuthor(l *zap.Logger, err error, msg string, traceID string, authorID int64) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("author_id", authorID),
		zap.Error(err),
		zap.String("action", UpdateAuthor))
}

func InfoAuthor(l *zap.Logger, action Action, msg string, traceID string, authorID int64) {
	logger.MakeInfo(l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("author_id", authorID),
		zap.String("action", action))
}

// ErrorAuthor covers the author actions that only carry an identity:
// GetAuthor, DeleteAuthor and GetAuthorBooks.
func ErrorAuthor(l *zap.Logger, action Action, err error, msg string, traceID string, authorID int64) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("author_id", authorID),
		zap.Error(err),
		zap.String("action", action))
}
