package log

import (
	"github.com/project/catalog/pkg/logger"
	"go.uber.org/zap"
)

func InfoListBooks(l *zap.Logger, msg string, traceID string, count ...int) {
	fields := []zap.Field{
		zap.String("trace_id", traceID),
		zap.String("action", ListBooks),
	}
	if len(count) > 0 {
		fields = append(fields, zap.Int("count", count[0]))
	}
	logger.MakeInfo(l, msg, fields...)
}

func ErrorListBooks(l *zap.Logger, err error, msg string, traceID string) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.Error(err),
		zap.String("action", ListBooks))
}

func InfoCreateBook(l *zap.Logger, msg string, traceID, title string, authorID int64, id ...int64) {
	if len(id) == 0 {
		logger.MakeInfo(l, msg,
			zap.String("trace_id", traceID),
			zap.String("book_title", title),
			zap.Int64("author_id", authorID),
			zap.String("action", CreateBook))
		return
	}
	logger.MakeInfo(l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("book_id", id[0]),
		zap.String("book_title", title),
		zap.Int64("author_id", authorID),
		zap.String("action", CreateBook))
}

func ErrorCreateBook(l *zap.Logger, err error, msg string, traceID, title string, authorID int64) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.String("book_title", title),
		zap.Int64("author_id", authorID),
		zap.Error(err),
		zap.String("action", CreateBook))
}

func InfoUpdateBook(l *zap.Logger, msg string, traceID string, id int64, newTitle string, newAuthorID int64) {
	logger.MakeInfo(l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("book_id", id),
		zap.String("book_title", newTitle),
		zap.Int64("author_id", newAuthorID),
		zap.String("action", UpdateBook))
}

func ErrorUpdateBook(l *zap.Logger, err error, msg string, traceID string, id int64) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("book_id", id),
		zap.Error(err),
		zap.String("action", UpdateBook))
}

func InfoBook(l *zap.Logger, action Action, msg string, traceID string, bookID int64) {
	logger.MakeInfo(l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("book_id", bookID),
		zap.String("action", action))
}

func ErrorBook(l *zap.Logger, action Action, err error, msg string, traceID string, bookID int64) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.Int64("book_id", bookID),
		zap.Error(err),
		zap.String("action", action))
}
