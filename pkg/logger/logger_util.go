package logger

import "go.uber.org/zap"

// CheckError logs msg when err is not nil and reports whether it was.
// A nil logger disables the output but not the check.
func CheckError(err error, logger *zap.Logger, msg string, fields ...zap.Field) bool {
	if err == nil {
		return false
	}
	if logger != nil {
		logger.Error(msg, fields...)
	}
	return true
}

func MakeInfo(logger *zap.Logger, msg string, fields ...zap.Field) {
	if logger != nil {
		logger.Info(msg, fields...)
	}
}

func MakeWarn(logger *zap.Logger, msg string, fields ...zap.Field) {
	if logger != nil {
		logger.Warn(msg, fields...)
	}
}

// Enabled returns l when on is set, nil otherwise. Layers receive a nil
// logger when their logging is switched off in the config.
func Enabled(l *zap.Logger, on bool) *zap.Logger {
	if !on {
		return nil
	}
	return l
}
