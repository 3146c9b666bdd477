package logger

import (
	"github.com/nodehive/nodehive/internal/config"
	"github.com/nodehive/nodehive/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger to provide logging functionality
type Logger struct {
	*zap.SugaredLogger
}

// Global logger for convenience
var L *Logger

// NewLogger creates and returns a new Logger instance honouring the
// configured log level
func NewLogger(cfg *config.Configuration) (*Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Logging.Level == types.LogLevelDebug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

// GetLogger returns the global logger, initializing a development logger on
// first use. Dependency injection is still the preferred way to obtain a
// logger; the global exists for scripts and tests.
func GetLogger() *Logger {
	if L == nil {
		zapLogger, _ := zap.NewDevelopment()
		L = &Logger{SugaredLogger: zapLogger.Sugar()}
	}
	return L
}
