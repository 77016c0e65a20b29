package log_drivers

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/montoya-e/laked/internal/utils/env"
)

type StructuredLogDriver struct {
	zapLogger *zap.Logger
}

func NewStructuredLogDriver() *StructuredLogDriver {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv())

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("error instantiating structured logger: " + err.Error())
	}

	return &StructuredLogDriver{
		zapLogger: zapLogger,
	}
}

func levelFromEnv() zapcore.Level {
	switch env.CanGet("LOG_LEVEL") {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (s *StructuredLogDriver) Info(msg string, fields ...zapcore.Field) {
	s.zapLogger.Info(msg, fields...)
}

func (s *StructuredLogDriver) Debug(msg string, fields ...zapcore.Field) {
	s.zapLogger.Debug(msg, fields...)
}

func (s *StructuredLogDriver) Error(msg string, fields ...zapcore.Field) {
	s.zapLogger.Error(msg, fields...)
}

func (s *StructuredLogDriver) Warn(msg string, fields ...zapcore.Field) {
	s.zapLogger.Warn(msg, fields...)
}
