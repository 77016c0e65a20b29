package log_drivers

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleLogDriver is the human-facing driver for interactive cli use.
type ConsoleLogDriver struct {
	zapLogger *zap.Logger
}

func NewConsoleLogDriver() *ConsoleLogDriver {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv())
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("error instantiating console logger: " + err.Error())
	}

	return &ConsoleLogDriver{
		zapLogger: zapLogger,
	}
}

func (s *ConsoleLogDriver) Info(msg string, fields ...zapcore.Field) {
	s.zapLogger.Info(msg, fields...)
}

func (s *ConsoleLogDriver) Debug(msg string, fields ...zapcore.Field) {
	s.zapLogger.Debug(msg, fields...)
}

func (s *ConsoleLogDriver) Error(msg string, fields ...zapcore.Field) {
	s.zapLogger.Error(msg, fields...)
}

func (s *ConsoleLogDriver) Warn(msg string, fields ...zapcore.Field) {
	s.zapLogger.Warn(msg, fields...)
}
