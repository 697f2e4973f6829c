package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"livefeed/internal/config"
)

// New returns a development logger, or in release mode a JSON logger writing
// to stdout and a rotated file.
func New(cfg *config.Config) (*zap.Logger, error) {
	level := zap.InfoLevel
	if cfg.LogLevel != "" {
		parsed, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	if os.Getenv("GIN_MODE") != "release" {
		dev := zap.NewDevelopmentConfig()
		if cfg.LogLevel != "" {
			dev.Level = zap.NewAtomicLevelAt(level)
		}
		return dev.Build()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, err
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(
			zapcore.AddSync(os.Stdout),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    50,
				MaxBackups: 5,
				MaxAge:     14,
				Compress:   true,
			}),
		),
		level,
	)
	return zap.New(core, zap.Fields(zap.String("service", cfg.OTELServiceName))), nil
}
