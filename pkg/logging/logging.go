package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level      string // debug, info, warn, error
	Production bool
	// Dir receives combined.log and error.log in production. Empty disables files.
	Dir string
}

// New builds the process logger. Development logs go to stdout through the
// console encoder. Production logs are JSON, written to stdout plus
// combined.log (every level) and error.log (error and above).
func New(cfg Config) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	if !cfg.Production {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), level)
		return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), func() {}, nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	cleanup := func() {}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		combined, closeCombined, err := zap.Open(filepath.Join(cfg.Dir, "combined.log"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open combined.log: %w", err)
		}
		errorsOnly, closeErrors, err := zap.Open(filepath.Join(cfg.Dir, "error.log"))
		if err != nil {
			closeCombined()
			return nil, nil, fmt.Errorf("failed to open error.log: %w", err)
		}
		cores = append(cores,
			zapcore.NewCore(encoder, combined, level),
			zapcore.NewCore(encoder, errorsOnly, zapcore.ErrorLevel),
		)
		cleanup = func() {
			closeCombined()
			closeErrors()
		}
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger.With(zap.String("service", "inventrack")), cleanup, nil
}
