package logging

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vanshika/movieshelf/backend/internal/config"
)

// New builds a zap.Logger writing to stdout according to the logging config.
func New(cfg config.LoggingConfig) *zap.Logger {
	colored := cfg.Colored && isatty.IsTerminal(os.Stdout.Fd())
	return NewWithSink(cfg, zapcore.Lock(os.Stdout), colored)
}

// NewWithSink builds a logger writing to sink. Color is only applied to the
// text format.
func NewWithSink(cfg config.LoggingConfig, sink zapcore.WriteSyncer, colored bool) *zap.Logger {
	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		if colored {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(parseLevel(cfg.Level)))

	var opts []zap.Option
	if cfg.IncludeCaller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
