package logger

import (
	"os"

	config "github.com/inference-gateway/triage/config"
	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

// Init initializes the global logger. Output always goes to stderr so the
// stdio tool transport keeps stdout for itself.
func Init(verbose bool, cfg *config.Config) {
	level := zapcore.WarnLevel
	if verbose || (cfg != nil && cfg.Logging.Debug) {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg != nil && cfg.Logging.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	l := zap.New(core)

	zap.ReplaceGlobals(l)
	sugar = l.Sugar()
}

// Close flushes any buffered log entries
func Close() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

// Info logs an info message with key/value pairs
func Info(msg string, args ...any) {
	if sugar != nil {
		sugar.Infow(msg, args...)
	}
}

// Warn logs a warning message with key/value pairs
func Warn(msg string, args ...any) {
	if sugar != nil {
		sugar.Warnw(msg, args...)
	}
}
