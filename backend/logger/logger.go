package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// New builds a JSON logger writing to stdout and, when Filename is set,
// to a rotating log file.
func New(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer(cfg),
		level,
	)

	return zap.New(core, zap.AddCaller()), nil
}

func writer(cfg Config) zapcore.WriteSyncer {
	stdout := zapcore.Lock(zapcore.AddSync(os.Stdout))
	if cfg.Filename == "" {
		return stdout
	}

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
	})
	return zapcore.NewMultiWriteSyncer(stdout, file)
}
