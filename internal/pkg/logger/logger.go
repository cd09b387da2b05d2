package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

type Config struct {
	Encoding string `envconfig:"ENCODING" default:"console"`
	Level    string `envconfig:"LEVEL" default:"info"`
	// AddSource путь к файлу и строка в каждой записи
	AddSource bool `envconfig:"ADD_SOURCE" default:"false"`
}

// New json пишет в stdout, console в stderr. Неверный конфиг - паника на старте.
func New(app string, cfg *Config) *slog.Logger {
	var out io.Writer = os.Stderr
	if cfg != nil && strings.EqualFold(cfg.Encoding, EncodingJSON) {
		out = os.Stdout
	}

	log, err := newLogger(app, cfg, out)
	if err != nil {
		panic(fmt.Errorf("invalid logger config: %w", err))
	}
	return log
}

func newLogger(app string, cfg *Config, out io.Writer) (*slog.Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Encoding) {
	case EncodingJSON:
		handler = slog.NewJSONHandler(out, opts)
	case EncodingConsole, "":
		handler = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("encoding %s is not supported", cfg.Encoding)
	}

	return slog.New(handler).With("app", app), nil
}

// ParseLevel пустая строка - info
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("level %s is not supported", level)
	}
}

// SetDefault логгер для кода, который пишет через slog.Default (gin, сторонние либы)
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
