package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type (
	ConsoleConfig struct {
		Level string `yaml:"level" validate:"required,oneof=none normal debug"`
	}

	FileConfig struct {
		Destination string `yaml:"destination" validate:"omitempty,filepath"`
		Level       string `yaml:"level" validate:"required,oneof=normal debug"`
		Mode        string `yaml:"mode" validate:"required,oneof=append overwrite"`
	}

	LoggingConfig struct {
		Console ConsoleConfig `yaml:"console"`
		File    FileConfig    `yaml:"file"`
	}
)

func consoleLevel(name string) zapcore.LevelEnabler {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// Prepare builds program logger from configuration: console output always
// goes to stderr (unless disabled), file output is added when destination
// is set.
func (c *LoggingConfig) Prepare() (*zap.Logger, error) {
	var cores []zapcore.Core

	if c.Console.Level != "none" {
		ec := zap.NewDevelopmentEncoderConfig()
		if term.IsTerminal(int(os.Stderr.Fd())) {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(ec),
			zapcore.Lock(os.Stderr),
			consoleLevel(c.Console.Level)))
	}

	if len(c.File.Destination) > 0 {
		flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if c.File.Mode == "overwrite" {
			flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		}
		f, err := os.OpenFile(c.File.Destination, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file '%s': %w", c.File.Destination, err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.Lock(f),
			consoleLevel(c.File.Level)))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
