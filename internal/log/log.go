// Package log is the logging facade for the whole pipeline. It wraps a zap
// SugaredLogger so components log through one place and the CLI decides
// verbosity once.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the process logger. Verbose enables the development config
// with debug output; otherwise only warnings and errors reach the console.
func Init(verbose bool) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("logger init: " + err.Error())
	}
	sugar = logger.Sugar()
}

func Debug(args ...any) { sugar.Debug(args...) }

func Debugf(template string, args ...any) { sugar.Debugf(template, args...) }

func Info(args ...any) { sugar.Info(args...) }

func Infof(template string, args ...any) { sugar.Infof(template, args...) }

func Warn(args ...any) { sugar.Warn(args...) }

func Warnf(template string, args ...any) { sugar.Warnf(template, args...) }

func Error(args ...any) { sugar.Error(args...) }

func Errorf(template string, args ...any) { sugar.Errorf(template, args...) }
