// Package logger provides structured logging using Zap.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// "production" selects the JSON encoder, anything else the console encoder.
// LOG_LEVEL, when set to a valid zap level, overrides the default level.
func Init(env string) {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		if env == "production" {
			cfg = zap.NewProductionConfig()
		}
		if env == "test" {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}

		if raw := os.Getenv("LOG_LEVEL"); raw != "" {
			if lvl, err := zapcore.ParseLevel(raw); err == nil {
				cfg.Level = zap.NewAtomicLevelAt(lvl)
			}
		}

		base, err := cfg.Build()
		if err != nil {
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

// Get returns the global sugared logger, initializing a development logger on first use.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Named returns a child logger scoped to a component.
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
