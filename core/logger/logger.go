package logger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rayIDKey struct{}

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// ContextWithRayID returns a context carrying the ray id. An empty id is
// replaced by a new random one.
func ContextWithRayID(ctx context.Context, rayID string) context.Context {
	if rayID == "" {
		rayID = uuid.NewString()
	}
	return context.WithValue(ctx, rayIDKey{}, rayID)
}

// RayIDFromContext returns the ray id stored in ctx, if any.
func RayIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	rid, ok := ctx.Value(rayIDKey{}).(string)
	return rid, ok && rid != ""
}

// WithRayID returns a logger with the ray_id field set from the context.
func WithRayID(l *zap.Logger, ctx context.Context) *zap.Logger {
	if rid, ok := RayIDFromContext(ctx); ok {
		return l.With(zap.String("ray_id", rid))
	}
	return l
}
