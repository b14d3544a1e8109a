// Package logger provides a structured logging facility based on Zap.
//
// New builds a production (json) or development (console) logger from Config.
//
// # Ray IDs
//
// A ray id correlates every log line of one reconciliation request. Callers
// attach it with ContextWithRayID and the service layer derives a scoped
// logger with WithRayID:
//
//	ctx = logger.ContextWithRayID(ctx, "")
//	l := logger.WithRayID(log, ctx)
//	l.Info("Reconciling part", zap.String("part_number", pn))
package logger
