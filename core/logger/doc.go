// Package logger builds slog loggers for the application and provides
// attribute helpers for consistent keys.
//
//	log := logger.New(logger.WithDevelopment(cfg.AppName))
//	log.Info("server starting", logger.Component("server"))
//
// Production uses JSON output:
//
//	log := logger.New(logger.WithProduction(cfg.AppName))
//
// Request-scoped values can be attached to every *Context call with
// WithContextExtractors.
package logger
