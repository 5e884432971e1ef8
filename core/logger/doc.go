// Package logger provides a structured logging facility based on Zap.
//
// It builds a development or production logger from the log configuration and
// integrates with the Fiber web framework.
//
// # Context Awareness
//
// WithRayID extracts the request id stored by the rayid middleware and attaches it
// to the log entry, so that every log line of a sync request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Sync failed", zap.Error(err))
package logger
