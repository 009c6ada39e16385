// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for console use, optionally teed to
// a rotating JSON file (lumberjack) that always records debug-level detail.
//
// # Run Correlation
//
// WithRunID attaches a random run_id to the logger so that all entries
// produced by a single export or sync invocation can be grouped together.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//   - File: optional rotating debug log (MaxSizeMB, MaxBackups)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log, runID := logger.WithRunID(log)
//	log.Info("Starting sync", zap.String("file", path))
package logger
