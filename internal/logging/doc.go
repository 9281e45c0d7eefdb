// Package logging provides structured logging for lyngctl.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. It provides both general logging functions
// and specialized functions for protocol-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (raw protocol lines, throttling, classification)
//   - Info: Normal operations (connections, state changes)
//   - Warn: Non-fatal issues (reply timeouts, unexpected extra lines)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device connected",
//	    zap.String("endpoint", "socket://192.168.1.50:84"),
//	    zap.String("model", "MP-60"),
//	)
//
// # Protocol Line Logging
//
// Lines on the wire are logged at Debug with control characters escaped,
// so the CR terminators are visible:
//
//	logging.LogLine(endpoint, "sent", "!VOL?\r")
//	logging.LogLine(endpoint, "received", "!VOL(-350)")
//
// # Configuration
//
// Logging is silent by default. CLI commands initialize from the
// environment at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Set LYNGCTL_LOG_LEVEL=debug to see the full wire traffic.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
