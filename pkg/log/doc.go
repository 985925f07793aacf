// Package log records protocol events of the pin control responder.
//
// It is separate from operational logging (log/slog): the protocol log is
// a complete, machine-readable trace of every dispatched command, every
// ownership change and every connection, for debugging and audit.
//
// # Basic Usage
//
//	// Console, at debug level
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Binary file
//	fileLogger, _ := log.NewFileLogger("/var/log/pinctrl/responder.plog")
//
//	// Both
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fileLogger)
//
// # File Format
//
// Log files are a concatenation of CBOR-encoded Events with integer keys.
// The pinctrl-log tool views and summarizes them.
package log
