// Package logger provides structured logging for tradeflow services
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("engine")
//	log.Info("execution completed", logger.Fields("nodes", 4))
package logger
