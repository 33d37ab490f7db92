// Package logger provides the logging abstraction used across the code
// runner service, with console and rotating-file implementations selected
// through LoggerSettings.
package logger

// Logger is the leveled logging interface handed to every service,
// connector and executor.
type Logger interface {
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})
}
