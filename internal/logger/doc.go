// Package logger wraps zap for the formula updater.
//
// It keeps one global sugared logger with a console encoder that sends
// informational output to stdout and warnings and errors to stderr. The
// logger travels through context.Context (ToContext, FromContext, WithName,
// WithKV), so every stage of a run logs under the same scoped name.
package logger
