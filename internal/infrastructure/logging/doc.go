// Package logging provides structured logging for OpsDesk.
//
// It wraps log/slog with level parsing, text/JSON handler selection and
// default service fields. Logs go to stderr by default because stdout is
// reserved for the interactive console.
package logging
