// Package console implements the interactive terminal UI: the top-level
// login/management menu, the per-session module menu assembled from access
// checks, the administration screens, and the thin business module screens.
//
// All input and output run through a Prompter over an io.Reader/io.Writer
// pair, so every flow can be exercised with scripted input in tests.
package console
