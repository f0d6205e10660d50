// Package debug provides optional file-based debug logging.
//
// When the TERMEVENT_DEBUG environment variable is set to a file path, debug
// messages are appended to that file. Otherwise, logging is a no-op. Nothing
// is ever written to the terminal itself, since the terminal is the input
// device being decoded.
package debug
