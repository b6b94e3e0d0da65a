// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in a TOML file and can watch it for edits made
// outside the running process.
package file
