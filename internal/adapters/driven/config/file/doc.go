// Package file stores plantap settings as TOML under ~/.plantap/config.toml.
// Writes are atomic: the file is rewritten through a temp file and renamed.
package file
