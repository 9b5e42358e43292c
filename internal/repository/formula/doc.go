// Package formula persists rendered formula files.
//
// Writes go through go-update: the new content is written next to the
// target, verified against its SHA-256 and swapped in with a rename, so a
// failed run never leaves a half-written formula behind.
package formula
