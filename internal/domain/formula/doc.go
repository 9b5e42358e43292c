// Package formula turns a GitHub release into formula template variables.
//
// It strips the tag prefix to obtain the version, expands {NAME} and
// {VERSION} in asset filename patterns, matches them exactly against the
// release assets and extracts the SHA-256 from each asset digest.
package formula
