// Package updater regenerates a formula from the latest GitHub release.
//
// A run loads the project configuration, checks the template exists, fetches
// the latest release, resolves every configured asset and its SHA-256 digest,
// renders the template and writes the formula. Every step is fatal, and
// nothing is written unless all of them succeed.
package updater
