// Package github is a minimal client for the GitHub releases REST API.
//
// Only the "latest release" endpoint is used. The client never downloads
// asset bytes: asset checksums come from the digest field that GitHub
// reports for every uploaded asset.
package github
