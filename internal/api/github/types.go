package github

// Release is the subset of the GitHub release payload the updater reads.
type Release struct {
	// TagName is the git tag of the release, e.g. "v0.5.2".
	TagName string `json:"tag_name"`
	// Name is the human-readable release title.
	Name string `json:"name"`
	// HTMLURL points to the release page.
	HTMLURL string `json:"html_url"`
	// Assets lists uploaded files in the order GitHub returns them.
	Assets []Asset `json:"assets"`
}

// Asset is a single file attached to a release.
type Asset struct {
	// Name is the uploaded filename.
	Name string `json:"name"`
	// BrowserDownloadURL is the public download link.
	BrowserDownloadURL string `json:"browser_download_url"`
	// Digest is "<algorithm>:<hex>", e.g. "sha256:4e9c...". Older assets have none.
	Digest string `json:"digest,omitempty"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
}
