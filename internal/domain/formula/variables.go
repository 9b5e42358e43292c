package formula

import (
	"fmt"
	"slices"

	"github.com/oshokin/formula-updater/internal/api/github"
)

const (
	// VersionKey holds the release version without the "v" prefix.
	VersionKey = "version"
	// TagKey holds the raw release tag.
	TagKey = "tag"
	// NameKey holds the project short name.
	NameKey = "name"
	// RepoKey holds the "owner/name" repository id.
	RepoKey = "repo"

	urlSuffix    = "_url"
	sha256Suffix = "_sha256"
)

// Variables is the flat render context handed to the template.
type Variables map[string]string

// ResolvedAsset is an asset matched for a pattern key.
type ResolvedAsset struct {
	// Key is the logical name from asset_patterns.
	Key string
	// FileName is the resolved pattern.
	FileName string
	// URL is the asset download URL.
	URL string
	// SHA256 is the hex digest.
	SHA256 string
}

// Input groups what BuildVariables needs from config and release.
type Input struct {
	// RepoID is the "owner/name" repository.
	RepoID string
	// ShortName is the last segment of RepoID.
	ShortName string
	// Patterns maps keys to asset filename patterns.
	Patterns map[string]string
	// Release is the fetched latest release.
	Release *github.Release
}

// ResolveAssets matches every pattern against the release assets, in key order.
// It stops at the first key that cannot be satisfied.
func ResolveAssets(in *Input) ([]ResolvedAsset, error) {
	version := ExtractVersion(in.Release.TagName)
	resolved := ResolvePatterns(in.Patterns, in.ShortName, version)

	keys := make([]string, 0, len(resolved))
	for key := range resolved {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	assets := make([]ResolvedAsset, 0, len(keys))

	for _, key := range keys {
		fileName := resolved[key]

		asset, err := FindAsset(in.Release.Assets, fileName)
		if err != nil {
			return nil, err
		}

		hash, err := ExtractSHA256(asset.Digest)
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", fileName, err)
		}

		assets = append(assets, ResolvedAsset{
			Key:      key,
			FileName: fileName,
			URL:      asset.BrowserDownloadURL,
			SHA256:   hash,
		})
	}

	return assets, nil
}

// BuildVariables resolves all assets and returns the template variables:
// version, tag, name, repo and <key>_url / <key>_sha256 per asset.
func BuildVariables(in *Input) (Variables, []ResolvedAsset, error) {
	assets, err := ResolveAssets(in)
	if err != nil {
		return nil, nil, err
	}

	vars := Variables{
		VersionKey: ExtractVersion(in.Release.TagName),
		TagKey:     in.Release.TagName,
		NameKey:    in.ShortName,
		RepoKey:    in.RepoID,
	}

	for _, asset := range assets {
		vars[asset.Key+urlSuffix] = asset.URL
		vars[asset.Key+sha256Suffix] = asset.SHA256
	}

	return vars, assets, nil
}
