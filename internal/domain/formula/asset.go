package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/formula-updater/internal/api/github"
)

const (
	// NamePlaceholder is replaced by the project short name.
	NamePlaceholder = "{NAME}"
	// VersionPlaceholder is replaced by the release version.
	VersionPlaceholder = "{VERSION}"

	sha256Prefix = "sha256:"
)

var (
	// ErrAssetNotFound is returned when no release asset has the resolved name.
	ErrAssetNotFound = errors.New("required asset not found in release")
	// ErrMissingDigest is returned when a matched asset carries no digest.
	ErrMissingDigest = errors.New("asset has no digest")
	// ErrInvalidDigestFormat is returned when a digest is not "sha256:<hex>".
	ErrInvalidDigestFormat = errors.New("invalid digest format")
)

// ResolvePattern substitutes every {NAME} and {VERSION} in pattern.
// Substitution is literal; no other syntax is interpreted.
func ResolvePattern(pattern, name, version string) string {
	return strings.NewReplacer(NamePlaceholder, name, VersionPlaceholder, version).Replace(pattern)
}

// ResolvePatterns applies ResolvePattern to each pattern, keeping the keys.
func ResolvePatterns(patterns map[string]string, name, version string) map[string]string {
	resolved := make(map[string]string, len(patterns))
	for key, pattern := range patterns {
		resolved[key] = ResolvePattern(pattern, name, version)
	}

	return resolved
}

// FindAsset returns the first asset, in release order, named exactly fileName.
func FindAsset(assets []github.Asset, fileName string) (*github.Asset, error) {
	for i := range assets {
		if assets[i].Name == fileName {
			return &assets[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, fileName)
}

// ExtractSHA256 returns the hex hash of a "sha256:<hex>" digest.
func ExtractSHA256(digest string) (string, error) {
	if digest == "" {
		return "", ErrMissingDigest
	}

	if !strings.HasPrefix(digest, sha256Prefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDigestFormat, digest)
	}

	_, hash, _ := strings.Cut(digest, ":")

	return hash, nil
}
