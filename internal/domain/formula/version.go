package formula

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ExtractVersion strips a single leading "v" from a release tag.
// Pre-release and build suffixes are kept as is.
func ExtractVersion(tag string) string {
	return strings.TrimPrefix(tag, "v")
}

// IsSemantic reports whether version parses as a strict semantic version.
func IsSemantic(version string) bool {
	_, err := semver.StrictNewVersion(version)

	return err == nil
}
