package github

import "net/http"

// headerTransport adds GitHub API headers and, when set, a bearer token.
type headerTransport struct {
	token     string
	userAgent string
	base      http.RoundTripper
}

// RoundTrip clones the request so the caller's request is never mutated.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", acceptHeader)
	r.Header.Set("X-GitHub-Api-Version", apiVersion)

	if t.userAgent != "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	if t.token != "" {
		r.Header.Set("Authorization", "Bearer "+t.token)
	}

	return t.base.RoundTrip(r)
}
