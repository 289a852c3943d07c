package session

import (
	"net/url"
	"strings"
)

// PostLoginRedirect resolves where navigation lands after a sign-in
// attempt. The caller-supplied target is never trusted: anything that
// does not resolve under the application base, or does not parse at
// all, is discarded. Every outcome lands on the application root.
func PostLoginRedirect(requested, base string) string {
	root := strings.TrimRight(base, "/") + "/"

	baseURL, err := url.Parse(base)
	if err != nil {
		return root
	}
	resolved, err := baseURL.Parse(requested)
	if err != nil {
		return root
	}
	if !strings.HasPrefix(resolved.String(), strings.TrimRight(base, "/")) {
		return root
	}
	return root
}
