package cli

import (
	"fmt"
	"net/url"
	"strings"

	"identity-console/pkg/cli/client"
)

// normalizeHostURL validates a server base URL and returns it without a
// trailing slash or API prefix; the client adds the prefix itself, so a
// pasted ".../api" URL still works.
func normalizeHostURL(host string) (string, error) {
	raw := host
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("invalid host %q: host URL cannot be empty", raw)
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid host %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid host %q: missing host", raw)
	}
	if u.User != nil {
		return "", fmt.Errorf("invalid host %q: credentials belong in --token, not the URL", raw)
	}
	path := strings.TrimSuffix(u.Path, "/")
	path = strings.TrimSuffix(path, client.APIPrefix)
	if path != "" {
		return "", fmt.Errorf("invalid host %q: host must not include a path other than %s", raw, client.APIPrefix)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("invalid host %q: host must not include query or fragment", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
