package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SanitizeTrustedDomain reduces an origin or bare host to its lowercase
// host[:port] form. Schemes other than http and https, credentials, paths,
// queries, fragments and wildcards are rejected.
func SanitizeTrustedDomain(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "":
		return "", errors.New("domain cannot be empty")
	case strings.ContainsAny(value, " \t\r\n"):
		return "", errors.New("domain cannot contain whitespace")
	case strings.Contains(value, "*"):
		return "", errors.New("wildcards are not allowed in trusted origins")
	}

	if !strings.Contains(value, "://") {
		value = "http://" + value
	}
	u, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", raw, err)
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	case u.User != nil:
		return "", errors.New("domain must not include credentials")
	case u.Host == "":
		return "", errors.New("domain must include a host")
	case u.Path != "" && u.Path != "/", u.RawQuery != "", u.Fragment != "", u.ForceQuery:
		return "", errors.New("domain must not include path, query, or fragment")
	}
	return u.Host, nil
}

// AllowOrigins expands the trusted hosts into http and https origins for CORS.
func (c *Config) AllowOrigins() []string {
	out := make([]string, 0, len(c.TrustedOrigins)*2)
	for _, host := range c.TrustedOrigins {
		out = append(out, "http://"+host, "https://"+host)
	}
	return out
}
