package enricher

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

const (
	maxHostLength  = 253
	maxLabelLength = 63
)

// NormalizeDomain returns the bare host an enrichment is keyed by.
//
// The normalization rules accept whatever users paste, from a bare name to a
// full URL:
//   - Trim surrounding whitespace and lower-case
//   - Strip the scheme, userinfo, path, query and fragment
//   - Strip the port and a trailing dot
//   - Strip a leading "www." label
//   - Convert internationalized names to their ASCII (punycode) form
//
// Blank input, IP addresses and hosts that are not valid DNS names are
// rejected with an error.
func NormalizeDomain(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("domain is empty")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("could not parse domain: %w", err)
	}

	host := strings.TrimSuffix(u.Hostname(), ".")
	if rest, ok := strings.CutPrefix(host, "www."); ok && strings.Contains(rest, ".") {
		host = rest
	}
	if host == "" {
		return "", fmt.Errorf("no host in %q", raw)
	}
	if net.ParseIP(host) != nil {
		return "", fmt.Errorf("%q is an IP address", host)
	}

	host, err = idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("invalid domain: %w", err)
	}
	if err := validateHostname(host); err != nil {
		return "", err
	}

	return host, nil
}

func validateHostname(host string) error {
	if len(host) > maxHostLength {
		return fmt.Errorf("domain is longer than %d characters", maxHostLength)
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return fmt.Errorf("%q has no top-level domain", host)
	}

	for _, label := range labels {
		if label == "" || len(label) > maxLabelLength {
			return fmt.Errorf("%q has an empty or oversized label", host)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("label %q starts or ends with a hyphen", label)
		}
		for _, r := range label {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
				return fmt.Errorf("label %q contains %q", label, r)
			}
		}
	}

	return nil
}
