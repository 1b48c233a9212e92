package entity

import (
	"fmt"
	"net"
	"net/url"
)

// maxURLLength bounds URL length to keep pathological config values out.
const maxURLLength = 2048

// ValidateURL validates the format and safety of a URL.
// It checks that the URL is well-formed, uses an HTTP/HTTPS scheme, and has
// a host. Literal private IP hosts are rejected so a misconfigured source
// cannot point the collector at internal infrastructure.
// Returns a ValidationError if the URL is invalid or empty.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	if ip := net.ParseIP(parsedURL.Hostname()); ip != nil && isPrivateIP(ip) {
		return &ValidationError{Field: "url", Message: "url cannot point to private network"}
	}

	return nil
}

// isPrivateIP checks if an IP address is in a private or restricted range:
// loopback, link-local (which includes cloud metadata endpoints), and the
// RFC 1918 private networks.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsPrivate()
}
