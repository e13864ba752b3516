package domain

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrShopDomainEmpty   = errors.New("shop domain is required")
	ErrShopDomainInvalid = errors.New("invalid shop domain, expected <name>.myshopify.com")
)

// shopDomainPattern accepts canonical myshopify hostnames, including
// single-character subdomains. Labels never start or end with a hyphen.
var shopDomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?\.myshopify\.com$`)

// NormalizeShopDomain canonicalizes user-supplied shop input: scheme and path
// are stripped, the hostname is lowercased, and the result must be a
// *.myshopify.com domain. Normalizing an already-normalized value returns it
// unchanged.
func NormalizeShopDomain(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrShopDomainEmpty
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	if !shopDomainPattern.MatchString(s) {
		return "", ErrShopDomainInvalid
	}
	return s, nil
}

// IsValidShopDomain reports whether raw normalizes to a myshopify domain.
func IsValidShopDomain(raw string) bool {
	_, err := NormalizeShopDomain(raw)
	return err == nil
}
