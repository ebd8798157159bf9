// Package links validates documentation URLs against an allow-list of
// trusted documentation origins. Everything else is rejected.
package links

import (
	"fmt"
	"strings"
)

// BaseOrigin is prepended to relative URLs before validation.
const BaseOrigin = "https://aws.github.io/bedrock-agentcore-starter-toolkit"

// DefaultAllowed is the default set of allowed URL prefixes. Matching is a
// plain string-prefix check, not host parsing.
var DefaultAllowed = []string{
	"https://aws.github.io/bedrock-agentcore-starter-toolkit",
	"https://docs.aws.amazon.com/bedrock-agentcore",
	"https://github.com/awslabs/amazon-bedrock-agentcore-samples",
	"https://raw.githubusercontent.com/awslabs/amazon-bedrock-agentcore-samples",
}

// ValidationError reports every URL that failed the allow-list check, along
// with the prefixes that would have been accepted.
type ValidationError struct {
	Rejected []string
	Allowed  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("URLs not allowed: %s (allowed prefixes: %s)",
		strings.Join(e.Rejected, ", "), strings.Join(e.Allowed, ", "))
}

// Normalize rewrites a relative URL to an absolute one under BaseOrigin.
// Absolute http(s) URLs are returned unchanged.
func Normalize(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	if !strings.HasPrefix(rawURL, "/") {
		rawURL = "/" + rawURL
	}
	return BaseOrigin + rawURL
}

// Validate normalizes each URL and checks it against the allow-list. If any
// URL fails, the whole batch fails with a *ValidationError listing exactly the
// rejected URLs. On success it returns the normalized URLs in input order.
// A nil allowed list means DefaultAllowed.
func Validate(urls []string, allowed []string) ([]string, error) {
	if allowed == nil {
		allowed = DefaultAllowed
	}

	normalized := make([]string, len(urls))
	var rejected []string
	for i, u := range urls {
		normalized[i] = Normalize(u)
		if !allowedPrefix(normalized[i], allowed) {
			rejected = append(rejected, normalized[i])
		}
	}
	if len(rejected) > 0 {
		return nil, &ValidationError{Rejected: rejected, Allowed: allowed}
	}
	return normalized, nil
}

// ValidateOne is Validate for a single URL.
func ValidateOne(rawURL string, allowed []string) (string, error) {
	normalized, err := Validate([]string{rawURL}, allowed)
	if err != nil {
		return "", err
	}
	return normalized[0], nil
}

func allowedPrefix(u string, allowed []string) bool {
	for _, prefix := range allowed {
		if strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return false
}
