package valueobject

import (
	"fmt"
	"strings"

	"promptcheck/internal/domain/errors/domain"
)

// EscapePolicy controls how bracket symbols preceded by an odd run of
// backslashes are counted.
type EscapePolicy string

const (
	// EscapeAware counts escaped brackets in their own buckets, balanced
	// independently of the unescaped ones.
	EscapeAware EscapePolicy = "aware"
	// EscapeSkip ignores escaped brackets entirely.
	EscapeSkip EscapePolicy = "skip"
)

// DefaultEscapePolicy is used when no policy is configured.
const DefaultEscapePolicy = EscapeAware

// NewEscapePolicy parses raw into an EscapePolicy. The empty string yields
// the default policy.
func NewEscapePolicy(raw string) (EscapePolicy, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "":
		return DefaultEscapePolicy, nil
	case "aware", "escape-aware", "count":
		return EscapeAware, nil
	case "skip", "escape-skip", "ignore":
		return EscapeSkip, nil
	default:
		return "", fmt.Errorf("unknown escape policy %q: %w", raw, domain.ErrInvalidEscapePolicy)
	}
}

// String returns the canonical name of the policy.
func (p EscapePolicy) String() string {
	return string(p)
}

// CountsEscaped reports whether escaped brackets contribute to counts.
func (p EscapePolicy) CountsEscaped() bool {
	return p == EscapeAware
}
