// Package bracket implements the prompt bracket balance scanner.
//
// A scan walks the prompt once, counting opening and closing symbols of the
// round, square and curly pairs. A run of N backslashes marks the symbol
// after it as escaped when N is odd. Depending on the escape policy,
// escaped symbols are either balanced in a separate bucket or ignored.
package bracket

import (
	"promptcheck/internal/domain/valueobject"
)

const escapeRune = '\\'

type bucket int

const (
	plainBucket bucket = iota
	escapedBucket
	bucketCount
)

type cell struct {
	count int
	seen  bool
}

// tally holds the running count of every (kind, bucket) combination.
type tally [valueobject.BracketKindCount][bucketCount]cell

// Option configures a Scanner.
type Option func(*Scanner)

// WithEscapePolicy selects how escaped brackets are counted.
func WithEscapePolicy(policy valueobject.EscapePolicy) Option {
	return func(s *Scanner) {
		s.policy = policy
	}
}

// Scanner checks prompt text for unbalanced brackets. A Scanner holds only
// immutable configuration and is safe for concurrent use.
type Scanner struct {
	pairs  [valueobject.BracketKindCount]valueobject.BracketPair
	policy valueobject.EscapePolicy
}

// NewScanner returns a scanner over the default bracket pairs.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		pairs:  valueobject.DefaultBracketPairs(),
		policy: valueobject.DefaultEscapePolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy == "" {
		s.policy = valueobject.DefaultEscapePolicy
	}
	return s
}

// Policy returns the escape policy the scanner applies.
func (s *Scanner) Policy() valueobject.EscapePolicy {
	return s.policy
}

// Scan checks text and returns every distinct imbalance found. It never
// fails; an empty report means the text is balanced.
func (s *Scanner) Scan(text string) Report {
	var (
		counts tally
		report Report
		// orderSeen dedupes "Incorrect order" issues per bucket.
		orderSeen [valueobject.BracketKindCount][bucketCount]bool
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		escaped := false
		for ch == escapeRune && i+1 < len(runes) {
			escaped = !escaped
			i++
			ch = runes[i]
		}

		if escaped && !s.policy.CountsEscaped() {
			continue
		}

		b := plainBucket
		if escaped {
			b = escapedBucket
		}

		for _, pair := range s.pairs {
			c := &counts[pair.Kind()][b]
			switch ch {
			case pair.Open():
				c.count++
				c.seen = true
			case pair.Close():
				c.count--
				c.seen = true
				if c.count < 0 && !orderSeen[pair.Kind()][b] {
					orderSeen[pair.Kind()][b] = true
					report.Issues = append(report.Issues, Issue{
						Pair:    pair,
						Escaped: escaped,
						Type:    IncorrectOrder,
					})
				}
			}
		}
	}

	for _, b := range []bucket{plainBucket, escapedBucket} {
		for _, pair := range s.pairs {
			c := counts[pair.Kind()][b]
			if !c.seen || c.count == 0 {
				continue
			}
			issue := Issue{Pair: pair, Escaped: b == escapedBucket}
			if c.count > 0 {
				issue.Type = ExcessOpening
				issue.Count = c.count
			} else {
				issue.Type = ExcessClosing
				issue.Count = -c.count
			}
			report.Issues = append(report.Issues, issue)
		}
	}

	return report
}
