package bracket

import (
	"fmt"
	"strings"

	"promptcheck/internal/domain/valueobject"
)

// IssueType classifies an imbalance.
type IssueType string

const (
	// IncorrectOrder means a closing symbol appeared with no matching opener.
	IncorrectOrder IssueType = "incorrect_order"
	// ExcessOpening means the text ends with unclosed openers.
	ExcessOpening IssueType = "excess_opening"
	// ExcessClosing means the text has more closers than openers overall.
	ExcessClosing IssueType = "excess_closing"
)

// Issue is one imbalance found by a scan.
type Issue struct {
	Pair    valueobject.BracketPair
	Escaped bool
	Type    IssueType
	// Count is the size of the imbalance. It is zero for IncorrectOrder.
	Count int
}

// Label returns the pair label, prefixed with "escaped " for escaped issues.
func (i Issue) Label() string {
	if i.Escaped {
		return "escaped " + i.Pair.Label()
	}
	return i.Pair.Label()
}

func (i Issue) symbols() (string, string) {
	open, closing := string(i.Pair.Open()), string(i.Pair.Close())
	if i.Escaped {
		return string(escapeRune) + open, string(escapeRune) + closing
	}
	return open, closing
}

// Message renders the issue as shown to the user.
func (i Issue) Message() string {
	switch i.Type {
	case IncorrectOrder:
		return fmt.Sprintf("Incorrect order of %s.", i.Label())
	case ExcessOpening:
		open, closing := i.symbols()
		return fmt.Sprintf("%s ... %s - Detected %d more opening than closing %s.", open, closing, i.Count, i.Label())
	case ExcessClosing:
		open, closing := i.symbols()
		return fmt.Sprintf("%s ... %s - Detected %d more closing than opening %s.", open, closing, i.Count, i.Label())
	default:
		return ""
	}
}

// Report is the result of a scan. Issues are ordered: order violations as
// encountered, then unescaped totals, then escaped totals, each in pair order.
type Report struct {
	Issues []Issue
}

// Messages returns the distinct issue messages in report order.
func (r Report) Messages() []string {
	messages := make([]string, 0, len(r.Issues))
	seen := make(map[string]struct{}, len(r.Issues))
	for _, issue := range r.Issues {
		msg := issue.Message()
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		messages = append(messages, msg)
	}
	return messages
}

// HasErrors reports whether any imbalance was found.
func (r Report) HasErrors() bool {
	return len(r.Issues) > 0
}

// Tooltip joins the messages with newlines, as rendered on the token counter.
func (r Report) Tooltip() string {
	return strings.Join(r.Messages(), "\n")
}
