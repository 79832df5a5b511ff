package config

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// Issue kinds reported by LoadDocument.
const (
	IssueUnknownAccount  = "unknown-account"
	IssueUnknownCategory = "unknown-category"
	IssueUnknownValue    = "unknown-value"
)

// Issue describes one referential problem found while loading configuration.
// Issues are advisory: the offending assignment is dropped (or the missing
// account created) and loading continues.
type Issue struct {
	Kind       string
	Account    string
	Subaccount string
	Category   string
	Value      string
	Suggestion string
}

func (i Issue) String() string {
	var msg string
	switch i.Kind {
	case IssueUnknownAccount:
		msg = fmt.Sprintf("sub-account %q references undeclared account %q", i.Subaccount, i.Account)
	case IssueUnknownCategory:
		msg = fmt.Sprintf("sub-account %q uses unknown category %q", i.Subaccount, i.Category)
	case IssueUnknownValue:
		msg = fmt.Sprintf("sub-account %q has value %q outside category %q", i.Subaccount, i.Value, i.Category)
	default:
		msg = fmt.Sprintf("sub-account %q: %s", i.Subaccount, i.Kind)
	}
	if i.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", i.Suggestion)
	}
	return msg
}

// maxSuggestDistance bounds how far a candidate may be to count as a typo.
const maxSuggestDistance = 2

// suggest returns the closest candidate within edit distance 2, or "".
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
