package presenter

import (
	"strings"

	"golang.org/x/text/cases"
)

// normalize trims surrounding whitespace and case-folds. A Caser is stateful, so
// each call builds its own.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// sameText is the answer comparison used by every text activity.
func sameText(got, want string) bool {
	return normalize(got) == normalize(want)
}

func correctness(ok bool) string {
	if ok {
		return "correct"
	}
	return "incorrect"
}
