package prefs

import "strings"

// Mode selects how positive brand/color/category lists merge.
type Mode string

const (
	// ModeAppend unions new values into the existing lists.
	ModeAppend Mode = "append"
	// ModeReplace overwrites the positive lists with the new values.
	ModeReplace Mode = "replace"
)

var replaceKeywords = []string{"instead", "change to", "switch to", "only", "just", "replace"}

var appendKeywords = []string{"also", "and", "plus", "along with", "in addition", "too"}

// ClassifyIntent inspects the raw input for replace-signal keywords, then
// append-signal keywords. With no signal present the default is append so
// prior constraints are never silently discarded.
func ClassifyIntent(text string) Mode {
	lower := strings.ToLower(text)

	for _, kw := range replaceKeywords {
		if strings.Contains(lower, kw) {
			return ModeReplace
		}
	}
	for _, kw := range appendKeywords {
		if strings.Contains(lower, kw) {
			return ModeAppend
		}
	}
	return ModeAppend
}
