package ner

import (
	"regexp"
	"strings"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// UICommandKind classifies a conversational command for logging and turn
// routing. The classification never feeds preference state; its only state
// effect is suppressing the phrase from the features bucket.
type UICommandKind string

const (
	CommandShowMore    UICommandKind = "show_more"
	CommandNavigation  UICommandKind = "navigation"
	CommandReset       UICommandKind = "reset"
	CommandHelp        UICommandKind = "help"
	CommandInteraction UICommandKind = "interaction"
)

var uiCommandPatterns = []string{
	`show\s+more(?:\s+(?:options?|results?|products?))?`,
	`(?:some\s+)?more\s+options?`,
	`(?:some\s+)?more\s+results?`,
	`see\s+more\s+(?:options?|results?|products?)`,
	`display\s+more\s+(?:options?|results?|products?)`,

	`next\s+(?:page|options?|results?)`,
	`previous\s+(?:page|options?|results?)`,
	`go\s+back`,
	`start\s+over`,
	`clear\s+(?:all|preferences)`,

	`help\s+me`,
	`what\s+(?:can|do)\s+you`,
	`how\s+(?:do\s+)?(?:i|can)`,
	`tell\s+me\s+(?:more|about)`,

	`thank\s+you`,
	`thanks`,
	`okay`,
	`ok`,
	`yes`,
	`no`,
}

// UICommandExtractor recognizes navigational and conversational phrases so
// they are never misfiled as product features.
type UICommandExtractor struct {
	patterns []*regexp.Regexp
}

func NewUICommandExtractor() *UICommandExtractor {
	ue := &UICommandExtractor{}
	for _, p := range uiCommandPatterns {
		ue.patterns = append(ue.patterns, regexp.MustCompile(`(?i)\b(?:`+p+`)\b`))
	}
	return ue
}

func (ue *UICommandExtractor) Type() model.EntityType {
	return model.EntityUICommand
}

func (ue *UICommandExtractor) Extract(text string) []model.EntityExtraction {
	var extractions []model.EntityExtraction

	for _, re := range ue.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			command := strings.TrimSpace(text[loc[0]:loc[1]])
			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityUICommand,
				Value:      command,
				Confidence: 0.95,
				Start:      loc[0],
				End:        loc[1],
				SourceText: command,
				Strategy:   model.StrategyPattern,
				Metadata:   map[string]string{"command_kind": string(ClassifyCommand(command))},
			})
		}
	}

	return extractions
}

// ClassifyCommand buckets a recognized command phrase.
func ClassifyCommand(command string) UICommandKind {
	lower := strings.ToLower(command)
	switch {
	case containsAny(lower, "more", "show", "see", "display"):
		return CommandShowMore
	case containsAny(lower, "next", "previous", "back"):
		return CommandNavigation
	case containsAny(lower, "clear", "start"):
		return CommandReset
	case containsAny(lower, "help", "how", "what"):
		return CommandHelp
	default:
		return CommandInteraction
	}
}

// MatchesCommand reports whether the phrase matches any UI command pattern.
// The reconciler uses this to strip command phrases from features.
func (ue *UICommandExtractor) MatchesCommand(phrase string) bool {
	for _, re := range ue.patterns {
		if re.MatchString(phrase) {
			return true
		}
	}
	return false
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
