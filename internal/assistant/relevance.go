package assistant

import "strings"

var shoppingTerms = []string{
	"bag", "handbag", "purse", "tote", "backpack", "clutch", "wallet",
	"shopping", "buy", "purchase", "price", "cost", "delivery", "shipping",
	"brand", "leather", "canvas", "product", "item", "store",
}

var conversationalTerms = []string{
	"hi", "hello", "thank", "bye", "help", "clear", "reset",
	"show", "more", "cheap", "expensive", "under", "over", "color",
}

// isRelevant is a cheap gate deciding whether a turn is worth running
// through extraction at all. Generous on purpose, it only filters clearly
// off-topic chatter.
func isRelevant(text string) bool {
	lower := strings.ToLower(text)
	if strings.ContainsAny(lower, "$0123456789") {
		return true
	}
	for _, term := range shoppingTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	for _, term := range conversationalTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
