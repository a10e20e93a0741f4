package intent

import "regexp"

var (
	greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|hiya|thanks|thank you|good (morning|afternoon|evening))\b[\s!.,]*$`)
	comparePattern  = regexp.MustCompile(`(?i)\b(compare|comparison)\b`)
	versusPattern   = regexp.MustCompile(`(?i)\b(vs\.?|versus)\s`)
	explainPattern  = regexp.MustCompile(`(?i)\b(what\s+is|what's|what\s+does|explain|meaning\s+of|difference\s+between)\b`)
	detailsPattern  = regexp.MustCompile(`(?i)\b(tell\s+me\s+more|more\s+details?|details\s+(of|on|for|about)|i\s+like\s+(this|that|it)|(this|that|first|second|third)\s+(one|phone))\b`)
)

// Heuristic is the offline keyword classifier. mentions is the number of
// catalog products named in text: "X vs Y" is a comparison between phones and
// an explanation between terms. Anything unmatched is Search.
func Heuristic(text string, mentions int) Label {
	switch {
	case greetingPattern.MatchString(text):
		return LabelGreeting
	case comparePattern.MatchString(text), versusPattern.MatchString(text) && mentions >= 2:
		return LabelCompare
	case explainPattern.MatchString(text), versusPattern.MatchString(text):
		return LabelExplain
	case detailsPattern.MatchString(text):
		return LabelDetails
	default:
		return LabelSearch
	}
}
