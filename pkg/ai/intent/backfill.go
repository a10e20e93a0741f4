package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/ranking"
)

// budgetPatterns are tried in order; the first usable match wins.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*k\b`),
	regexp.MustCompile(`(?i)(?:^|\D)₹?\s*(\d{1,2}),(\d{2}),(\d{3})\b`),
	regexp.MustCompile(`(?i)(?:^|\D)₹?\s*(\d{1,2}),?(\d{3})\b`),
	regexp.MustCompile(`(?i)under\s+₹?\s*(\d+)`),
	regexp.MustCompile(`(?i)below\s+₹?\s*(\d+)`),
	regexp.MustCompile(`(?i)budget\s+(?:of\s+)?₹?\s*(\d+)`),
}

// A number directly followed by a unit is a spec, not a price ("5000mAh").
var specUnit = regexp.MustCompile(`(?i)^\s*(mah|mp|hz|w\b|watt|gb|tb|nits|fps|mm|x\b|video|recording|display|screen|resolution)`)

// ExtractBudget returns the price ceiling stated in text. Values below 1000
// are read as thousands.
func ExtractBudget(text string) (int, bool) {
	for _, re := range budgetPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if specUnit.MatchString(text[m[1]:]) {
				continue
			}
			var digits string
			for g := 2; g+1 < len(m); g += 2 {
				if m[g] >= 0 {
					digits += text[m[g]:m[g+1]]
				}
			}
			n, err := strconv.Atoi(digits)
			if err != nil {
				continue
			}
			if len(m) == 4 && n < 1000 {
				n *= 1000
			}
			return n, true
		}
	}
	return 0, false
}

type focusRule struct {
	focus    ranking.Focus
	keywords []string
}

var focusRules = []focusRule{
	{ranking.FocusCamera, []string{"camera", "photo"}},
	{ranking.FocusBattery, []string{"battery", "endurance"}},
	{ranking.FocusGaming, []string{"gaming", "game"}},
	{ranking.FocusValue, []string{"value", "budget", "worth"}},
	{ranking.FocusCompact, []string{"compact", "small", "one hand", "one-hand"}},
}

// FocusFor infers the ranking focus from keywords, in rule order.
func FocusFor(text string) ranking.Focus {
	lower := strings.ToLower(text)
	for _, r := range focusRules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.focus
			}
		}
	}
	return ranking.FocusNone
}

var (
	compactPattern      = regexp.MustCompile(`(?i)\b(compact|small|one[\s-]?hand(ed)?)\b`)
	fastChargingPattern = regexp.MustCompile(`(?i)\b(fast|quick|rapid)\s*charg`)
	wantsContextPattern = regexp.MustCompile(`(?i)\b(this|that)\s+(one|phone)\b|\bthe\s+first\s+one\b|\bmore\s+details?\b|\btell\s+me\s+more\b`)
)

type referenceRule struct {
	pattern *regexp.Regexp
	index   int
}

// referenceRules mirror how people point back at a shortlist.
var referenceRules = []referenceRule{
	{regexp.MustCompile(`(?i)\b(first|1st)\b`), 0},
	{regexp.MustCompile(`(?i)\b(second|2nd)\b`), 1},
	{regexp.MustCompile(`(?i)\b(third|3rd)\b`), 2},
	{regexp.MustCompile(`(?i)\b(this|that|it)\s+(one|phone)\b`), 0},
	{regexp.MustCompile(`(?i)\bi\s+like\s+(this|that|it)\b`), 0},
	{regexp.MustCompile(`(?i)\btell\s+me\s+more\b`), 0},
	{regexp.MustCompile(`(?i)\bmore\s+details?\b`), 0},
}

// PositionalReference returns the shortlist index the message points at, or
// NoReference.
func PositionalReference(text string) int {
	for _, r := range referenceRules {
		if r.pattern.MatchString(text) {
			return r.index
		}
	}
	return NoReference
}

// featureTags maps user wording onto catalog feature tags.
var featureTags = map[string]string{
	"ois":                "OIS",
	"ip68":               "IP68",
	"ip67":               "IP67",
	"dolby atmos":        "Dolby Atmos",
	"stereo speakers":    "Stereo Speakers",
	"magsafe":            "MagSafe",
	"s pen":              "S Pen",
	"stylus":             "S Pen",
	"3.5mm jack":         "3.5mm Jack",
	"headphone jack":     "3.5mm Jack",
	"expandable storage": "Expandable Storage",
	"8k video":           "8K Video",
	"4k video":           "4K",
	"optical zoom":       "Optical Zoom",
	"telephoto":          "Telephoto",
	"ir blaster":         "IR Blaster",
}

// FeatureTag normalises a feature name; ok is false for words that are not
// catalog tags (for example "camera" or "battery", which are focus values).
func FeatureTag(name string) (string, bool) {
	tag, ok := featureTags[strings.ToLower(strings.TrimSpace(name))]
	return tag, ok
}

type featurePattern struct {
	re  *regexp.Regexp
	tag string
}

var featurePatterns = func() []featurePattern {
	phrases := make([]string, 0, len(featureTags))
	for k := range featureTags {
		phrases = append(phrases, k)
	}
	sort.Strings(phrases)

	out := make([]featurePattern, len(phrases))
	for i, phrase := range phrases {
		out[i] = featurePattern{
			re:  regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`),
			tag: featureTags[phrase],
		}
	}
	return out
}()

func featuresIn(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, fp := range featurePatterns {
		if fp.re.MatchString(text) && !seen[fp.tag] {
			seen[fp.tag] = true
			out = append(out, fp.tag)
		}
	}
	return out
}

// Backfill fills the fields the collaborator left empty using deterministic
// rules. Fields already set are kept.
func Backfill(text string, p *Params, store *catalog.Store) {
	if p.PriceMax == nil {
		if n, ok := ExtractBudget(text); ok {
			p.PriceMax = &n
		}
	}
	if p.Focus == ranking.FocusNone {
		p.Focus = FocusFor(text)
	}
	if !p.Compact && compactPattern.MatchString(text) {
		p.Compact = true
	}
	if !p.FastCharging && fastChargingPattern.MatchString(text) {
		p.FastCharging = true
	}
	if len(p.Features) == 0 {
		p.Features = featuresIn(text)
	}
	if !p.WantsContext && wantsContextPattern.MatchString(text) {
		p.WantsContext = true
	}
	p.Reference = PositionalReference(text)

	if store != nil {
		if p.Brand == "" {
			p.Brand = store.BrandIn(text)
		} else {
			p.Brand = canonicalBrand(store, p.Brand)
		}
		if len(p.EntityIDs) == 0 {
			for _, prod := range store.Mentioned(text) {
				p.EntityIDs = append(p.EntityIDs, prod.ID)
			}
		}
	}
	p.Normalize()
}

func canonicalBrand(store *catalog.Store, brand string) string {
	for _, b := range store.Brands() {
		if strings.EqualFold(b, strings.TrimSpace(brand)) {
			return b
		}
	}
	return brand
}
