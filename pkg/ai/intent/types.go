package intent

import (
	"strings"

	"ai-shopping-agent-be/pkg/ranking"
)

type Label string

const (
	LabelSearch      Label = "search"
	LabelRecommend   Label = "recommend"
	LabelCompare     Label = "compare"
	LabelExplain     Label = "explain"
	LabelDetails     Label = "details"
	LabelFilter      Label = "filter"
	LabelGreeting    Label = "greeting"
	LabelOffTopic    Label = "off_topic"
	LabelAdversarial Label = "adversarial"
	LabelUnclear     Label = "unclear"
)

// Labels lists every label in declaration order.
var Labels = []Label{
	LabelSearch, LabelRecommend, LabelCompare, LabelExplain, LabelDetails,
	LabelFilter, LabelGreeting, LabelOffTopic, LabelAdversarial, LabelUnclear,
}

// ParseLabel maps collaborator output onto the closed set. Unknown values
// become LabelSearch.
func ParseLabel(s string) Label {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Labels {
		if l == known {
			return l
		}
	}
	return LabelSearch
}

type Source string

const (
	SourceLLM       Source = "llm"
	SourceFallback  Source = "fallback"
	SourceHeuristic Source = "heuristic"
)

// NoReference marks a message without a positional reference.
const NoReference = -1

// Params is the parameter bag extracted from one message.
type Params struct {
	PriceMin     *int          `json:"price_min,omitempty"`
	PriceMax     *int          `json:"price_max,omitempty"`
	Brand        string        `json:"brand,omitempty"`
	Features     []string      `json:"features,omitempty"`
	Focus        ranking.Focus `json:"focus,omitempty"`
	Compact      bool          `json:"compact,omitempty"`
	FastCharging bool          `json:"fast_charging,omitempty"`
	// EntityNames are product names reported by the collaborator; EntityIDs
	// are catalog ids found directly in the message, in order of mention.
	EntityNames  []string `json:"entity_names,omitempty"`
	EntityIDs    []string `json:"entity_ids,omitempty"`
	Reference    int      `json:"reference"`
	WantsContext bool     `json:"wants_context,omitempty"`
}

// Normalize enforces PriceMin <= PriceMax by swapping.
func (p *Params) Normalize() {
	if p.PriceMin != nil && p.PriceMax != nil && *p.PriceMin > *p.PriceMax {
		p.PriceMin, p.PriceMax = p.PriceMax, p.PriceMin
	}
}

// Criteria converts the bag into ranking constraints.
func (p Params) Criteria() ranking.Criteria {
	return ranking.Criteria{
		PriceMin:     p.PriceMin,
		PriceMax:     p.PriceMax,
		Brand:        p.Brand,
		Features:     p.Features,
		Focus:        p.Focus,
		Compact:      p.Compact,
		FastCharging: p.FastCharging,
	}
}

type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Params     Params  `json:"params"`
	Reason     string  `json:"reason,omitempty"`
	Source     Source  `json:"source"`
}

func clampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
