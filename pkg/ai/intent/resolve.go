package intent

// Step names the rule that settled a details lookup.
type Step string

const (
	StepExplicit      Step = "explicit"
	StepPositional    Step = "positional"
	StepContext       Step = "context"
	StepRecent        Step = "recent"
	StepClarification Step = "clarification"
)

type Resolution struct {
	ProductID string
	Step      Step
}

func (r Resolution) Resolved() bool {
	return r.ProductID != ""
}

// ResolveDetails picks the product a details request is about. Rules run in
// order and the first that applies wins:
//  1. a product named in the message
//  2. a positional reference into lastMentioned; an ordinal past the end of
//     the list asks for clarification
//  3. an explicit request for more context, against the most recent product
//  4. the most recent product
//  5. clarification
func ResolveDetails(p Params, lastMentioned []string) Resolution {
	if len(p.EntityIDs) > 0 {
		return Resolution{ProductID: p.EntityIDs[0], Step: StepExplicit}
	}

	if p.Reference != NoReference && len(lastMentioned) > 0 {
		if p.Reference < len(lastMentioned) {
			return Resolution{ProductID: lastMentioned[p.Reference], Step: StepPositional}
		}
		return Resolution{Step: StepClarification}
	}

	if len(lastMentioned) == 0 {
		return Resolution{Step: StepClarification}
	}
	if p.WantsContext {
		return Resolution{ProductID: lastMentioned[0], Step: StepContext}
	}
	return Resolution{ProductID: lastMentioned[0], Step: StepRecent}
}
