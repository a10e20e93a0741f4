package router

import (
	"context"
	"errors"

	"ai-shopping-agent-be/pkg/ai/intent"
	"ai-shopping-agent-be/pkg/ai/prompt"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/llm"
	"ai-shopping-agent-be/pkg/ranking"
	"ai-shopping-agent-be/pkg/session"
)

type turn struct {
	message string
	session *session.Session
	intent  intent.Result
}

type outcome struct {
	text       string
	candidates []catalog.Product
	comparison *catalog.Comparison
	entityIDs  []string
	stage      ranking.Stage
	generated  bool
}

type handler func(ctx context.Context, t *turn) outcome

// dispatchTable maps every intent label to exactly one handler. Labels the
// safety gate normally owns fall through to search when they come from the
// intent collaborator instead.
func (r *Router) dispatchTable() map[intent.Label]handler {
	return map[intent.Label]handler{
		intent.LabelSearch:      r.handleSearch,
		intent.LabelRecommend:   r.handleSearch,
		intent.LabelFilter:      r.handleSearch,
		intent.LabelCompare:     r.handleCompare,
		intent.LabelExplain:     r.handleExplain,
		intent.LabelDetails:     r.handleDetails,
		intent.LabelGreeting:    r.handleGreeting,
		intent.LabelOffTopic:    r.handleSearch,
		intent.LabelAdversarial: r.handleSearch,
		intent.LabelUnclear:     r.handleSearch,
	}
}

// generate runs one generation call and returns the fallback on any failure.
func (r *Router) generate(ctx context.Context, handlerName, text, fallback string) (string, bool) {
	res := llm.Call(ctx, r.generator, r.genTimeout, text)
	if res.Err != nil && !errors.Is(res.Err, llm.ErrUnavailable) {
		r.logger.Warn("ROUTER", "Generation failed, using fallback", map[string]interface{}{
			"handler": handlerName,
			"error":   res.Err.Error(),
			"elapsed": res.Elapsed.String(),
		})
	}
	return res.OrElse(fallback), res.Ok()
}

func productIDs(ps []catalog.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

// mergeIDs appends extra ids to base, skipping duplicates. base keeps its order.
func mergeIDs(base []string, extra ...string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, id := range append(append([]string(nil), base...), extra...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (r *Router) handleSearch(ctx context.Context, t *turn) outcome {
	p := t.intent.Params
	ranked := ranking.Rank(p.Criteria(), r.catalog)
	if len(ranked.Products) == 0 {
		return outcome{text: prompt.NoMatches, entityIDs: p.EntityIDs, stage: ranked.Stage}
	}

	req := prompt.SearchRequest{
		Query:        t.message,
		PriceMin:     p.PriceMin,
		PriceMax:     p.PriceMax,
		Brand:        p.Brand,
		Focus:        string(ranked.Strategy),
		Features:     p.Features,
		Compact:      p.Compact,
		FastCharging: p.FastCharging,
	}
	text, ok := r.generate(ctx, "search", prompt.Recommendation(req, ranked.Products), prompt.SearchFallback(ranked.Products))

	r.logger.Debug("ROUTER", "Search ranked", map[string]interface{}{
		"strategy": ranked.Strategy,
		"stage":    ranked.Stage,
		"results":  len(ranked.Products),
	})
	return outcome{
		text:       text,
		candidates: ranked.Products,
		entityIDs:  mergeIDs(productIDs(ranked.Products), p.EntityIDs...),
		stage:      ranked.Stage,
		generated:  ok,
	}
}

// compareIDs collects the products to compare: message mentions first, then
// names the collaborator reported, resolved through fuzzy search.
func (r *Router) compareIDs(p intent.Params) []string {
	ids := mergeIDs(nil, p.EntityIDs...)
	for _, name := range p.EntityNames {
		if r.searcher == nil {
			break
		}
		for _, hit := range r.searcher.Search(name) {
			if merged := mergeIDs(ids, hit.ID); len(merged) > len(ids) {
				ids = merged
				break
			}
		}
	}
	if len(ids) > MaxCompared {
		ids = ids[:MaxCompared]
	}
	return ids
}

func (r *Router) handleCompare(ctx context.Context, t *turn) outcome {
	ids := r.compareIDs(t.intent.Params)
	if len(ids) < 2 {
		return outcome{text: prompt.ClarifyCompare, entityIDs: ids}
	}

	cmp, err := r.catalog.CompareIDs(ids)
	if err != nil {
		r.logger.Warn("ROUTER", "Comparison failed", map[string]interface{}{"ids": ids, "error": err.Error()})
		return outcome{text: prompt.ClarifyCompare, entityIDs: ids}
	}

	text, ok := r.generate(ctx, "compare", prompt.Comparison(t.message, cmp.Products), prompt.CompareFallback(cmp))
	return outcome{
		text:       text,
		candidates: cmp.Products,
		comparison: cmp,
		entityIDs:  productIDs(cmp.Products),
		generated:  ok,
	}
}

func (r *Router) handleExplain(ctx context.Context, t *turn) outcome {
	terms := prompt.Terms(t.message)
	if len(terms) == 0 {
		return outcome{text: prompt.ClarifyExplain, entityIDs: t.intent.Params.EntityIDs}
	}

	fallback, known := prompt.Glossary(terms)
	if !known {
		fallback = prompt.ClarifyExplain
	}
	text, ok := r.generate(ctx, "explain", prompt.Explanation(t.message, prompt.TermLabel(terms)), fallback)
	return outcome{text: text, entityIDs: t.intent.Params.EntityIDs, generated: ok}
}

func (r *Router) handleDetails(ctx context.Context, t *turn) outcome {
	res := intent.ResolveDetails(t.intent.Params, t.session.LastMentioned)
	if !res.Resolved() {
		return outcome{text: prompt.ClarifyDetails}
	}
	p, found := r.catalog.Get(res.ProductID)
	if !found {
		return outcome{text: prompt.ClarifyDetails}
	}

	r.logger.Debug("ROUTER", "Details resolved", map[string]interface{}{
		"product_id": p.ID,
		"step":       res.Step,
	})
	text, ok := r.generate(ctx, "details", prompt.Details(t.message, p), prompt.DetailsCard(p))
	return outcome{
		text:       text,
		candidates: []catalog.Product{p},
		entityIDs:  []string{p.ID},
		generated:  ok,
	}
}

func (r *Router) handleGreeting(_ context.Context, t *turn) outcome {
	return outcome{text: prompt.Greeting, entityIDs: t.intent.Params.EntityIDs}
}
