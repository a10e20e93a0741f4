package intent

import (
	"context"
	"errors"
	"testing"

	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/llm/mock"
	"ai-shopping-agent-be/pkg/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return store
}

func TestExtractBudget(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"Best camera phone under 30k", 30000, true},
		{"anything under ₹30,000", 30000, true},
		{"phones below 25000", 25000, true},
		{"under 30", 30000, true},
		{"budget of 18000 for my dad", 18000, true},
		{"phone with 5000mAh battery", 0, false},
		{"5000 mAh and under 20k", 20000, true},
		{"Compare Pixel 8a vs OnePlus 12R", 0, false},
		{"does it shoot 8K video", 0, false},
		{"phone with 8K recording", 0, false},
		{"4K display under 40k", 40000, true},
		{"phone under ₹1,20,000", 120000, true},
		{"anything below 1,50,000 with a big screen", 150000, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractBudget(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFocusFor(t *testing.T) {
	assert.Equal(t, ranking.FocusCamera, FocusFor("Best camera phone under 30k"))
	assert.Equal(t, ranking.FocusBattery, FocusFor("long endurance please"))
	assert.Equal(t, ranking.FocusGaming, FocusFor("good for games"))
	assert.Equal(t, ranking.FocusValue, FocusFor("worth the money"))
	assert.Equal(t, ranking.FocusCompact, FocusFor("something for one hand use"))
	assert.Equal(t, ranking.FocusCamera, FocusFor("camera and battery"), "keyword order decides")
	assert.Equal(t, ranking.FocusNone, FocusFor("Show me Samsung phones"))
}

func TestPositionalReference(t *testing.T) {
	tests := map[string]int{
		"the first one":         0,
		"what about the 2nd":    1,
		"third please":          2,
		"I like this":           0,
		"tell me more":          0,
		"more details":          0,
		"that phone looks good": 0,
		"show me Samsung":       NoReference,
	}
	for text, want := range tests {
		assert.Equal(t, want, PositionalReference(text), text)
	}
}

func TestResolveDetails(t *testing.T) {
	last := []string{"a", "b", "c"}

	tests := []struct {
		name   string
		params Params
		last   []string
		want   Resolution
	}{
		{"explicit wins", Params{EntityIDs: []string{"x"}, Reference: 1}, last, Resolution{"x", StepExplicit}},
		{"second", Params{Reference: 1}, last, Resolution{"b", StepPositional}},
		{"second out of range", Params{Reference: 1}, []string{"a"}, Resolution{"", StepClarification}},
		{"wants context", Params{Reference: NoReference, WantsContext: true}, last, Resolution{"a", StepContext}},
		{"most recent", Params{Reference: NoReference}, last, Resolution{"a", StepRecent}},
		{"nothing known", Params{Reference: 0}, nil, Resolution{"", StepClarification}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDetails(tt.params, tt.last))
		})
	}
}

func TestSecondResolvesOnlyWithTwoEntries(t *testing.T) {
	p := Params{Reference: PositionalReference("the second")}
	for n := 0; n <= 3; n++ {
		last := []string{"p0", "p1", "p2"}[:n]
		got := ResolveDetails(p, last)
		if n >= 2 {
			assert.Equal(t, "p1", got.ProductID)
		} else {
			assert.False(t, got.Resolved())
		}
	}
}

func TestParseReply(t *testing.T) {
	raw := "```json\n{\"intent\": \"COMPARE\", \"budget_max\": 40000, \"budget_min\": 45000, \"brand\": \"samsung\"," +
		" \"features\": [\"camera\", \"OIS\"], \"phone_names\": [\"Pixel 8a\", \" \"], \"focus\": \"Camera\", \"confidence\": 1.4}\n```"

	res, err := ParseReply(raw)
	require.NoError(t, err)

	assert.Equal(t, LabelCompare, res.Label)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, SourceLLM, res.Source)
	assert.Equal(t, []string{"OIS"}, res.Params.Features)
	assert.Equal(t, []string{"Pixel 8a"}, res.Params.EntityNames)
	assert.Equal(t, ranking.FocusCamera, res.Params.Focus)

	_, err = ParseReply("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParseLabel(t *testing.T) {
	assert.Equal(t, LabelOffTopic, ParseLabel("OFF_TOPIC"))
	assert.Equal(t, LabelSearch, ParseLabel("SHOPPING"))
}

func TestNormalizeSwapsBounds(t *testing.T) {
	lo, hi := 40000, 20000
	p := Params{PriceMin: &lo, PriceMax: &hi}
	p.Normalize()
	assert.Equal(t, 20000, *p.PriceMin)
	assert.Equal(t, 40000, *p.PriceMax)
}

func TestExtractFallsBackToSearch(t *testing.T) {
	store := testStore(t)

	for name, ex := range map[string]*Extractor{
		"no provider":    NewExtractor(store, nil, Options{}, logger.NewNopLogger()),
		"provider error": NewExtractor(store, mock.Failing(errors.New("quota")), Options{}, logger.NewNopLogger()),
		"garbage reply":  NewExtractor(store, mock.New().Otherwise("sure!"), Options{}, logger.NewNopLogger()),
	} {
		t.Run(name, func(t *testing.T) {
			res := ex.Extract(context.Background(), "Compare Pixel 8a vs OnePlus 12R", nil)
			assert.Equal(t, LabelSearch, res.Label)
			assert.Equal(t, FallbackConfidence, res.Confidence)
			assert.Equal(t, SourceFallback, res.Source)
			// Backfill still runs.
			assert.Equal(t, []string{"pixel-8a", "oneplus-12r"}, res.Params.EntityIDs)
		})
	}
}

func TestExtractCameraScenario(t *testing.T) {
	ex := NewExtractor(testStore(t), nil, Options{}, logger.NewNopLogger())
	res := ex.Extract(context.Background(), "Best camera phone under 30k", nil)

	require.NotNil(t, res.Params.PriceMax)
	assert.Equal(t, 30000, *res.Params.PriceMax)
	assert.Equal(t, ranking.FocusCamera, res.Params.Focus)
}

func TestExtractKeepsCollaboratorFields(t *testing.T) {
	provider := mock.New().Otherwise(`{"intent":"FILTER","brand":"SAMSUNG","budget_max":25000,"focus":"battery","confidence":0.9}`)
	ex := NewExtractor(testStore(t), provider, Options{}, logger.NewNopLogger())

	res := ex.Extract(context.Background(), "samsung with big battery under 40k", []string{"hi"})
	assert.Equal(t, LabelFilter, res.Label)
	assert.Equal(t, "Samsung", res.Params.Brand)
	assert.Equal(t, 25000, *res.Params.PriceMax, "collaborator value is not overwritten")
	assert.Equal(t, ranking.FocusBattery, res.Params.Focus)
	assert.Contains(t, provider.Prompts()[0], `"hi"`)
}

func TestHeuristic(t *testing.T) {
	ex := NewExtractor(testStore(t), nil, Options{Heuristic: true}, logger.NewNopLogger())
	ctx := context.Background()

	tests := map[string]Label{
		"hello!":                          LabelGreeting,
		"Compare Pixel 8a vs OnePlus 12R": LabelCompare,
		"Pixel 8a vs OnePlus 12R":         LabelCompare,
		"OIS vs EIS":                      LabelExplain,
		"What is OIS?":                    LabelExplain,
		"tell me more":                    LabelDetails,
		"Show me Samsung phones":          LabelSearch,
	}
	for text, want := range tests {
		res := ex.Extract(ctx, text, nil)
		assert.Equal(t, want, res.Label, text)
		assert.Equal(t, SourceHeuristic, res.Source)
	}
}

func TestBackfillSignals(t *testing.T) {
	store := testStore(t)
	p := Params{Reference: NoReference}
	Backfill("compact samsung with fast charging and IP68, tell me more", &p, store)

	assert.True(t, p.Compact)
	assert.True(t, p.FastCharging)
	assert.True(t, p.WantsContext)
	assert.Equal(t, "Samsung", p.Brand)
	assert.Equal(t, []string{"IP68"}, p.Features)
	assert.Equal(t, 0, p.Reference)
}
