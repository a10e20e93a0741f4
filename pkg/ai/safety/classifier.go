package safety

import (
	"ai-shopping-agent-be/internal/pkg/logger"
	"context"
)

type Label string

const (
	LabelNone        Label = ""
	LabelOffTopic    Label = "off_topic"
	LabelAdversarial Label = "adversarial"
)

const (
	ReasonPromptInjection = "prompt_injection"
	ReasonToxicContent    = "toxic_content"
	ReasonOffTopic        = "off_topic"
)

// Verdict is the outcome of a safety check. Tier is 0 when nothing fired.
type Verdict struct {
	Label      Label   `json:"label"`
	Category   string  `json:"category,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Tier       int     `json:"tier,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

func (v Verdict) Safe() bool {
	return v.Label == LabelNone
}

// SemanticChecker is the optional second tier. Implementations must fail open:
// ok is false whenever they cannot give a confident unsafe verdict.
type SemanticChecker interface {
	Check(ctx context.Context, text string) (v Verdict, ok bool)
}

type Classifier struct {
	registry *Registry
	semantic SemanticChecker
	logger   logger.ILogger
}

// NewClassifier wires the pattern registry with an optional semantic tier
// (nil disables it).
func NewClassifier(registry *Registry, semantic SemanticChecker, log logger.ILogger) *Classifier {
	return &Classifier{registry: registry, semantic: semantic, logger: log}
}

func fromMatch(m Match) Verdict {
	v := Verdict{Category: m.Category, Tier: 1, Confidence: 1}
	switch m.Severity {
	case SeverityAdversarial:
		v.Label = LabelAdversarial
		v.Reason = ReasonPromptInjection + ":" + m.Category
	case SeverityToxicity:
		v.Label = LabelAdversarial
		v.Reason = ReasonToxicContent
	default:
		v.Label = LabelOffTopic
		v.Reason = ReasonOffTopic
	}
	return v
}

// ClassifyPatterns runs Tier 1 only. It is deterministic and has no side effects.
func (c *Classifier) ClassifyPatterns(text string, history []string) Verdict {
	previous := ""
	if n := len(history); n > 0 {
		previous = history[n-1]
	}
	m, ok := c.registry.Match(text, previous)
	if !ok {
		return Verdict{}
	}
	return fromMatch(m)
}

// Classify runs Tier 1, then Tier 2 when configured and Tier 1 passed. history
// holds the earlier user messages, oldest first.
func (c *Classifier) Classify(ctx context.Context, text string, history []string) Verdict {
	if v := c.ClassifyPatterns(text, history); !v.Safe() {
		c.logger.Info("SAFETY", "Message blocked by pattern", map[string]interface{}{
			"category": v.Category,
			"reason":   v.Reason,
		})
		return v
	}

	if c.semantic == nil {
		return Verdict{}
	}

	v, ok := c.semantic.Check(ctx, text)
	if !ok {
		return Verdict{}
	}
	c.logger.Info("SAFETY", "Message blocked by semantic check", map[string]interface{}{
		"category":   v.Category,
		"confidence": v.Confidence,
	})
	return v
}
