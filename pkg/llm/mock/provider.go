// Package mock provides a scripted text-generation backend for tests and
// offline runs.
package mock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"ai-shopping-agent-be/pkg/llm"
)

var ErrScriptExhausted = errors.New("mock: no scripted reply left")

// Rule answers any prompt containing Contains.
type Rule struct {
	Contains string
	Reply    string
	Err      error
}

// Provider replies from a list of rules, first match wins. Prompts are
// recorded so tests can assert on what was sent.
type Provider struct {
	mu       sync.Mutex
	rules    []Rule
	fallback *Rule
	prompts  []string
}

var _ llm.LLMProvider = &Provider{}

func New(rules ...Rule) *Provider {
	return &Provider{rules: rules}
}

// Failing returns a provider whose every call fails with err.
func Failing(err error) *Provider {
	return &Provider{fallback: &Rule{Err: err}}
}

// Otherwise sets the reply for prompts no rule matches.
func (p *Provider) Otherwise(reply string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallback = &Rule{Reply: reply}
	return p
}

func (p *Provider) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	rules := p.rules
	fallback := p.fallback
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, r := range rules {
		if strings.Contains(prompt, r.Contains) {
			return r.Reply, r.Err
		}
	}
	if fallback != nil {
		return fallback.Reply, fallback.Err
	}
	return "", ErrScriptExhausted
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	parts := make([]string, len(history))
	for i, m := range history {
		parts[i] = m.Content
	}
	return p.Generate(ctx, strings.Join(parts, "\n"), opts...)
}

func (p *Provider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.prompts))
	copy(out, p.prompts)
	return out
}

// Calls counts prompts containing substr.
func (p *Provider) Calls(substr string) int {
	n := 0
	for _, prompt := range p.Prompts() {
		if strings.Contains(prompt, substr) {
			n++
		}
	}
	return n
}
