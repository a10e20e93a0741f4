// Package cache wraps a text-generation backend with a Redis response cache.
package cache

import (
	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/pkg/llm"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 5 * time.Minute
	keyPrefix  = "llm:resp:"
)

// Provider serves repeated prompts from Redis. Redis errors never fail a call;
// the request goes to the wrapped backend instead.
type Provider struct {
	next   llm.LLMProvider
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

var _ llm.LLMProvider = &Provider{}

func New(next llm.LLMProvider, rdb *redis.Client, ttl time.Duration, log logger.ILogger) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{next: next, rdb: rdb, ttl: ttl, logger: log}
}

// Key derives the cache key from everything that changes the output.
func Key(prompt string, options llm.Options) string {
	h := sha256.New()
	h.Write([]byte(options.Model))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(options.JSON)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(options.Temperature, 'f', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	key := Key(prompt, llm.Apply(llm.Options{}, opts...))

	cached, err := p.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		p.logger.Debug("LLM", "Response cache hit", map[string]interface{}{"key": key})
		return cached, nil
	case !errors.Is(err, redis.Nil):
		p.logger.Warn("LLM", "Response cache read failed", map[string]interface{}{"error": err.Error()})
	}

	text, err := p.next.Generate(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		if err := p.rdb.Set(ctx, key, text, p.ttl).Err(); err != nil {
			p.logger.Warn("LLM", "Response cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return text, nil
}

// Chat bypasses the cache; multi-turn histories rarely repeat.
func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.next.Chat(ctx, history, opts...)
}
