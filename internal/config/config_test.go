package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 30, cfg.App.RateLimitPerMinute)
	assert.Equal(t, 0.7, cfg.Safety.ConfidenceThreshold)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 0.6, cfg.Search.TokenOverlap)
	assert.Equal(t, "embedded", cfg.Catalog.Source)
	assert.Equal(t, "search", cfg.Ai.IntentFallback)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SAFETY_CONFIDENCE_THRESHOLD", "0.85")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("LLM_TIMEOUT", "1500ms")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("LLM_PROVIDER", "Ollama")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := Load()

	assert.Equal(t, 0.85, cfg.Safety.ConfidenceThreshold)
	assert.Equal(t, 90*time.Second, cfg.Session.TTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Ai.LLMTimeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Equal(t, 30, cfg.App.RateLimitPerMinute)
}
