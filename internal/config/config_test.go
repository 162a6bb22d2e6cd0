package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"GROQ_API_KEY":          "groq-key",
		"GOOGLE_PLACES_API_KEY": "places-key",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "groq", cfg.AI.Provider)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.AI.GroqBaseURL)
	assert.Equal(t, uint(3000), cfg.Generation.SearchRadiusM)
	assert.Equal(t, 20, cfg.Generation.MaxResults)
	assert.Equal(t, 90*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Redis.CacheTTL)
}

func TestFromViper_GeminiNeedsKey(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]any{
		"WAYFARER_AI_PROVIDER":  "Gemini",
		"GOOGLE_PLACES_API_KEY": "places-key",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestFromViper_CollectsAllProblems(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]any{
		"WAYFARER_AI_PROVIDER":        "llama",
		"WAYFARER_SEARCH_MAX_RESULTS": 50,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown WAYFARER_AI_PROVIDER "llama"`)
	assert.Contains(t, err.Error(), "GOOGLE_PLACES_API_KEY")
	assert.Contains(t, err.Error(), "must be in 1..20")
}
