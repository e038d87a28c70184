package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAIKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("RESUMINE_AI_APIKEY", "")
}

func TestLoadDefaults(t *testing.T) {
	clearAIKeyEnv(t)

	cfg, err := load(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, int32(1500), cfg.AI.MaxOutputTokens)
	assert.Equal(t, "file", cfg.Results.Backend)
	assert.Equal(t, "data", cfg.Results.Dir)
	assert.Equal(t, 10, cfg.Results.ListLimit)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, time.Second, cfg.Watch.DebounceDelay)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.False(t, cfg.HasAIKey())
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)

	questions := cfg.GetQuestionsConfig()
	require.NotNil(t, questions.Timeout)
	assert.Equal(t, 60*time.Second, *questions.Timeout)

	analyze := cfg.GetAnalyzeConfig()
	require.NotNil(t, analyze.Timeout)
	assert.Equal(t, 30*time.Second, *analyze.Timeout)
	assert.True(t, analyze.CircuitBreaker.Enabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearAIKeyEnv(t)
	t.Setenv("RESUMINE_RESULTS_BACKEND", "sqlite")
	t.Setenv("RESUMINE_BATCH_CONCURRENCY", "8")
	t.Setenv("RESUMINE_EXTRACTION_REFERENCEYEAR", "2024")

	cfg, err := load(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Results.Backend)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, 2024, cfg.ReferenceYear())
}

func TestLoadRejectsInvalidBackend(t *testing.T) {
	clearAIKeyEnv(t)
	t.Setenv("RESUMINE_RESULTS_BACKEND", "redis")

	_, err := load(viper.New(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported results backend")
}

func TestGeminiKeyFallback(t *testing.T) {
	t.Setenv("RESUMINE_AI_APIKEY", "")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := load(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.AI.APIKey)
	assert.Equal(t, "g-key", cfg.GetScreenConfig().APIKey)
	assert.True(t, cfg.HasAIKey())
}

func TestServerAPIKeysFromEnvironment(t *testing.T) {
	clearAIKeyEnv(t)
	t.Setenv("RESUMINE_SERVER_APIKEYS", " one, two ,,three ")

	cfg, err := load(viper.New(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, cfg.Server.APIKeys)
}

func validConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     30 * time.Second,
			MaxRetries:  3,
			Temperature: 0.3,
		},
		Batch:   BatchConfig{Concurrency: 2},
		Results: ResultsConfig{Backend: "file", Dir: "data"},
		Server:  ServerConfig{Port: "8080", TLS: TLSConfig{Mode: "disabled"}},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid without api key", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.AI.Provider = "openai" }, "unsupported AI provider"},
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }, "timeout must be positive"},
		{"negative retries", func(c *Config) { c.AI.MaxRetries = -1 }, "maxRetries"},
		{"temperature too high", func(c *Config) { c.AI.Temperature = 2.5 }, "temperature"},
		{"negative reference year", func(c *Config) { c.Extraction.ReferenceYear = -1 }, "referenceYear"},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "concurrency"},
		{"bad backend", func(c *Config) { c.Results.Backend = "s3" }, "unsupported results backend"},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "port is required"},
		{"bad default format", func(c *Config) { c.App.DefaultFormat = "yaml" }, "invalid default format"},
		{"bad tls mode", func(c *Config) { c.Server.TLS.Mode = "on" }, "TLS configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReferenceYearDefaultsToCurrentYear(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, time.Now().Year(), cfg.ReferenceYear())

	cfg.Extraction.ReferenceYear = 2020
	assert.Equal(t, 2020, cfg.ReferenceYear())
}

func TestOperationConfigFallbacks(t *testing.T) {
	screenTimeout := 90 * time.Second
	screenTemp := float32(0.1)

	cfg := validConfig()
	cfg.AI.APIKey = "global-key"
	cfg.AI.SystemPrompt = "global system"
	cfg.AI.MaxOutputTokens = 1500
	cfg.AI.UseSystemPrompts = true
	cfg.AI.Screen = OperationAIConfig{
		Model:       "screen-model",
		Timeout:     &screenTimeout,
		Temperature: &screenTemp,
		APIKey:      "screen-key",
		Prompts:     PromptConfig{System: "screen system"},
	}

	screen := cfg.GetScreenConfig()
	assert.Equal(t, "gemini", screen.Provider)
	assert.Equal(t, "screen-model", screen.Model)
	assert.Equal(t, screenTimeout, *screen.Timeout)
	assert.Equal(t, screenTemp, *screen.Temperature)
	assert.Equal(t, "screen-key", screen.APIKey)
	assert.Equal(t, "screen system", screen.Prompts.System)
	assert.Equal(t, 3, *screen.MaxRetries)

	analyze := cfg.GetAnalyzeConfig()
	assert.Equal(t, "gemini-2.0-flash", analyze.Model)
	assert.Equal(t, "global-key", analyze.APIKey)
	assert.Equal(t, "global system", analyze.Prompts.System)
	assert.Equal(t, int32(1500), *analyze.MaxOutputTokens)
	assert.True(t, *analyze.UseSystemPrompts)

	_, ok := cfg.GetOperationConfig("tailor")
	assert.False(t, ok)
	questions, ok := cfg.GetOperationConfig(OperationQuestions)
	assert.True(t, ok)
	assert.Equal(t, "global-key", questions.APIKey)
}
