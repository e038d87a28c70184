package ai

import (
	stderrors "errors"
	"testing"
	"time"

	"resumine/internal/config"
	"resumine/internal/errors"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func breakerConfig(maxRequests, minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      maxRequests,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestIndependentCircuitBreakers(t *testing.T) {
	logger := errors.NewNopLogger()
	breakers := map[string]*AICircuitBreaker{
		"Analyze":   NewAICircuitBreaker("Analyze", breakerConfig(3, 3, 0.6), logger),
		"Screen":    NewAICircuitBreaker("Screen", breakerConfig(5, 2, 0.7), logger),
		"Questions": NewAICircuitBreaker("Questions", breakerConfig(4, 5, 0.5), logger),
	}

	for operation, cb := range breakers {
		t.Run(operation, func(t *testing.T) {
			require.NotNil(t, cb)
			stats := cb.GetStats()
			assert.Equal(t, "AI-"+operation, stats["name"])
			assert.Equal(t, "closed", stats["state"])
			assert.Equal(t, true, stats["enabled"])
			assert.True(t, cb.IsHealthy())
		})
	}

	assert.NotSame(t, breakers["Analyze"], breakers["Screen"])
	assert.NotSame(t, breakers["Screen"], breakers["Questions"])
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := &config.OperationAIConfig{CircuitBreaker: config.CircuitBreakerConfig{Enabled: false}}

	cb := NewAICircuitBreaker("Disabled", cfg, errors.NewNopLogger())
	assert.Nil(t, cb)
	assert.Nil(t, NewModelCircuitBreaker("Disabled", cfg, errors.NewNopLogger()))

	// A nil breaker runs the function directly and reports healthy
	calls := 0
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		calls++
		return &genai.GenerateContentResponse{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, cb.GetStats())
}

func TestCircuitBreakerTrips(t *testing.T) {
	cb := NewAICircuitBreaker("Trip", breakerConfig(1, 2, 0.5), errors.NewNopLogger())
	failing := func() (*genai.GenerateContentResponse, error) {
		return nil, stderrors.New("upstream failure")
	}

	_, err := cb.Execute(failing)
	require.Error(t, err)
	assert.True(t, cb.IsHealthy(), "one failure is below minRequests")

	_, err = cb.Execute(failing)
	require.Error(t, err)
	assert.False(t, cb.IsHealthy())

	calls := 0
	_, err = cb.Execute(func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Zero(t, calls)
}

func TestTripped(t *testing.T) {
	tests := []struct {
		name   string
		counts gobreaker.Counts
		want   bool
	}{
		{"no requests", gobreaker.Counts{}, false},
		{"below minimum", gobreaker.Counts{Requests: 2, TotalFailures: 2}, false},
		{"below threshold", gobreaker.Counts{Requests: 10, TotalFailures: 5}, false},
		{"at threshold", gobreaker.Counts{Requests: 10, TotalFailures: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tripped(tt.counts, 3, 0.6))
		})
	}
}
