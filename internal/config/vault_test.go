package config

import (
	"fmt"
	"testing"

	"resumine/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretReader map[string]*api.Secret

func (f fakeSecretReader) Read(path string) (*api.Secret, error) {
	if path == "secret/data/broken" {
		return nil, fmt.Errorf("permission denied")
	}
	return f[path], nil
}

func kv2(data map[string]any, version any) *api.Secret {
	return &api.Secret{Data: map[string]any{
		"data":     data,
		"metadata": map[string]any{"version": version},
	}}
}

func newFakeVaultClient() *VaultClient {
	return &VaultClient{
		logical: fakeSecretReader{
			"secret/data/server": kv2(map[string]any{"keys": "alpha, beta"}, float64(3)),
			"secret/data/gemini": kv2(map[string]any{"api_key": "gemini-secret-key"}, "2"),
			"secret/data/tls":    kv2(map[string]any{"cert": "CERT PEM", "key": "KEY PEM"}, int64(1)),
			"secret/data/kv1":    {Data: map[string]any{"api_key": "flat"}},
			"secret/data/number": kv2(map[string]any{"api_key": 42}, int64(1)),
		},
		logger: errors.NewNopLogger(),
	}
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{"int64", int64(42), 42, false},
		{"float64", float64(42), 42, false},
		{"string", "42", 42, false},
		{"bad string", "forty-two", 0, true},
		{"missing", nil, 0, true},
		{"unsupported", []string{"42"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/data/x")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetSecretV2(t *testing.T) {
	client := newFakeVaultClient()

	secret, err := client.GetSecretV2("secret/data/gemini")
	require.NoError(t, err)
	assert.Equal(t, int64(2), secret.Version)
	assert.Equal(t, "gemini-secret-key", secret.Data["api_key"])

	_, err = client.GetSecretV2("secret/data/missing")
	assert.ErrorContains(t, err, "secret not found")

	_, err = client.GetSecretV2("secret/data/kv1")
	assert.ErrorContains(t, err, "not in KVv2 format")

	_, err = client.GetSecretV2("secret/data/broken")
	assert.ErrorContains(t, err, "permission denied")

	var nilClient *VaultClient
	_, err = nilClient.GetSecretV2("secret/data/gemini")
	assert.ErrorContains(t, err, "not initialized")
}

func TestGetStringSecrets(t *testing.T) {
	client := newFakeVaultClient()

	keys, err := client.GetStringSliceSecret("secret/data/server", "keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, keys)

	_, err = client.GetStringSecret("secret/data/gemini", "token")
	assert.ErrorContains(t, err, "key 'token' not found")

	_, err = client.GetStringSecret("secret/data/number", "api_key")
	assert.ErrorContains(t, err, "is not a string")
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{Screen: OperationAIConfig{APIKey: "own-screen-key"}},
		Vault: VaultConfig{Enabled: true, Secrets: VaultSecrets{
			APIKeys:   "secret/data/server",
			GeminiKey: "secret/data/gemini",
			TLSCerts:  "secret/data/tls",
		}},
	}

	require.NoError(t, applySecrets(newFakeVaultClient(), cfg, errors.NewNopLogger()))

	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
	assert.Equal(t, "gemini-secret-key", cfg.AI.APIKey)
	assert.Equal(t, "gemini-secret-key", cfg.AI.Analyze.APIKey)
	assert.Equal(t, "own-screen-key", cfg.AI.Screen.APIKey)
	assert.Equal(t, "gemini-secret-key", cfg.AI.Questions.APIKey)
	assert.Equal(t, "CERT PEM", cfg.Server.TLS.CertContent)
	assert.Equal(t, "KEY PEM", cfg.Server.TLS.KeyContent)
	assert.Empty(t, cfg.Server.TLS.CAContent)
}

func TestApplySecretsPropagatesErrors(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{GeminiKey: "secret/data/broken"}}}

	err := applySecrets(newFakeVaultClient(), cfg, errors.NewNopLogger())
	assert.ErrorContains(t, err, "failed to load Gemini API key")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, ApplyVaultSecrets(cfg, errors.NewNopLogger()))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "gemi****-key", maskSecret("gemini-secret-key"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}
