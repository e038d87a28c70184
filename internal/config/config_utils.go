package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

func (c *Config) applyFallbacks() {
	c.applyAIKeyFallback()
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyAIKeyFallback honors the provider's conventional variable name
func (c *Config) applyAIKeyFallback() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// applyServerAPIKeyFallbacks accepts comma-separated key lists from the
// environment. Viper splits RESUMINE_SERVER_APIKEYS on commas without trimming.
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("RESUMINE_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = []string{apiKeysEnv}
		}
	}
	var keys []string
	for _, entry := range c.Server.APIKeys {
		keys = append(keys, splitAndTrim(entry)...)
	}
	c.Server.APIKeys = keys
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// logConfigurationSources logs where configuration came from, masking secrets
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"RESUMINE_AI_APIKEY",
		"RESUMINE_AI_PROVIDER",
		"RESUMINE_AI_MODEL",
		"RESUMINE_SERVER_PORT",
		"RESUMINE_SERVER_HOST",
		"RESUMINE_APP_LOGLEVEL",
		"RESUMINE_RESULTS_BACKEND",
		"RESUMINE_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG] env %s=%s", envVar, value)
	}

	aiKey := "***NOT SET*** (AI operations disabled)"
	if c.HasAIKey() {
		aiKey = "***CONFIGURED***"
	}
	log.Printf("[CONFIG] AI: provider=%s model=%s key=%s", c.AI.Provider, c.AI.Model, aiKey)
	log.Printf("[CONFIG] Results: backend=%s dir=%s", c.Results.Backend, c.Results.Dir)
	log.Printf("[CONFIG] Server: %s:%s tls=%s", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log level: %s, vault: %t, observability: %t", c.App.LogLevel, c.Vault.Enabled, c.Observability.Enabled)
}
