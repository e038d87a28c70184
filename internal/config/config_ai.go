package config

// Operation names used for per-operation AI configuration
const (
	OperationAnalyze   = "analyze"
	OperationScreen    = "screen"
	OperationQuestions = "questions"
)

// applyOperationDefaults fills unset operation fields from the global AI config
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.MaxOutputTokens == nil {
		opCfg.MaxOutputTokens = &c.AI.MaxOutputTokens
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
	if opCfg.Prompts.System == "" {
		opCfg.Prompts.System = c.AI.SystemPrompt
	}
}

// GetAnalyzeConfig returns the resolved AI configuration for resume analysis
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	opCfg := c.AI.Analyze
	c.applyOperationDefaults(&opCfg)
	return opCfg
}

// GetScreenConfig returns the resolved AI configuration for candidate screening
func (c *Config) GetScreenConfig() OperationAIConfig {
	opCfg := c.AI.Screen
	c.applyOperationDefaults(&opCfg)
	return opCfg
}

// GetQuestionsConfig returns the resolved AI configuration for interview questions
func (c *Config) GetQuestionsConfig() OperationAIConfig {
	opCfg := c.AI.Questions
	c.applyOperationDefaults(&opCfg)
	return opCfg
}

// GetOperationConfig resolves the AI configuration for a named operation.
func (c *Config) GetOperationConfig(operation string) (OperationAIConfig, bool) {
	switch operation {
	case OperationAnalyze:
		return c.GetAnalyzeConfig(), true
	case OperationScreen:
		return c.GetScreenConfig(), true
	case OperationQuestions:
		return c.GetQuestionsConfig(), true
	default:
		return OperationAIConfig{}, false
	}
}
