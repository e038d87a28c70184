package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptFiles reads every configured prompt file into its inline field.
// Inline text set alongside a file is replaced by the file content.
func (c *Config) loadPromptFiles() error {
	if err := loadPromptInto(&c.AI.SystemPrompt, c.AI.SystemPromptFile, "global system"); err != nil {
		return err
	}

	operations := []struct {
		name string
		cfg  *OperationAIConfig
	}{
		{OperationAnalyze, &c.AI.Analyze},
		{OperationScreen, &c.AI.Screen},
		{OperationQuestions, &c.AI.Questions},
	}
	for _, op := range operations {
		if err := loadPromptInto(&op.cfg.Prompts.System, op.cfg.Prompts.SystemFile, op.name+" system"); err != nil {
			return err
		}
		if err := loadPromptInto(&op.cfg.Prompts.User, op.cfg.Prompts.UserFile, op.name+" user"); err != nil {
			return err
		}
	}
	return nil
}

func loadPromptInto(target *string, filePath, description string) error {
	if filePath == "" {
		return nil
	}
	content, err := loadPromptFromFile(filePath, description)
	if err != nil {
		return err
	}
	*target = content
	return nil
}

func loadPromptFromFile(filePath, description string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s prompt file '%s': %w", description, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s prompt file not found: %s", description, absPath)
		}
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", description, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", description, absPath)
	}

	log.Printf("[CONFIG] Loaded %s prompt from %s (%d characters)", description, absPath, len(trimmed))
	return trimmed, nil
}
