package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	var loaded LoadedPrompts
	if err := c.loadPromptPair(c.AI.CustomPrompts, "global", &loaded.Global); err != nil {
		return fmt.Errorf("failed to load global prompts: %w", err)
	}
	if err := c.loadPromptPair(c.AI.Structure.CustomPrompts, "structure", &loaded.Structure); err != nil {
		return fmt.Errorf("failed to load structure prompts: %w", err)
	}
	loadedPrompts.set(loaded)

	logPromptLoadingSummary(loaded)
	return nil
}

func (c *Config) loadPromptPair(prompts PromptConfig, scope string, target *PromptPair) error {
	if path := prompts.SystemPrompts.StructureResumeFile; path != "" {
		content, err := loadPromptFromFile(path, scope+" system", "structureResume")
		if err != nil {
			return err
		}
		target.System = content
	}
	if path := prompts.UserPrompts.StructureResumeFile; path != "" {
		content, err := loadPromptFromFile(path, scope+" user", "structureResume")
		if err != nil {
			return err
		}
		target.User = content
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s structureResume prompt: %s", promptType, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s structureResume prompt file not found: %s", promptType, absPath))
		}
	}

	validateFile(c.AI.CustomPrompts.SystemPrompts.StructureResumeFile, "system")
	validateFile(c.AI.CustomPrompts.UserPrompts.StructureResumeFile, "user")
	validateFile(c.AI.Structure.CustomPrompts.SystemPrompts.StructureResumeFile, "structure system")
	validateFile(c.AI.Structure.CustomPrompts.UserPrompts.StructureResumeFile, "structure user")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func logPromptLoadingSummary(loaded LoadedPrompts) {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptChecks := []struct {
		content string
		message string
	}{
		{loaded.Global.System, "[CONFIG] Global system structure prompt: loaded from file"},
		{loaded.Global.User, "[CONFIG] Global user structure prompt: loaded from file"},
		{loaded.Structure.System, "[CONFIG] Structure-specific system prompt: loaded from file"},
		{loaded.Structure.User, "[CONFIG] Structure-specific user prompt: loaded from file"},
	}

	count := 0
	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			count++
		}
	}

	if count == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", count)
	}

	log.Println("[CONFIG] ==========================================")
}
