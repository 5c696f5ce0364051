package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Test system prompt for structuring"
	userPromptContent := "Test user prompt template: %s"

	systemPromptFile := filepath.Join(tempDir, "system.structure.md")
	userPromptFile := filepath.Join(tempDir, "user.structure.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}

	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Structure: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						StructureResumeFile: systemPromptFile,
					},
					UserPrompts: UserPrompts{
						StructureResumeFile: userPromptFile,
					},
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	loaded := config.GetLoadedPrompts()

	if loaded.Structure.System != systemPromptContent {
		t.Errorf("Expected loaded system prompt content '%s', got '%s'",
			systemPromptContent, loaded.Structure.System)
	}

	if loaded.Structure.User != userPromptContent {
		t.Errorf("Expected loaded user prompt content '%s', got '%s'",
			userPromptContent, loaded.Structure.User)
	}

	// File paths are left untouched
	if config.AI.Structure.CustomPrompts.SystemPrompts.StructureResumeFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create valid test file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Structure: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						StructureResumeFile: validFile,
					},
				},
			},
		},
	}

	if err := config.validatePromptFiles(); err != nil {
		t.Errorf("Expected validation to pass for valid file, got error: %v", err)
	}

	config.AI.Structure.CustomPrompts.SystemPrompts.StructureResumeFile = filepath.Join(tempDir, "nonexistent.md")

	if err := config.validatePromptFiles(); err == nil {
		t.Error("Expected validation to fail for non-existent file")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "Test prompt content"
	testFile := filepath.Join(tempDir, "test.md")
	if err := os.WriteFile(testFile, []byte("\n  "+content+"\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loadedContent, err := loadPromptFromFile(testFile, "system", "structureResume")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}

	if loadedContent != content {
		t.Errorf("Expected content '%s', got '%s'", content, loadedContent)
	}

	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte("   "), 0600); err != nil {
		t.Fatalf("Failed to create empty test file: %v", err)
	}

	if _, err := loadPromptFromFile(emptyFile, "system", "structureResume"); err == nil {
		t.Error("Expected error for empty file")
	}

	if _, err := loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", "structureResume"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestStructurePromptPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	globalFile := filepath.Join(tempDir, "global.md")
	if err := os.WriteFile(globalFile, []byte("global system from file"), 0600); err != nil {
		t.Fatalf("Failed to create prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "test-model",
			Timeout:  60 * time.Second,
			APIKey:   "test-key",
			CustomPrompts: PromptConfig{
				SystemPrompts: SystemPrompts{
					StructureResume:     "global system inline",
					StructureResumeFile: globalFile,
				},
				UserPrompts: UserPrompts{StructureResume: "global user inline"},
			},
			Structure: OperationAIConfig{
				CustomPrompts: PromptConfig{
					UserPrompts: UserPrompts{StructureResume: "structure user inline"},
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	prompts := config.StructurePrompts()
	if prompts.System != "global system from file" {
		t.Errorf("Expected file prompt to win over inline global prompt, got '%s'", prompts.System)
	}
	if prompts.User != "structure user inline" {
		t.Errorf("Expected operation prompt to win over global prompt, got '%s'", prompts.User)
	}
}
