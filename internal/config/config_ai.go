package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil || *opCfg.Timeout <= 0 {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetStructureConfig returns the AI configuration for résumé structuring with fallback to global config
func (c *Config) GetStructureConfig() OperationAIConfig {
	config := c.AI.Structure

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.StructureResume == "" {
		config.CustomPrompts.SystemPrompts.StructureResume = c.AI.CustomPrompts.SystemPrompts.StructureResume
	}
	if config.CustomPrompts.UserPrompts.StructureResume == "" {
		config.CustomPrompts.UserPrompts.StructureResume = c.AI.CustomPrompts.UserPrompts.StructureResume
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.StructureResumeFile == "" {
		config.CustomPrompts.SystemPrompts.StructureResumeFile = c.AI.CustomPrompts.SystemPrompts.StructureResumeFile
	}
	if config.CustomPrompts.UserPrompts.StructureResumeFile == "" {
		config.CustomPrompts.UserPrompts.StructureResumeFile = c.AI.CustomPrompts.UserPrompts.StructureResumeFile
	}

	return config
}

// GetLoadedPrompts returns a copy of the prompts loaded from files
func (c *Config) GetLoadedPrompts() LoadedPrompts {
	return loadedPrompts.get()
}

// StructurePrompts resolves the custom structure prompts. Precedence is
// operation file, operation inline, global file, global inline. Empty
// results mean the built-in prompt applies.
func (c *Config) StructurePrompts() PromptPair {
	loaded := loadedPrompts.get()
	return PromptPair{
		System: firstNonEmpty(
			loaded.Structure.System,
			c.AI.Structure.CustomPrompts.SystemPrompts.StructureResume,
			loaded.Global.System,
			c.AI.CustomPrompts.SystemPrompts.StructureResume,
		),
		User: firstNonEmpty(
			loaded.Structure.User,
			c.AI.Structure.CustomPrompts.UserPrompts.StructureResume,
			loaded.Global.User,
			c.AI.CustomPrompts.UserPrompts.StructureResume,
		),
	}
}
