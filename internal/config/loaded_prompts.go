package config

import (
	"sync"
)

// loadedPrompts holds file-loaded prompt content for the running process
var loadedPrompts promptStore

// PromptPair holds a system instruction and a user prompt template
type PromptPair struct {
	System string
	User   string
}

// LoadedPrompts holds the content of prompts loaded from files
type LoadedPrompts struct {
	Global    PromptPair
	Structure PromptPair
}

type promptStore struct {
	mu      sync.RWMutex
	prompts LoadedPrompts
}

func (s *promptStore) get() LoadedPrompts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompts
}

func (s *promptStore) set(p LoadedPrompts) {
	s.mu.Lock()
	s.prompts = p
	s.mu.Unlock()
}

// firstNonEmpty returns the first non-empty value, or ""
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
