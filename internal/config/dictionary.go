package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"resumeparser/internal/errors"
	"resumeparser/internal/lexicon"
)

// Dictionary is the alias dictionary file. Example:
//
//	sections:
//	  skills: [toolbox, tech stack]
//	fields:
//	  experience:
//	    employer: company
type Dictionary struct {
	Sections map[string][]string          `yaml:"sections"`
	Fields   map[string]map[string]string `yaml:"fields"`
}

// LoadDictionary reads and decodes a YAML alias dictionary. Unknown top-level keys are rejected.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeDictionaryLoad, "failed to read alias dictionary", err).
			WithContext("path", path)
	}

	var d Dictionary
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.NewConfigError(errors.ErrCodeDictionaryLoad, "failed to decode alias dictionary", err).
			WithContext("path", path)
	}
	return &d, nil
}

// Merge returns a copy of p with the dictionary entries laid over its aliases.
// A dictionary section replaces the configured aliases of that section; field
// aliases are merged key by key.
func (p ParserConfig) Merge(d *Dictionary) ParserConfig {
	out := p
	out.SectionAliases = make(map[string][]string, len(p.SectionAliases))
	for k, v := range p.SectionAliases {
		out.SectionAliases[strings.ToLower(k)] = append([]string(nil), v...)
	}
	out.FieldAliases = make(map[string]map[string]string, len(p.FieldAliases))
	for section, fields := range p.FieldAliases {
		m := make(map[string]string, len(fields))
		for k, v := range fields {
			m[k] = v
		}
		out.FieldAliases[strings.ToLower(section)] = m
	}
	if d == nil {
		return out
	}

	for k, v := range d.Sections {
		out.SectionAliases[strings.ToLower(k)] = append([]string(nil), v...)
	}
	for section, fields := range d.Fields {
		section = strings.ToLower(section)
		m := out.FieldAliases[section]
		if m == nil {
			m = make(map[string]string, len(fields))
			out.FieldAliases[section] = m
		}
		for k, v := range fields {
			m[k] = v
		}
	}
	return out
}

// Effective returns the parser configuration with the alias dictionary file, if any, merged in
func (p ParserConfig) Effective() (ParserConfig, error) {
	if p.AliasesFile == "" {
		return p.Merge(nil), nil
	}
	d, err := LoadDictionary(p.AliasesFile)
	if err != nil {
		return p, err
	}
	return p.Merge(d), nil
}

// validateDictionaryFile makes a broken dictionary file fail at startup rather than at first parse
func (c *Config) validateDictionaryFile() error {
	if c.Parser.AliasesFile == "" {
		return nil
	}
	d, err := LoadDictionary(c.Parser.AliasesFile)
	if err != nil {
		return err
	}
	log.Printf("[CONFIG] Alias dictionary %s: %d section(s), %d field group(s)",
		c.Parser.AliasesFile, len(d.Sections), len(d.Fields))
	return nil
}

// LexiconOptions maps the parser configuration onto lexicon options. Empty lists keep the built-in ones.
func (p ParserConfig) LexiconOptions() lexicon.Options {
	l := p.Lexicon
	return lexicon.Options{
		NamePatterns:         l.NamePatterns,
		CommonFirstNames:     l.CommonFirstNames,
		CommonLanguages:      l.CommonLanguages,
		JobTitleKeywords:     l.JobTitleKeywords,
		DegreeKeywords:       l.DegreeKeywords,
		InstitutionKeywords:  l.InstitutionKeywords,
		PlaceholderPhrases:   l.PlaceholderPhrases,
		ProfessionalKeywords: l.ProfessionalKeywords,
		FieldAliases:         p.FieldAliases,
	}
}
