package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"resumeparser/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ParseResult", &ParseTextFormatter{})
	registry.RegisterFormatter("markdown", "ParseResult", &ParseMarkdownFormatter{})
	registry.RegisterFormatter("text", "ParseResults", &BatchFormatter{single: &ParseTextFormatter{}, separator: "\n" + strings.Repeat("=", 60) + "\n\n"})
	registry.RegisterFormatter("markdown", "ParseResults", &BatchFormatter{single: &ParseMarkdownFormatter{}, separator: "\n---\n\n"})
	registry.RegisterFormatter("text", "Sections", &SectionsTextFormatter{})
	registry.RegisterFormatter("markdown", "Sections", &SectionsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ParseResult:
		return "ParseResult"
	case []types.ParseResult:
		return "ParseResults"
	case []types.DetectedSection:
		return "Sections"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// BatchFormatter renders several parse results one after another
type BatchFormatter struct {
	single    Formatter
	separator string
}

func (bf *BatchFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.ParseResult)
	if !ok {
		return "", fmt.Errorf("expected []ParseResult, got %T", data)
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		out, err := bf.single.Format(r)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, bf.separator), nil
}

func (bf *BatchFormatter) SupportedType() string {
	return "ParseResults"
}

// SectionsTextFormatter lists detected sections for debugging
type SectionsTextFormatter struct{}

func (stf *SectionsTextFormatter) Format(data any) (string, error) {
	sections, ok := data.([]types.DetectedSection)
	if !ok {
		return "", fmt.Errorf("expected []DetectedSection, got %T", data)
	}
	if len(sections) == 0 {
		return "No sections detected.\n", nil
	}

	var output strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&output, "=== %s (%s, %d lines) ===\n", strings.ToUpper(s.Name), s.Source, len(s.Lines))
		for _, line := range s.Lines {
			fmt.Fprintf(&output, "  %s\n", line)
		}
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (stf *SectionsTextFormatter) SupportedType() string {
	return "Sections"
}

// SectionsMarkdownFormatter lists detected sections as a markdown document
type SectionsMarkdownFormatter struct{}

func (smf *SectionsMarkdownFormatter) Format(data any) (string, error) {
	sections, ok := data.([]types.DetectedSection)
	if !ok {
		return "", fmt.Errorf("expected []DetectedSection, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Detected Sections\n\n")
	if len(sections) == 0 {
		output.WriteString("_None._\n")
		return output.String(), nil
	}
	output.WriteString("| Section | Source | Lines |\n|---|---|---|\n")
	for _, s := range sections {
		fmt.Fprintf(&output, "| %s | %s | %d |\n", s.Name, s.Source, len(s.Lines))
	}
	for _, s := range sections {
		fmt.Fprintf(&output, "\n## %s\n\n```\n%s\n```\n", s.Name, strings.Join(s.Lines, "\n"))
	}
	return output.String(), nil
}

func (smf *SectionsMarkdownFormatter) SupportedType() string {
	return "Sections"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
