package ai

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

//go:embed schema/resume.schema.json
var resumeSchemaJSON []byte

var canonicalSchema = mustCompileSchema(resumeSchemaJSON)

func mustCompileSchema(doc []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("compile embedded résumé schema: %v", err))
	}
	return s
}

// SchemaDocument returns the canonical record schema as JSON
func SchemaDocument() []byte {
	return append([]byte(nil), resumeSchemaJSON...)
}

// ValidateRecord checks a normalized record against the canonical schema
func ValidateRecord(r *types.ParsedResume) error {
	result, err := canonicalSchema.Validate(gojsonschema.NewGoLoader(r))
	if err != nil {
		return errors.NewAIError(errors.ErrCodeAISchemaInvalid, "failed to validate structured record", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return errors.NewAIError(errors.ErrCodeAISchemaInvalid, "structured record does not match schema", nil).
		WithContext("violations", strings.Join(msgs, "; "))
}

// ResponseSchema is the canonical record expressed for Gemini's constrained decoding
func ResponseSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	object := func(fields ...string) *genai.Schema {
		props := make(map[string]*genai.Schema, len(fields))
		for _, f := range fields {
			props[f] = str()
		}
		return &genai.Schema{Type: genai.TypeObject, Properties: props, PropertyOrdering: fields}
	}
	list := func(item *genai.Schema) *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: item}
	}

	titles := object("title")
	titles.Required = []string{"title"}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"contact": object("firstName", "lastName", "desiredJobTitle", "phone", "email",
				"country", "city", "address", "postCode"),
			"experiences":    list(object("jobTitle", "company", "location", "startDate", "endDate", "description")),
			"education":      list(object("school", "degree", "location", "startDate", "endDate", "description")),
			"skills":         list(object("name", "level")),
			"languages":      list(object("name", "proficiency")),
			"certifications": list(titles),
			"awards":         list(titles),
			"websites":       list(object("label", "url")),
			"references":     list(object("name", "relationship", "contactInfo")),
			"hobbies":        list(str()),
			"summary":        str(),
		},
		Required: []string{"contact", "experiences", "education", "skills"},
	}
}
