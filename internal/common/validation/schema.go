// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "finops-assessment/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema used to check job variables, API bodies
// and structured oracle output before they are trusted.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

func Compile(name, schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for package-level schema literals.
func MustCompile(name, schemaJSON string) *Schema {
	s, err := Compile(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// ValidateJSON validates a raw JSON document.
func (s *Schema) ValidateJSON(raw []byte) error {
	return s.validate(gojsonschema.NewBytesLoader(raw))
}

// Validate validates a Go value (map, struct or slice) as JSON.
func (s *Schema) Validate(doc interface{}) error {
	return s.validate(gojsonschema.NewGoLoader(doc))
}

func (s *Schema) validate(loader gojsonschema.JSONLoader) error {
	result, err := s.schema.Validate(loader)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("%s: document is not valid JSON: %v", s.name, err))
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		messages = append(messages, e.String())
	}
	sort.Strings(messages)

	return apperrors.NewValidationError(fmt.Sprintf("%s: %s", s.name, strings.Join(messages, "; "))).
		WithMetadata("violations", messages)
}
