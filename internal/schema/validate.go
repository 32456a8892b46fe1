// Package schema validates serialized briefs against the embedded
// StructuredBrief JSON Schema.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed brief.schema.json
var briefSchema []byte

// BriefSchema returns the raw JSON Schema document.
func BriefSchema() []byte {
	out := make([]byte, len(briefSchema))
	copy(out, briefSchema)
	return out
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError reports a problem compiling the schema or loading the
// document, as opposed to a document that loaded and failed validation.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func briefValidator() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(briefSchema))
		if compileErr != nil {
			compileErr = &SchemaLoadError{Path: "brief.schema.json", Message: "invalid schema", Cause: compileErr}
		}
	})
	return compiled, compileErr
}

// ValidateBrief validates a JSON-encoded brief.
func ValidateBrief(doc []byte) error {
	return validate("(document)", gojsonschema.NewBytesLoader(doc))
}

// ValidateBriefFile validates the JSON brief stored at path.
func ValidateBriefFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve brief path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read brief: %w", err)
	}
	return validate(abs, gojsonschema.NewBytesLoader(data))
}

func validate(name string, doc gojsonschema.JSONLoader) error {
	s, err := briefValidator()
	if err != nil {
		return err
	}
	result, err := s.Validate(doc)
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "document is not valid JSON", Cause: err}
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}
