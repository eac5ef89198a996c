package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed simulation.schema.json
var simulationSchema string

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("simulation.schema.json", strings.NewReader(simulationSchema)); err != nil {
			compileErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("simulation.schema.json")
	})
	return compiledSchema, compileErr
}

// ValidateDocument checks raw configuration data against the simulation
// JSON Schema. YAML documents are converted to JSON values first.
//
// Returns nil if the document conforms, or a multierr error with one entry
// per schema violation.
func ValidateDocument(data []byte, path string) error {
	s, err := schema()
	if err != nil {
		return err
	}

	doc, err := decodeDocument(data, path)
	if err != nil {
		return err
	}

	if err := s.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return extractValidationErrors(validationErr)
		}
		return err
	}
	return nil
}

// decodeDocument returns the document as generic JSON values.
func decodeDocument(data []byte, path string) (any, error) {
	var doc any

	if isJSON(path) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	// Round-trip through JSON so numbers and maps have the JSON shapes
	// the validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return doc, nil
}

// extractValidationErrors flattens a jsonschema.ValidationError tree.
func extractValidationErrors(err *jsonschema.ValidationError) error {
	var errs error

	if len(err.Causes) == 0 && err.Message != "" {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		errs = multierr.Append(errs, &ValidationError{
			Field:   strings.ReplaceAll(field, "/", "."),
			Message: err.Message,
		})
	}

	for _, cause := range err.Causes {
		errs = multierr.Append(errs, extractValidationErrors(cause))
	}
	return errs
}
