package importer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed import.schema.json
var importSchemaJSON string

const importSchemaURL = "backplan://import.schema.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func documentSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(importSchemaURL, strings.NewReader(importSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("loading import schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(importSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateDocument checks the raw JSON document shape before it is decoded
// into ImportSchema.
func validateDocument(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			var errs ValidationErrors
			collectSchemaErrors(ve, &errs)
			if len(errs) > 0 {
				return errs
			}
		}
		return ValidationErrors{err}
	}
	return nil
}

// collectSchemaErrors flattens the leaf causes of a schema validation error.
func collectSchemaErrors(ve *jsonschema.ValidationError, out *ValidationErrors) {
	if len(ve.Causes) == 0 {
		*out = append(*out, fmt.Errorf("%s: %s", pointerToPath(ve.InstanceLocation), ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, out)
	}
}

// pointerToPath turns a JSON pointer like /stages/0/name into stages[0].name.
func pointerToPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "(root)"
	}
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if part != "" && strings.Trim(part, "0123456789") == "" {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
