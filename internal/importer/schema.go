package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ImportSchema is the top-level structure of a project template file.
type ImportSchema struct {
	Project  ProjectImport   `json:"project"`
	Defaults *DefaultsImport `json:"defaults,omitempty"`
	Stages   []StageImport   `json:"stages"`
}

// ProjectImport defines the project-level fields in the import file.
// Setting an optional milestone offset also turns the milestone on.
type ProjectImport struct {
	ShortID           string            `json:"short_id"`
	Name              string            `json:"name"`
	HeadsUpOffset     *int              `json:"heads_up_offset,omitempty"`
	IOSReviewOffset   *int              `json:"ios_review_offset,omitempty"`
	PaidProductOffset *int              `json:"paid_product_offset,omitempty"`
	TableNames        map[string]string `json:"table_names,omitempty"`
}

// DefaultsImport defines file-wide defaults that cascade to stages.
type DefaultsImport struct {
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Tables    []string `json:"tables,omitempty"`
}

// StageImport defines a work stage. A stage with parent_ref is a sub-stage
// of the referenced top-level stage.
type StageImport struct {
	Ref         string   `json:"ref"`
	ParentRef   *string  `json:"parent_ref,omitempty"`
	Name        string   `json:"name"`
	StartOffset int      `json:"start_offset"`
	EndOffset   int      `json:"end_offset"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Order       *float64 `json:"order,omitempty"`
	Tables      []string `json:"tables,omitempty"`
}

// Format is the encoding of an import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format by file extension; anything but .toml is JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// LoadImportSchema reads, validates against the document schema, and parses
// a project import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, FormatFromPath(path))
}

// ParseImportSchema decodes data in the given format. TOML is normalized to
// JSON first so both formats go through the same document validation.
func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	if format == FormatTOML {
		var doc map[string]any
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("normalizing TOML: %w", err)
		}
		data = converted
	}

	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var schema ImportSchema
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
