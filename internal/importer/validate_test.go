package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrStr(s string) *string     { return &s }
func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{ShortID: "APP01", Name: "App"},
		Stages: []StageImport{
			{Ref: "qa", Name: "QA", StartOffset: 13, EndOffset: 10},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_LowercaseShortIDAccepted(t *testing.T) {
	s := validMinimalSchema()
	s.Project.ShortID = "app01"
	assert.Empty(t, ValidateImportSchema(s))
}

func TestValidateImportSchema_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ImportSchema)
		contains string
	}{
		{"bad short id", func(s *ImportSchema) { s.Project.ShortID = "A1" }, "project.short_id"},
		{"missing name", func(s *ImportSchema) { s.Project.Name = "" }, "project.name is required"},
		{"bad table name key", func(s *ImportSchema) { s.Project.TableNames = map[string]string{"table9": "x"} }, "project.table_names"},
		{"duplicate ref", func(s *ImportSchema) {
			s.Stages = append(s.Stages, StageImport{Ref: "qa", Name: "QA again"})
		}, `duplicate ref "qa"`},
		{"unknown parent", func(s *ImportSchema) {
			s.Stages = append(s.Stages, StageImport{Ref: "sub", ParentRef: ptrStr("nope"), Name: "Sub"})
		}, `ref "nope" not found`},
		{"parent declared later", func(s *ImportSchema) {
			s.Stages = append([]StageImport{{Ref: "sub", ParentRef: ptrStr("qa"), Name: "Sub"}}, s.Stages...)
		}, "must appear earlier"},
		{"two levels of nesting", func(s *ImportSchema) {
			s.Stages = append(s.Stages,
				StageImport{Ref: "sub", ParentRef: ptrStr("qa"), Name: "Sub"},
				StageImport{Ref: "subsub", ParentRef: ptrStr("sub"), Name: "Sub sub"},
			)
		}, "only one level of nesting"},
		{"bad clock", func(s *ImportSchema) { s.Stages[0].EndTime = "24:00" }, "stages[0].end_time"},
		{"bad default table", func(s *ImportSchema) { s.Defaults = &DefaultsImport{Tables: []string{"x"}} }, "defaults.tables"},
		{"negative order", func(s *ImportSchema) { s.Stages[0].Order = ptrFloat(-1) }, "order must not be negative"},
		{"no stages", func(s *ImportSchema) { s.Stages = nil }, "at least one stage"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validMinimalSchema()
			tc.mutate(s)
			errs := ValidateImportSchema(s)
			if assert.NotEmpty(t, errs) {
				assert.Contains(t, ValidationErrors(errs).Error(), tc.contains)
			}
		})
	}
}
