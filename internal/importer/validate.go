package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
)

// ValidationErrors collects every problem found in an import file.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(v))
	for _, e := range v {
		msg += "\n  - " + e.Error()
	}
	return msg
}

// ValidateImportSchema checks the semantic rules the document schema cannot
// express: short ID format, unique refs, parent references and nesting depth.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)
	errs = append(errs, validateDefaults(schema.Defaults)...)
	errs = append(errs, validateStages(schema.Stages)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		probe := domain.Project{ShortID: strings.ToUpper(p.ShortID)}
		if err := probe.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	for key := range p.TableNames {
		if _, err := domain.ParseTableID(key); err != nil {
			errs = append(errs, fmt.Errorf("project.table_names: %w", err))
		}
	}
	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	var errs []error
	errs = append(errs, validateOptionalClock("defaults.start_time", d.StartTime)...)
	errs = append(errs, validateOptionalClock("defaults.end_time", d.EndTime)...)
	errs = append(errs, validateTables("defaults.tables", d.Tables)...)
	return errs
}

func validateStages(stages []StageImport) []error {
	var errs []error
	if len(stages) == 0 {
		errs = append(errs, fmt.Errorf("stages: at least one stage is required"))
	}

	// ref -> whether the stage is top-level
	topLevel := make(map[string]bool, len(stages))
	for i, s := range stages {
		prefix := fmt.Sprintf("stages[%d]", i)

		if s.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := topLevel[s.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, s.Ref))
		}

		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		isTop := s.ParentRef == nil || *s.ParentRef == ""
		if !isTop {
			parentTop, ok := topLevel[*s.ParentRef]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in stages list)", prefix, *s.ParentRef))
			case !parentTop:
				errs = append(errs, fmt.Errorf("%s.parent_ref: %q is itself a sub-stage (only one level of nesting)", prefix, *s.ParentRef))
			}
		}
		if s.Ref != "" {
			if _, dup := topLevel[s.Ref]; !dup {
				topLevel[s.Ref] = isTop
			}
		}

		errs = append(errs, validateOptionalClock(prefix+".start_time", s.StartTime)...)
		errs = append(errs, validateOptionalClock(prefix+".end_time", s.EndTime)...)
		errs = append(errs, validateTables(prefix+".tables", s.Tables)...)
		if s.Order != nil && *s.Order < 0 {
			errs = append(errs, fmt.Errorf("%s.order must not be negative", prefix))
		}
	}
	return errs
}

func validateOptionalClock(field, value string) []error {
	if value == "" {
		return nil
	}
	if _, err := domain.ParseClock(value); err != nil {
		return []error{fmt.Errorf("%s: %w", field, err)}
	}
	return nil
}

func validateTables(field string, tables []string) []error {
	var errs []error
	for _, t := range tables {
		if _, err := domain.ParseTableID(t); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	return errs
}
