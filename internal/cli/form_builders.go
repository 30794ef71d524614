package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/backplan/internal/cli/formatter"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// backplanHuhTheme returns a huh theme in the formatter palette.
func backplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validateOffset accepts any integer; negative offsets land after the
// update date.
func validateOffset(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("enter a whole number of business days")
	}
	return nil
}

// validateOptionalClock accepts empty or HH:MM.
func validateOptionalClock(s string) error {
	if s == "" {
		return nil
	}
	if _, err := domain.ParseClock(s); err != nil {
		return fmt.Errorf("use HH:MM (24-hour)")
	}
	return nil
}

// offsetInput returns a huh.Input for a business-day offset.
func offsetInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Description("Business days before the update date").
		Placeholder("5").
		Value(value).
		Validate(validateOffset)
}

// clockInput returns a huh.Input for an optional HH:MM clock time.
func clockInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalClock)
}

// stageFormValues holds raw form input before it is parsed into a stage.
type stageFormValues struct {
	Name      string
	Start     string
	End       string
	StartTime string
	EndTime   string
	Tables    []string
	ParentID  string
}

// stageForm builds the interactive stage editor. parents are the
// project's top-level stages; an empty ParentID means top level.
func stageForm(p *domain.Project, parents []*domain.WorkStage, v *stageFormValues) *huh.Form {
	tableOpts := make([]huh.Option[string], 0, len(domain.AllTables))
	for _, t := range domain.AllTables {
		tableOpts = append(tableOpts, huh.NewOption(p.TableName(t), string(t)))
	}

	fields := []huh.Field{
		huh.NewInput().Title("Stage name").Value(&v.Name).Validate(validateRequired),
		offsetInput("Start offset", &v.Start),
		offsetInput("End offset", &v.End),
		clockInput("Start time", "09:00", &v.StartTime),
		clockInput("End time", "18:00", &v.EndTime),
		huh.NewMultiSelect[string]().
			Title("Tables").
			Options(tableOpts...).
			Value(&v.Tables),
	}

	if len(parents) > 0 {
		parentOpts := []huh.Option[string]{huh.NewOption("(top level)", "")}
		for _, s := range parents {
			parentOpts = append(parentOpts, huh.NewOption(s.Name, s.ID))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Parent stage").
			Options(parentOpts...).
			Value(&v.ParentID))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(backplanHuhTheme()).
		WithShowHelp(false)
}

// toStage parses form values onto s.
func (v *stageFormValues) toStage(s *domain.WorkStage) error {
	start, err := strconv.Atoi(v.Start)
	if err != nil {
		return fmt.Errorf("start offset: %w", err)
	}
	end, err := strconv.Atoi(v.End)
	if err != nil {
		return fmt.Errorf("end offset: %w", err)
	}
	tables, err := parseTables(v.Tables)
	if err != nil {
		return err
	}

	s.Name = v.Name
	s.StartOffsetDays = start
	s.EndOffsetDays = end
	s.StartTime = v.StartTime
	s.EndTime = v.EndTime
	s.TableTargets = tables
	s.ParentStageID = nil
	if v.ParentID != "" {
		id := v.ParentID
		s.ParentStageID = &id
	}
	return nil
}
