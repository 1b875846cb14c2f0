package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/domain"
)

var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

const dateLayout = "2006-01-02"

// ParseDue parses a due value. Values without a zone are read in loc (UTC
// when nil). A bare date means 23:59 on that day.
func ParseDue(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if d, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return d.Add(23*time.Hour + 59*time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD)", s)
}

// Convert turns a validated batch into prioritization input, applying file
// defaults first and the global importance default last.
func Convert(batch *BatchFile, loc *time.Location) ([]contract.TaskInput, error) {
	defaults := DefaultsImport{}
	if batch.Defaults != nil {
		defaults = *batch.Defaults
	}

	out := make([]contract.TaskInput, 0, len(batch.Tasks))
	for i, t := range batch.Tasks {
		in := contract.TaskInput{
			Title:       t.Title,
			Description: t.Description,
			Importance:  domain.IntFromPtrWithDefault(domain.DefaultImportance, nonZero(t.Importance), nonZero(defaults.Importance)),
		}
		switch {
		case t.EstimatedMinutes != nil:
			in.EstimatedMinutes = domain.IntPtr(*t.EstimatedMinutes)
		case defaults.EstimatedMinutes != nil:
			in.EstimatedMinutes = domain.IntPtr(*defaults.EstimatedMinutes)
		}
		if t.Due != "" {
			due, err := ParseDue(t.Due, loc)
			if err != nil {
				return nil, fmt.Errorf("tasks[%d].due: %w", i, err)
			}
			in.DueAt = &due
		}
		out = append(out, in)
	}
	return out, nil
}

func nonZero(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
