package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// ValidateBatch checks a batch file before conversion and reports every
// problem found, not just the first.
func ValidateBatch(batch *BatchFile) []error {
	var errs []error

	if len(batch.Tasks) == 0 {
		errs = append(errs, fmt.Errorf("tasks: at least one task is required"))
	}
	if len(batch.Tasks) > contract.MaxBatchSize {
		errs = append(errs, fmt.Errorf("tasks: at most %d tasks per batch, got %d", contract.MaxBatchSize, len(batch.Tasks)))
	}

	if d := batch.Defaults; d != nil {
		if d.Importance != 0 && !validImportance(d.Importance) {
			errs = append(errs, fmt.Errorf("defaults.importance: must be between %d and %d, got %d", domain.MinImportance, domain.MaxImportance, d.Importance))
		}
		if d.EstimatedMinutes != nil && *d.EstimatedMinutes <= 0 {
			errs = append(errs, fmt.Errorf("defaults.estimated_minutes: must be positive, got %d", *d.EstimatedMinutes))
		}
	}

	for i, t := range batch.Tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if t.Importance != 0 && !validImportance(t.Importance) {
			errs = append(errs, fmt.Errorf("%s.importance: must be between %d and %d, got %d", prefix, domain.MinImportance, domain.MaxImportance, t.Importance))
		}
		if t.EstimatedMinutes != nil && *t.EstimatedMinutes <= 0 {
			errs = append(errs, fmt.Errorf("%s.estimated_minutes: must be positive, got %d", prefix, *t.EstimatedMinutes))
		}
		if t.Due != "" {
			if _, err := ParseDue(t.Due, nil); err != nil {
				errs = append(errs, fmt.Errorf("%s.due: %w", prefix, err))
			}
		}
	}
	return errs
}

func validImportance(v int) bool {
	return v >= domain.MinImportance && v <= domain.MaxImportance
}
