// Package validate holds the strict source-integrity checks applied to
// prior_art artifacts before reranking and claims fetching. The checks exist
// to catch fabricated or test data leaking into a real run.
package validate

import (
	"fmt"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// maxListedViolations bounds how many violations an IntegrityError renders.
const maxListedViolations = 20

// Records checks every record for source integrity: provider label in the
// accepted set, no forbidden markers, and title plus patent_number-or-url on
// non-placeholder records. Returns one message per violation.
func Records(items []model.PriorArtRecord) []string {
	var errs []string
	for i, it := range items {
		n := i + 1
		source := strings.TrimSpace(it.Source)
		sourceL := strings.ToLower(source)
		for _, mark := range model.ForbiddenSourceMarkers {
			if strings.Contains(sourceL, mark) {
				errs = append(errs, fmt.Sprintf("item[%d] has forbidden source marker: %s", n, source))
				break
			}
		}
		if source != "" && !model.AcceptedSources[source] {
			errs = append(errs, fmt.Sprintf("item[%d] has unknown source: %s", n, source))
		}
		if it.IsPlaceholder() {
			continue
		}
		if textutil.NormalizePatentNumber(it.PatentNumber) == "" && strings.TrimSpace(it.URL) == "" {
			errs = append(errs, fmt.Sprintf("item[%d] missing patent_number/url", n))
		}
		if strings.TrimSpace(it.Title) == "" {
			errs = append(errs, fmt.Sprintf("item[%d] missing title", n))
		}
	}
	return errs
}

// IntegrityError aggregates validation violations.
type IntegrityError struct {
	Violations []string
}

func (e *IntegrityError) Error() string {
	listed := e.Violations
	extra := 0
	if len(listed) > maxListedViolations {
		extra = len(listed) - maxListedViolations
		listed = listed[:maxListedViolations]
	}
	msg := fmt.Sprintf("source integrity check failed (%d violations):\n  %s",
		len(e.Violations), strings.Join(listed, "\n  "))
	if extra > 0 {
		msg += fmt.Sprintf("\n  ... and %d more", extra)
	}
	return msg
}

// RecordsStrict returns an IntegrityError when any record fails validation.
func RecordsStrict(items []model.PriorArtRecord) error {
	errs := Records(items)
	if len(errs) == 0 {
		return nil
	}
	return &IntegrityError{Violations: errs}
}
