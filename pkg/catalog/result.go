// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/darijamt/colmap/pkg/validator"
)

// Result holds the reports of a catalog run, in the same order as the
// entries.
type Result struct {
	RunID       string              `json:"run_id"`
	Reports     []*validator.Report `json:"reports"`
	PassedCount int                 `json:"passed"`
	FailedCount int                 `json:"failed"`
	Duration    time.Duration       `json:"duration"`
}

func newResult(runID string, reports []*validator.Report, duration time.Duration) *Result {
	result := &Result{
		RunID:    runID,
		Reports:  reports,
		Duration: duration,
	}
	for _, r := range reports {
		if r.Failed() {
			result.FailedCount++
			continue
		}
		result.PassedCount++
	}
	return result
}

// Failed returns true if any of the reports failed.
func (r *Result) Failed() bool {
	return r != nil && r.FailedCount > 0
}

// FailedReports returns the failed reports, in entry order.
func (r *Result) FailedReports() []*validator.Report {
	failed := []*validator.Report{}
	for _, report := range r.Reports {
		if report.Failed() {
			failed = append(failed, report)
		}
	}
	return failed
}

func (r *Result) Summary() string {
	return fmt.Sprintf("validated %d dataset subsets in %s: %d passed, %d failed (run %s)",
		len(r.Reports), r.Duration.Round(time.Millisecond), r.PassedCount, r.FailedCount, r.RunID)
}

func (r *Result) PrettyPrint() string {
	if r == nil {
		return ""
	}

	var prettyPrint strings.Builder
	prettyPrint.WriteString("Catalog validation status:\n")
	prettyPrint.WriteString(fmt.Sprintf(" - Run: %s\n", r.RunID))
	prettyPrint.WriteString(fmt.Sprintf(" - Passed: %d\n", r.PassedCount))
	prettyPrint.WriteString(fmt.Sprintf(" - Failed: %d\n", r.FailedCount))
	for _, report := range r.FailedReports() {
		prettyPrint.WriteString(fmt.Sprintf("   - %s\n", report.Line()))
	}

	// trim the last newline character
	return prettyPrint.String()[:len(prettyPrint.String())-1]
}
