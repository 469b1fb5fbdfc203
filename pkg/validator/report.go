// SPDX-License-Identifier: Apache-2.0

package validator

import (
	"fmt"
	"strings"
)

// FailureKind identifies the first class of failure found while validating
// the columns of a dataset subset.
type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureUnknownDataset    FailureKind = "unknown_dataset"
	FailureUnknownSubset     FailureKind = "unknown_subset"
	FailureMissingColumns    FailureKind = "missing_columns"
	FailureTypeCollision     FailureKind = "type_collision"
	FailureInvalidExtra      FailureKind = "invalid_extra_columns"
	FailureMissingColumnType FailureKind = "missing_column_type"
	// FailureSource is used by callers that could not obtain the columns of
	// the dataset in the first place.
	FailureSource FailureKind = "source_error"
)

// Report is the result of validating the columns of a dataset subset. All
// the diagnostics found are kept, while the message describes the first
// class of failure found.
type Report struct {
	Dataset        string      `json:"dataset"`
	Subset         string      `json:"subset"`
	Split          string      `json:"split,omitempty"`
	Status         bool        `json:"status"`
	Kind           FailureKind `json:"kind,omitempty"`
	Message        string      `json:"message"`
	Columns        []string    `json:"columns"`
	MissingColumns []string    `json:"missing_columns,omitempty"`
	InvalidColumns []string    `json:"invalid_columns,omitempty"`
	InvalidExtra   []string    `json:"invalid_extra,omitempty"`
	MissingTypes   []string    `json:"missing_types,omitempty"`
}

// NewSourceErrorReport returns a failed report for a dataset subset whose
// columns could not be retrieved.
func NewSourceErrorReport(dataset, subset, split string, err error) *Report {
	if subset == "" {
		subset = defaultSubset
	}
	return &Report{
		Dataset: dataset,
		Subset:  subset,
		Split:   split,
		Status:  false,
		Kind:    FailureSource,
		Message: fmt.Sprintf("reading columns for %s: %v", identifier(dataset, subset, split), err),
		Columns: []string{},
	}
}

func (r *Report) Failed() bool {
	return r != nil && !r.Status
}

// Line returns a single line summary of the report.
func (r *Report) Line() string {
	if r == nil {
		return ""
	}
	result := "PASS"
	if !r.Status {
		result = "FAIL"
	}
	return fmt.Sprintf("[%s] %s: %s", result, identifier(r.Dataset, r.Subset, r.Split), r.Message)
}

func (r *Report) PrettyPrint() string {
	if r == nil {
		return ""
	}

	var prettyPrint strings.Builder
	prettyPrint.WriteString("Column validation status:\n")
	prettyPrint.WriteString(fmt.Sprintf(" - Dataset: %s\n", r.Dataset))
	prettyPrint.WriteString(fmt.Sprintf(" - Subset: %s\n", r.Subset))
	if r.Split != "" {
		prettyPrint.WriteString(fmt.Sprintf(" - Split: %s\n", r.Split))
	}
	prettyPrint.WriteString(fmt.Sprintf(" - Valid: %t\n", r.Status))
	prettyPrint.WriteString(fmt.Sprintf(" - Message: %s\n", r.Message))
	prettyPrint.WriteString(fmt.Sprintf(" - Columns: %s\n", r.Columns))
	if len(r.MissingColumns) > 0 {
		prettyPrint.WriteString(fmt.Sprintf(" - Missing columns: %s\n", r.MissingColumns))
	}
	if len(r.InvalidColumns) > 0 {
		prettyPrint.WriteString(fmt.Sprintf(" - Invalid columns: %s\n", r.InvalidColumns))
	}
	if len(r.InvalidExtra) > 0 {
		prettyPrint.WriteString(fmt.Sprintf(" - Invalid extra columns: %s\n", r.InvalidExtra))
	}
	if len(r.MissingTypes) > 0 {
		prettyPrint.WriteString(fmt.Sprintf(" - Missing column types: %s\n", r.MissingTypes))
	}

	// trim the last newline character
	return prettyPrint.String()[:len(prettyPrint.String())-1]
}

func identifier(dataset, subset, split string) string {
	if split == "" {
		return fmt.Sprintf("%s (%s)", dataset, subset)
	}
	return fmt.Sprintf("%s (%s/%s)", dataset, subset, split)
}
