// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// FileStatus describes the structure of a column mapping file.
type FileStatus struct {
	File           string              `json:"file"`
	Exists         bool                `json:"exists"`
	ValidStructure bool                `json:"valid_structure"`
	Datasets       []string            `json:"datasets,omitempty"`
	Errors         []string            `json:"errors,omitempty"`
	Warnings       map[string][]string `json:"warnings,omitempty"`
}

// CheckFile loads the column mapping file on input and reports on its
// structure. Loading problems are part of the status, they are not returned
// as errors. On success the schema is returned alongside the status.
func CheckFile(path string, opts ...LoaderOption) (*FileStatus, *Schema) {
	status := &FileStatus{
		File:   path,
		Exists: true,
	}

	s, err := Load(path, opts...)
	if err != nil {
		var shapeErr ErrConfigShape
		switch {
		case errors.Is(err, ErrConfigNotFound):
			status.Exists = false
			status.Errors = []string{err.Error()}
		case errors.As(err, &shapeErr):
			status.Errors = shapeErr.Problems
		default:
			status.Errors = []string{err.Error()}
		}
		return status, nil
	}

	status.ValidStructure = true
	status.Datasets = s.DatasetNames()
	if unmapped := s.UnmappedColumns(); len(unmapped) > 0 {
		status.Warnings = unmapped
	}
	return status, s
}

func (s *FileStatus) PrettyPrint() string {
	if s == nil {
		return ""
	}

	var prettyPrint strings.Builder
	prettyPrint.WriteString("Column mapping status:\n")
	prettyPrint.WriteString(fmt.Sprintf(" - File: %s\n", s.File))
	prettyPrint.WriteString(fmt.Sprintf(" - Exists: %t\n", s.Exists))
	prettyPrint.WriteString(fmt.Sprintf(" - Valid structure: %t\n", s.ValidStructure))
	if len(s.Datasets) > 0 {
		prettyPrint.WriteString(fmt.Sprintf(" - Datasets: %v\n", s.Datasets))
	}
	if len(s.Errors) > 0 {
		prettyPrint.WriteString(fmt.Sprintf(" - Errors: %v\n", s.Errors))
	}
	datasets := make([]string, 0, len(s.Warnings))
	for dataset := range s.Warnings {
		datasets = append(datasets, dataset)
	}
	slices.Sort(datasets)
	for _, dataset := range datasets {
		prettyPrint.WriteString(fmt.Sprintf(" - Unmapped columns for %s: %v\n", dataset, s.Warnings[dataset]))
	}

	return strings.TrimSuffix(prettyPrint.String(), "\n")
}
