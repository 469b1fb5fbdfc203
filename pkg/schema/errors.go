// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
	"strings"
)

var ErrConfigNotFound = errors.New("column mapping file not found")

// ErrConfigParse is returned when the column mapping document is not valid
// YAML.
type ErrConfigParse struct {
	Cause error
}

func (e ErrConfigParse) Error() string {
	return fmt.Sprintf("parsing column mapping yaml: %v", e.Cause)
}

func (e ErrConfigParse) Unwrap() error {
	return e.Cause
}

// ErrConfigShape is returned when the column mapping document is valid YAML
// but does not have the expected structure. It holds every problem detected.
type ErrConfigShape struct {
	Problems []string
}

func (e ErrConfigShape) Error() string {
	return "invalid column mapping structure: " + strings.Join(e.Problems, "; ")
}
