// SPDX-License-Identifier: Apache-2.0

package validator

import (
	"fmt"
	"strings"

	"github.com/darijamt/colmap/pkg/schema"
	"golang.org/x/exp/slices"
)

// Validator checks the columns of dataset subsets against a column mapping
// schema. It holds no mutable state, so a single validator can be shared by
// concurrent callers.
type Validator struct {
	schema *schema.Schema
}

const defaultSubset = schema.DefaultSubset

func New(s *schema.Schema) *Validator {
	return &Validator{
		schema: s,
	}
}

// Validate validates the columns of the dataset subset with the schema on
// input. It's a shortcut for New(s).Validate without split.
func Validate(s *schema.Schema, dataset, subset string, columns []string) *Report {
	return New(s).Validate(dataset, subset, "", columns)
}

// Validate checks the columns on input against the schema configuration for
// the dataset subset. An empty subset resolves to the default one. The split
// is only used to identify the report. Checks run in this order, and the
// report message describes the first one that failed:
//
//  1. the dataset is known
//  2. the subset is known
//  3. special validation rules, which replace all the checks below
//  4. required columns are present
//  5. no forbidden column type collisions
//  6. extra columns belong to the allowed column types
//  7. required column types are represented
func (v *Validator) Validate(dataset, subset, split string, columns []string) *Report {
	if subset == "" {
		subset = defaultSubset
	}

	actual := newColumnSet(columns)
	report := &Report{
		Dataset: dataset,
		Subset:  subset,
		Split:   split,
		Columns: actual.sorted(),
	}
	id := identifier(dataset, subset, split)

	if _, found := v.schema.Dataset(dataset); !found {
		return report.fail(FailureUnknownDataset, fmt.Sprintf("no configuration found for dataset %s", dataset))
	}

	required, found := v.schema.RequiredColumns(dataset, subset)
	if !found {
		return report.fail(FailureUnknownSubset, fmt.Sprintf("no configuration found for dataset %s, subset %s", dataset, subset))
	}

	if special, found := v.schema.SpecialValidationFor(dataset, subset); found {
		report.MissingColumns = actual.missing(special.RequiredColumns)
		if len(report.MissingColumns) > 0 {
			return report.fail(FailureMissingColumns, missingColumnsMsg(id, report.MissingColumns))
		}
		return report.succeed(fmt.Sprintf("column validation passed for %s", id))
	}

	rules := v.schema.ValidationRules
	if rules.RequiredColumnCheckEnabled() {
		report.MissingColumns = actual.missing(required)
	}
	report.InvalidColumns = v.typeCollisions(dataset, subset, actual)
	report.InvalidExtra = v.invalidExtraColumns(required, actual)
	if rules.RequiredTypeCheckEnabled() {
		report.MissingTypes = v.missingColumnTypes(actual)
	}

	switch {
	case len(report.MissingColumns) > 0:
		return report.fail(FailureMissingColumns, missingColumnsMsg(id, report.MissingColumns))
	case len(report.InvalidColumns) > 0:
		return report.fail(FailureTypeCollision, fmt.Sprintf("column type validation failed for %s: %s", id, strings.Join(report.InvalidColumns, "; ")))
	case len(report.InvalidExtra) > 0:
		return report.fail(FailureInvalidExtra, fmt.Sprintf("invalid extra columns found for %s: %s", id, strings.Join(report.InvalidExtra, ", ")))
	case len(report.MissingTypes) > 0:
		return report.fail(FailureMissingColumnType, fmt.Sprintf("missing required column type '%s' for %s", strings.Join(report.MissingTypes, "', '"), id))
	default:
		return report.succeed(fmt.Sprintf("column validation passed for %s", id))
	}
}

// typeCollisions returns one entry per column type with more than one column
// present, unless the type is allowed to have multiple columns.
func (v *Validator) typeCollisions(dataset, subset string, actual columnSet) []string {
	types := make([]string, 0, len(v.schema.ColumnTypes))
	for typeName := range v.schema.ColumnTypes {
		types = append(types, typeName)
	}
	slices.Sort(types)

	var collisions []string
	for _, typeName := range types {
		present := actual.intersect(v.schema.ColumnTypes[typeName])
		if len(present) <= 1 || v.schema.MultipleColumnsAllowed(dataset, subset, typeName) {
			continue
		}
		collisions = append(collisions, fmt.Sprintf("multiple %s columns found: %s", typeName, strings.Join(present, ", ")))
	}
	return collisions
}

// invalidExtraColumns returns the columns that are not required and don't
// belong to any of the allowed extra column types. The check only applies
// when allowed extra column types are configured. In permissive mode, any
// column with a known column type is accepted.
func (v *Validator) invalidExtraColumns(required []string, actual columnSet) []string {
	rules := v.schema.ValidationRules
	if len(rules.AllowedExtraColumns) == 0 {
		return nil
	}

	requiredSet := newColumnSet(required)
	var invalid []string
	for _, col := range actual.sorted() {
		if requiredSet.contains(col) {
			continue
		}
		if v.schema.IsTyped(col, rules.AllowedExtraColumns...) {
			continue
		}
		if rules.PermissiveExtraColumns && v.schema.IsTyped(col) {
			continue
		}
		invalid = append(invalid, col)
	}
	return invalid
}

// missingColumnTypes returns the required column types without any column
// present.
func (v *Validator) missingColumnTypes(actual columnSet) []string {
	var missing []string
	for _, typeName := range v.schema.ValidationRules.RequiredColumns {
		if slices.Contains(missing, typeName) {
			continue
		}
		if len(actual.intersect(v.schema.ColumnTypes[typeName])) == 0 {
			missing = append(missing, typeName)
		}
	}
	return missing
}

func (r *Report) fail(kind FailureKind, msg string) *Report {
	r.Status = false
	r.Kind = kind
	r.Message = msg
	return r
}

func (r *Report) succeed(msg string) *Report {
	r.Status = true
	r.Kind = FailureNone
	r.Message = msg
	return r
}

func missingColumnsMsg(id string, missing []string) string {
	return fmt.Sprintf("missing required columns for %s: %s", id, strings.Join(missing, ", "))
}
