// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"golang.org/x/exp/slices"
)

// DefaultSubset is the subset name used when a caller does not provide one.
const DefaultSubset = "default"

// Schema is the in-memory representation of a column mapping document. It
// describes, per dataset and subset, which columns are required, which column
// types may appear more than once, and which subsets bypass the general
// column type checks. A Schema is not modified after it has been loaded, so it
// can be shared between goroutines without locking.
type Schema struct {
	Datasets        map[string]DatasetSchema `yaml:"datasets" mapstructure:"datasets"`
	ColumnTypes     map[string][]string      `yaml:"column_types" mapstructure:"column_types"`
	ValidationRules ValidationRules          `yaml:"validation_rules" mapstructure:"validation_rules"`
	SpecialCases    SpecialCases             `yaml:"special_cases,omitempty" mapstructure:"special_cases"`
	LanguageCodes   []string                 `yaml:"language_codes,omitempty" mapstructure:"language_codes"`
}

type DatasetSchema struct {
	Subsets                []string                     `yaml:"subsets,omitempty" mapstructure:"subsets"`
	RequiredColumns        map[string][]string          `yaml:"required_columns" mapstructure:"required_columns"`
	MultipleColumnsAllowed map[string][]string          `yaml:"multiple_columns_allowed,omitempty" mapstructure:"multiple_columns_allowed"`
	SpecialValidation      map[string]SpecialValidation `yaml:"special_validation,omitempty" mapstructure:"special_validation"`
}

// SpecialValidation overrides the general checks for a subset. Only its
// required columns are checked for presence.
type SpecialValidation struct {
	RequiredColumns []string `yaml:"required_columns" mapstructure:"required_columns"`
}

type ValidationRules struct {
	// RequiredColumns lists column type names that need at least one
	// representative column.
	RequiredColumns []string `yaml:"required_columns,omitempty" mapstructure:"required_columns"`
	// AllowedExtraColumns lists column type names allowed on top of the
	// required columns of a subset. Extra columns are not checked when empty.
	AllowedExtraColumns []string `yaml:"allowed_extra_columns,omitempty" mapstructure:"allowed_extra_columns"`
	// PermissiveExtraColumns accepts any extra column that belongs to a known
	// column type, not only the allowed ones.
	PermissiveExtraColumns bool `yaml:"permissive_extra_columns,omitempty" mapstructure:"permissive_extra_columns"`
	// RequiredColumnCheck and RequiredTypeCheck toggle the concrete column
	// and the column type presence checks. Both default to enabled.
	RequiredColumnCheck *bool `yaml:"required_column_check,omitempty" mapstructure:"required_column_check"`
	RequiredTypeCheck   *bool `yaml:"required_type_check,omitempty" mapstructure:"required_type_check"`
}

type SpecialCases struct {
	MultipleColumnsAllowed map[string]bool `yaml:"multiple_columns_allowed,omitempty" mapstructure:"multiple_columns_allowed"`
}

func (r ValidationRules) RequiredColumnCheckEnabled() bool {
	return r.RequiredColumnCheck == nil || *r.RequiredColumnCheck
}

func (r ValidationRules) RequiredTypeCheckEnabled() bool {
	return r.RequiredTypeCheck == nil || *r.RequiredTypeCheck
}

func (s *Schema) Dataset(name string) (DatasetSchema, bool) {
	if s == nil {
		return DatasetSchema{}, false
	}
	ds, found := s.Datasets[name]
	return ds, found
}

// RequiredColumns returns the required columns for the dataset subset, and
// whether the subset is known to the schema.
func (s *Schema) RequiredColumns(dataset, subset string) ([]string, bool) {
	ds, found := s.Dataset(dataset)
	if !found {
		return nil, false
	}
	columns, found := ds.RequiredColumns[subset]
	return columns, found
}

// SpecialValidationFor returns the special validation of the dataset subset,
// if any.
func (s *Schema) SpecialValidationFor(dataset, subset string) (SpecialValidation, bool) {
	ds, found := s.Dataset(dataset)
	if !found {
		return SpecialValidation{}, false
	}
	sv, found := ds.SpecialValidation[subset]
	return sv, found
}

// MultipleColumnsAllowed reports whether more than one column of the given
// type can coexist in the dataset subset. The dataset specific configuration
// is checked first, then the global special cases.
func (s *Schema) MultipleColumnsAllowed(dataset, subset, columnType string) bool {
	if s == nil {
		return false
	}
	if ds, found := s.Datasets[dataset]; found {
		if slices.Contains(ds.MultipleColumnsAllowed[subset], columnType) {
			return true
		}
	}
	return s.SpecialCases.MultipleColumnsAllowed[columnType]
}

// IsTyped reports whether the column belongs to any of the given column
// types. When no types are given, any known column type matches.
func (s *Schema) IsTyped(column string, types ...string) bool {
	if s == nil {
		return false
	}
	if len(types) == 0 {
		for _, columns := range s.ColumnTypes {
			if slices.Contains(columns, column) {
				return true
			}
		}
		return false
	}
	for _, t := range types {
		if slices.Contains(s.ColumnTypes[t], column) {
			return true
		}
	}
	return false
}

// UnmappedColumns returns, per dataset, the required columns that do not
// belong to any column type. Type collision checks are meaningless for them.
func (s *Schema) UnmappedColumns() map[string][]string {
	if s == nil {
		return nil
	}
	unmapped := map[string][]string{}
	for name, ds := range s.Datasets {
		seen := map[string]struct{}{}
		for _, columns := range ds.RequiredColumns {
			for _, col := range columns {
				if _, ok := seen[col]; ok || s.IsTyped(col) {
					continue
				}
				seen[col] = struct{}{}
				unmapped[name] = append(unmapped[name], col)
			}
		}
		if cols, ok := unmapped[name]; ok {
			slices.Sort(cols)
		}
	}
	return unmapped
}

// DatasetNames returns the sorted dataset names in the schema.
func (s *Schema) DatasetNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Datasets))
	for name := range s.Datasets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
