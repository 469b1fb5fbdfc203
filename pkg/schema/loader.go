// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type LoaderOption func(*loader)

type loader struct {
	extendedChecks       bool
	requireLanguageCodes bool
}

const (
	datasetsKey        = "datasets"
	columnTypesKey     = "column_types"
	validationRulesKey = "validation_rules"
	specialCasesKey    = "special_cases"
	languageCodesKey   = "language_codes"

	subsetsKey                = "subsets"
	requiredColumnsKey        = "required_columns"
	multipleColumnsAllowedKey = "multiple_columns_allowed"
	specialValidationKey      = "special_validation"
	allowedExtraColumnsKey    = "allowed_extra_columns"
)

var requiredTopLevelKeys = []string{datasetsKey, columnTypesKey, validationRulesKey}

var validationRulesBoolKeys = []string{"permissive_extra_columns", "required_column_check", "required_type_check"}

// WithExtendedChecks enables the stricter structure checks: dataset names
// cannot contain whitespace and required column names must be non empty and
// trimmed.
func WithExtendedChecks() LoaderOption {
	return func(l *loader) {
		l.extendedChecks = true
	}
}

// WithLanguageCodes requires the document to declare its language codes.
func WithLanguageCodes() LoaderOption {
	return func(l *loader) {
		l.requireLanguageCodes = true
	}
}

// Load reads the column mapping YAML file on input and returns the parsed
// schema. It returns ErrConfigNotFound if the file does not exist,
// ErrConfigParse if it's not valid YAML and ErrConfigShape if the structure
// does not match the expected one.
func Load(path string, opts ...LoaderOption) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading column mapping file %s: %w", path, err)
	}

	return Parse(data, opts...)
}

// Parse parses the column mapping YAML document on input.
func Parse(data []byte, opts ...LoaderOption) (*Schema, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrConfigParse{Cause: err}
	}

	if doc == nil {
		return nil, ErrConfigShape{Problems: []string{"column mapping document is empty"}}
	}

	root, isMap := asMap(normalize(doc))
	if !isMap {
		return nil, ErrConfigShape{Problems: []string{"root element is not a mapping"}}
	}
	if len(root) == 0 {
		return nil, ErrConfigShape{Problems: []string{"column mapping document is empty"}}
	}

	if problems := l.checkShape(root); len(problems) > 0 {
		return nil, ErrConfigShape{Problems: problems}
	}

	s := &Schema{}
	if err := mapstructure.Decode(root, s); err != nil {
		return nil, ErrConfigShape{Problems: []string{err.Error()}}
	}
	return s, nil
}

// Dump serialises the schema into its YAML representation.
func Dump(s *Schema) ([]byte, error) {
	return yaml.Marshal(s)
}

// WriteFile writes the YAML representation of the schema to the given path.
func WriteFile(s *Schema, path string) error {
	data, err := Dump(s)
	if err != nil {
		return fmt.Errorf("marshaling column mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing column mapping file %s: %w", path, err)
	}
	return nil
}

func (l *loader) checkShape(root map[string]any) []string {
	problems := []string{}
	for _, key := range requiredTopLevelKeys {
		if _, found := root[key]; !found {
			problems = append(problems, fmt.Sprintf("missing required key: %s", key))
		}
	}

	languageCodes, found := root[languageCodesKey]
	switch {
	case !found && l.requireLanguageCodes:
		problems = append(problems, fmt.Sprintf("missing required key: %s", languageCodesKey))
	case found && !isStringList(languageCodes):
		problems = append(problems, fmt.Sprintf("%s is not a list of strings", languageCodesKey))
	}

	if datasets, found := root[datasetsKey]; found && datasets != nil {
		datasetMap, isMap := asMap(datasets)
		if !isMap {
			problems = append(problems, fmt.Sprintf("%s is not a mapping", datasetsKey))
		} else {
			for _, name := range sortedKeys(datasetMap) {
				problems = append(problems, l.checkDataset(name, datasetMap[name])...)
			}
		}
	}

	if columnTypes, found := root[columnTypesKey]; found && columnTypes != nil {
		problems = append(problems, checkStringListMap(columnTypes, columnTypesKey)...)
	}

	if rules, found := root[validationRulesKey]; found && rules != nil {
		problems = append(problems, checkValidationRules(rules)...)
	}

	if specialCases, found := root[specialCasesKey]; found && specialCases != nil {
		problems = append(problems, checkSpecialCases(specialCases)...)
	}

	return problems
}

func (l *loader) checkDataset(name string, value any) []string {
	problems := []string{}
	if l.extendedChecks && strings.ContainsFunc(name, unicode.IsSpace) {
		problems = append(problems, fmt.Sprintf("dataset name %q contains whitespace", name))
	}

	dataset, isMap := asMap(value)
	if !isMap {
		return append(problems, fmt.Sprintf("invalid structure for dataset %s: expected a mapping", name))
	}

	requiredColumns, found := dataset[requiredColumnsKey]
	if !found {
		problems = append(problems, fmt.Sprintf("missing required key '%s' for dataset %s", requiredColumnsKey, name))
	} else if requiredColumns != nil {
		context := fmt.Sprintf("%s for dataset %s", requiredColumnsKey, name)
		problems = append(problems, checkStringListMap(requiredColumns, context)...)
		if l.extendedChecks {
			problems = append(problems, checkColumnNames(requiredColumns, name)...)
		}
	}

	subsets, found := dataset[subsetsKey]
	switch {
	case !found && l.extendedChecks && !hasSingleSubset(requiredColumns):
		problems = append(problems, fmt.Sprintf("missing required key '%s' for dataset %s", subsetsKey, name))
	case found && !isStringList(subsets):
		problems = append(problems, fmt.Sprintf("%s for dataset %s is not a list of strings", subsetsKey, name))
	}

	if allowed, found := dataset[multipleColumnsAllowedKey]; found && allowed != nil {
		context := fmt.Sprintf("%s for dataset %s", multipleColumnsAllowedKey, name)
		problems = append(problems, checkStringListMap(allowed, context)...)
	}

	if special, found := dataset[specialValidationKey]; found && special != nil {
		specialMap, isMap := asMap(special)
		if !isMap {
			return append(problems, fmt.Sprintf("%s for dataset %s is not a mapping", specialValidationKey, name))
		}
		for _, subset := range sortedKeys(specialMap) {
			rules, isMap := asMap(specialMap[subset])
			if !isMap {
				problems = append(problems, fmt.Sprintf("%s for dataset %s, subset %s is not a mapping", specialValidationKey, name, subset))
				continue
			}
			if !isStringList(rules[requiredColumnsKey]) {
				problems = append(problems, fmt.Sprintf("%s.%s.%s for dataset %s is not a list of strings", specialValidationKey, subset, requiredColumnsKey, name))
			}
		}
	}

	return problems
}

func checkValidationRules(value any) []string {
	rules, isMap := asMap(value)
	if !isMap {
		return []string{fmt.Sprintf("%s is not a mapping", validationRulesKey)}
	}

	problems := []string{}
	for _, key := range []string{requiredColumnsKey, allowedExtraColumnsKey} {
		if !isStringList(rules[key]) {
			problems = append(problems, fmt.Sprintf("%s.%s is not a list of strings", validationRulesKey, key))
		}
	}
	for _, key := range validationRulesBoolKeys {
		v, found := rules[key]
		if !found || v == nil {
			continue
		}
		if _, isBool := v.(bool); !isBool {
			problems = append(problems, fmt.Sprintf("%s.%s is not a boolean", validationRulesKey, key))
		}
	}
	return problems
}

func checkSpecialCases(value any) []string {
	specialCases, isMap := asMap(value)
	if !isMap {
		return []string{fmt.Sprintf("%s is not a mapping", specialCasesKey)}
	}
	allowed, found := specialCases[multipleColumnsAllowedKey]
	if !found || allowed == nil {
		return nil
	}
	allowedMap, isMap := asMap(allowed)
	if !isMap {
		return []string{fmt.Sprintf("%s.%s is not a mapping", specialCasesKey, multipleColumnsAllowedKey)}
	}
	problems := []string{}
	for _, columnType := range sortedKeys(allowedMap) {
		if _, isBool := allowedMap[columnType].(bool); !isBool {
			problems = append(problems, fmt.Sprintf("%s.%s.%s is not a boolean", specialCasesKey, multipleColumnsAllowedKey, columnType))
		}
	}
	return problems
}

func checkStringListMap(value any, context string) []string {
	m, isMap := asMap(value)
	if !isMap {
		return []string{fmt.Sprintf("%s is not a mapping", context)}
	}
	problems := []string{}
	for _, key := range sortedKeys(m) {
		if !isStringList(m[key]) {
			problems = append(problems, fmt.Sprintf("%s, entry %s is not a list of strings", context, key))
		}
	}
	return problems
}

func checkColumnNames(value any, dataset string) []string {
	m, _ := asMap(value)
	problems := []string{}
	for _, subset := range sortedKeys(m) {
		columns, _ := m[subset].([]any)
		for _, col := range columns {
			name, isString := col.(string)
			if !isString {
				continue
			}
			if name == "" || strings.TrimSpace(name) != name {
				problems = append(problems, fmt.Sprintf("invalid column name %q for dataset %s, subset %s", name, dataset, subset))
			}
		}
	}
	return problems
}

// hasSingleSubset reports whether the required columns declare exactly one
// subset. Extended checks only accept an implicit subsets list in that case.
func hasSingleSubset(requiredColumns any) bool {
	m, isMap := asMap(requiredColumns)
	return isMap && len(m) == 1
}

func isStringList(value any) bool {
	if value == nil {
		return true
	}
	list, isList := value.([]any)
	if !isList {
		return false
	}
	for _, item := range list {
		if _, isString := item.(string); !isString {
			return false
		}
	}
	return true
}

func asMap(value any) (map[string]any, bool) {
	m, isMap := value.(map[string]any)
	return m, isMap
}

// normalize converts any mapping with non string keys into a map[string]any
// so the rest of the checks only deal with one mapping type.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for key, item := range v {
			m[fmt.Sprint(key)] = normalize(item)
		}
		return m
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	default:
		return value
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
