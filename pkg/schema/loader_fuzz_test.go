// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"os"
	"testing"
)

var columnMapping, _ = os.ReadFile("test/column_mapping.yaml")

func FuzzParse(f *testing.F) {
	f.Add(columnMapping)
	f.Add([]byte(`{}`))
	f.Add([]byte(`datasets: {}`))
	f.Add([]byte(`datasets: [1, 2]`))
	f.Add([]byte(`datasets: {ds: {required_columns: {main: [a]}}}`))
	f.Add([]byte(`validation_rules: {required_column_check: !!str true}`))
	f.Add([]byte(`column_types: {1: [a], 2: !!null}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parsing column mapping panicked: %v", r)
			}
		}()

		s, err := Parse(data)
		if err == nil {
			if s == nil {
				t.Error("nil schema returned without error")
			}
			return
		}

		// every failure must be classified
		var parseErr ErrConfigParse
		var shapeErr ErrConfigShape
		if !errors.As(err, &parseErr) && !errors.As(err, &shapeErr) {
			t.Errorf("unclassified parse error: %v", err)
		}
	})
}
