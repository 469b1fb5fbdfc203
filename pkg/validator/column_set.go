// SPDX-License-Identifier: Apache-2.0

package validator

import "golang.org/x/exp/slices"

type columnSet map[string]struct{}

func newColumnSet(columns []string) columnSet {
	set := make(columnSet, len(columns))
	for _, col := range columns {
		set[col] = struct{}{}
	}
	return set
}

func (s columnSet) contains(col string) bool {
	_, found := s[col]
	return found
}

// missing returns the sorted, deduplicated columns on input not present in
// the set.
func (s columnSet) missing(columns []string) []string {
	var missing []string
	for _, col := range columns {
		if !s.contains(col) {
			missing = append(missing, col)
		}
	}
	slices.Sort(missing)
	return slices.Compact(missing)
}

// intersect returns the sorted, deduplicated columns on input present in the
// set.
func (s columnSet) intersect(columns []string) []string {
	var present []string
	for _, col := range columns {
		if s.contains(col) {
			present = append(present, col)
		}
	}
	slices.Sort(present)
	return slices.Compact(present)
}

func (s columnSet) sorted() []string {
	columns := make([]string, 0, len(s))
	for col := range s {
		columns = append(columns, col)
	}
	slices.Sort(columns)
	return columns
}
