package reshape

import (
	"fmt"
	"regexp"
	"strings"
)

// Selector picks columns from a schema by name, position, or predicate.
// Selection order follows schema order except for Cols and Idx, which keep
// the caller's order. Resolving a selector never duplicates a column: the
// first selection wins.
type Selector interface {
	// resolve returns the selected column positions.
	resolve(schema *Schema) ([]int, error)
}

// Cols selects columns by exact name. Unknown names are an error.
func Cols(names ...string) Selector { return colsSelector(names) }

type colsSelector []string

func (sel colsSelector) resolve(schema *Schema) ([]int, error) {
	out := make([]int, 0, len(sel))
	for _, name := range sel {
		idx, ok := schema.GetIndex(name)
		if !ok {
			return nil, fmt.Errorf("column not found: %s", name)
		}
		out = append(out, idx)
	}
	return out, nil
}

// Idx selects columns by position. Out-of-range positions are an error.
func Idx(indices ...int) Selector { return idxSelector(indices) }

type idxSelector []int

func (sel idxSelector) resolve(schema *Schema) ([]int, error) {
	out := make([]int, 0, len(sel))
	for _, idx := range sel {
		if idx < 0 || idx >= schema.Len() {
			return nil, fmt.Errorf("column index out of range: %d (width %d)", idx, schema.Len())
		}
		out = append(out, idx)
	}
	return out, nil
}

// Range selects the contiguous run of columns from the one named first
// through the one named last, inclusive, in schema order.
func Range(first, last string) Selector { return rangeSelector{first, last} }

type rangeSelector struct{ first, last string }

func (sel rangeSelector) resolve(schema *Schema) ([]int, error) {
	lo, ok := schema.GetIndex(sel.first)
	if !ok {
		return nil, fmt.Errorf("column not found: %s", sel.first)
	}
	hi, ok := schema.GetIndex(sel.last)
	if !ok {
		return nil, fmt.Errorf("column not found: %s", sel.last)
	}
	if lo > hi {
		return nil, fmt.Errorf("range start %q comes after end %q", sel.first, sel.last)
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out, nil
}

type predicateSelector func(name string, dtype DType) bool

func (sel predicateSelector) resolve(schema *Schema) ([]int, error) {
	var out []int
	for i, name := range schema.Names() {
		if sel(name, schema.DTypes()[i]) {
			out = append(out, i)
		}
	}
	return out, nil
}

// StartsWith selects columns whose name starts with the prefix.
func StartsWith(prefix string) Selector {
	return predicateSelector(func(name string, _ DType) bool {
		return strings.HasPrefix(name, prefix)
	})
}

// EndsWith selects columns whose name ends with the suffix.
func EndsWith(suffix string) Selector {
	return predicateSelector(func(name string, _ DType) bool {
		return strings.HasSuffix(name, suffix)
	})
}

// Contains selects columns whose name contains the substring.
func Contains(substr string) Selector {
	return predicateSelector(func(name string, _ DType) bool {
		return strings.Contains(name, substr)
	})
}

// Match selects columns whose name matches the regular expression.
func Match(pattern string) Selector { return matchSelector{pattern} }

type matchSelector struct{ pattern string }

func (sel matchSelector) resolve(schema *Schema) ([]int, error) {
	re, err := regexp.Compile(sel.pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid column pattern: %w", err)
	}
	var out []int
	for i, name := range schema.Names() {
		if re.MatchString(name) {
			out = append(out, i)
		}
	}
	return out, nil
}

// OfType selects columns of the given dtype.
func OfType(dtype DType) Selector {
	return predicateSelector(func(_ string, dt DType) bool {
		return dt == dtype
	})
}

// Everything selects all columns.
func Everything() Selector {
	return predicateSelector(func(_ string, _ DType) bool { return true })
}

// Not inverts a selector, keeping schema order of the remainder.
func Not(sel Selector) Selector { return notSelector{sel} }

type notSelector struct{ inner Selector }

func (sel notSelector) resolve(schema *Schema) ([]int, error) {
	inner, err := sel.inner.resolve(schema)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int]bool, len(inner))
	for _, idx := range inner {
		excluded[idx] = true
	}
	var out []int
	for i := 0; i < schema.Len(); i++ {
		if !excluded[i] {
			out = append(out, i)
		}
	}
	return out, nil
}

// Union combines selectors, keeping each column at its first selection.
func Union(sels ...Selector) Selector { return unionSelector(sels) }

type unionSelector []Selector

func (sel unionSelector) resolve(schema *Schema) ([]int, error) {
	var out []int
	seen := make(map[int]bool)
	for _, s := range sel {
		indices, err := s.resolve(schema)
		if err != nil {
			return nil, err
		}
		for _, idx := range indices {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	return out, nil
}

// Resolve returns the column positions sel selects in df, in selection order
// with duplicates dropped. An empty selection resolves to no positions, not
// an error.
func Resolve(df *DataFrame, sel Selector) ([]int, error) {
	return resolveSelector(df, sel)
}

// resolveSelector resolves sel against the frame's schema, dropping
// duplicate positions after the first.
func resolveSelector(df *DataFrame, sel Selector) ([]int, error) {
	raw, err := sel.resolve(df.Schema())
	if err != nil {
		return nil, err
	}
	var out []int
	seen := make(map[int]bool, len(raw))
	for _, idx := range raw {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	return out, nil
}

// resolveRequired is resolveSelector for selections that must be non-empty.
func resolveRequired(df *DataFrame, sel Selector, what string) ([]int, error) {
	indices, err := resolveSelector(df, sel)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%s: %w", what, ErrNoMatchingColumn)
	}
	return indices, nil
}

// selectionNames maps resolved positions back to column names.
func selectionNames(df *DataFrame, indices []int) []string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = df.Column(idx).Name()
	}
	return names
}
