package reshape

import (
	"fmt"
)

// AggFunc reduces the values of one cell group (presented as a flat Series)
// to a single value. The returned value may be nil for missing, a scalar
// (int64, float64, string, bool), or a *Series for a nested result.
type AggFunc func(group *Series) (interface{}, error)

// normalizeValuesFn coerces the ValuesFn option into a per-column map.
// Accepted forms: nil (no aggregation anywhere), a single AggFunc applied to
// every values column, or a map from values-column name to AggFunc. Columns
// absent from a map get no aggregation. Anything else is ErrBadValuesFn.
func normalizeValuesFn(valuesFn interface{}, valueCols []string) (map[string]AggFunc, error) {
	switch fn := valuesFn.(type) {
	case nil:
		return nil, nil
	case AggFunc:
		out := make(map[string]AggFunc, len(valueCols))
		for _, name := range valueCols {
			out[name] = fn
		}
		return out, nil
	case func(*Series) (interface{}, error):
		out := make(map[string]AggFunc, len(valueCols))
		for _, name := range valueCols {
			out[name] = fn
		}
		return out, nil
	case map[string]AggFunc:
		known := make(map[string]bool, len(valueCols))
		for _, name := range valueCols {
			known[name] = true
		}
		for name := range fn {
			if !known[name] {
				return nil, fmt.Errorf("%w: %q is not a values column", ErrBadValuesFn, name)
			}
		}
		return fn, nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrBadValuesFn, valuesFn)
	}
}

// ============================================================================
// Built-in aggregations
// ============================================================================

// AggSum sums a numeric group. Missing values are skipped; an all-missing
// group yields missing.
func AggSum(group *Series) (interface{}, error) {
	if !group.DType().IsNumeric() {
		return nil, fmt.Errorf("sum: unsupported dtype %s", group.DType())
	}
	if group.DType() == Int64 {
		var sum int64
		any := false
		for i := 0; i < group.Len(); i++ {
			if v, ok := group.GetInt64(i); ok {
				sum += v
				any = true
			}
		}
		if !any {
			return nil, nil
		}
		return sum, nil
	}
	var sum float64
	any := false
	for i := 0; i < group.Len(); i++ {
		if v, ok := group.GetFloat64(i); ok {
			sum += v
			any = true
		}
	}
	if !any {
		return nil, nil
	}
	return sum, nil
}

// AggMean averages a numeric group as float64. Missing values are skipped.
func AggMean(group *Series) (interface{}, error) {
	if !group.DType().IsNumeric() {
		return nil, fmt.Errorf("mean: unsupported dtype %s", group.DType())
	}
	var sum float64
	count := 0
	switch group.DType() {
	case Int64:
		for i := 0; i < group.Len(); i++ {
			if v, ok := group.GetInt64(i); ok {
				sum += float64(v)
				count++
			}
		}
	case Float64:
		for i := 0; i < group.Len(); i++ {
			if v, ok := group.GetFloat64(i); ok {
				sum += v
				count++
			}
		}
	}
	if count == 0 {
		return nil, nil
	}
	return sum / float64(count), nil
}

// AggMin returns the minimum of a group. Strings compare lexicographically.
func AggMin(group *Series) (interface{}, error) {
	return extremum(group, "min", func(cmp int) bool { return cmp < 0 })
}

// AggMax returns the maximum of a group.
func AggMax(group *Series) (interface{}, error) {
	return extremum(group, "max", func(cmp int) bool { return cmp > 0 })
}

func extremum(group *Series, what string, better func(cmp int) bool) (interface{}, error) {
	switch group.DType() {
	case Int64, Float64, String, Categorical:
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %s", what, group.DType())
	}
	best := -1
	for i := 0; i < group.Len(); i++ {
		if !group.IsValid(i) {
			continue
		}
		if best < 0 || better(compareValues(group, i, best)) {
			best = i
		}
	}
	if best < 0 {
		return nil, nil
	}
	return group.Get(best), nil
}

// AggCount counts the non-missing values in a group.
func AggCount(group *Series) (interface{}, error) {
	return int64(group.Len() - group.NullCount()), nil
}

// AggFirst returns the first value of a group, missing included.
func AggFirst(group *Series) (interface{}, error) {
	if group.Len() == 0 {
		return nil, nil
	}
	return group.Get(0), nil
}

// AggLast returns the last value of a group, missing included.
func AggLast(group *Series) (interface{}, error) {
	if group.Len() == 0 {
		return nil, nil
	}
	return group.Get(group.Len() - 1), nil
}
