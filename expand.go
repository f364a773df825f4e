package reshape

import (
	"fmt"
)

// ExpandGrid builds the Cartesian product of the input series: one output
// row per combination, with the first series varying slowest. Input series
// may have different lengths; names must be unique.
func ExpandGrid(series ...*Series) (*DataFrame, error) {
	if len(series) == 0 {
		return NewDataFrame()
	}

	total := 1
	for _, s := range series {
		total *= s.Len()
	}

	// reps[i] = product of lengths after i; each value of series i repeats
	// reps[i] times, and the whole cycle repeats total/(len*reps) times.
	cols := make([]*Series, len(series))
	reps := total
	for i, s := range series {
		if s.Len() > 0 {
			reps /= s.Len()
		} else {
			reps = 0
		}
		indices := make([]int, 0, total)
		for len(indices) < total && s.Len() > 0 {
			for v := 0; v < s.Len(); v++ {
				for r := 0; r < reps; r++ {
					indices = append(indices, v)
				}
			}
		}
		cols[i] = s.Gather(indices)
	}
	return NewDataFrame(cols...)
}

// Crossing builds the Cartesian product of the distinct values of each
// column of df, in first-appearance order per column. Missing values count
// as one distinct value.
func Crossing(df *DataFrame) (*DataFrame, error) {
	distinct := make([]*Series, df.Width())
	for i := 0; i < df.Width(); i++ {
		col := df.Column(i)
		reps := distinctKeyRows([]*Series{col}, col.Len())
		distinct[i] = col.Gather(reps)
	}
	return ExpandGrid(distinct...)
}

// Nesting extracts the distinct observed rows of df over the named columns,
// in first-appearance order. Unlike Crossing it never invents combinations
// that did not occur.
func Nesting(df *DataFrame, names ...string) (*DataFrame, error) {
	if len(names) == 0 {
		names = df.Columns()
	}
	cols := make([]*Series, len(names))
	for i, name := range names {
		cols[i] = df.ColumnByName(name)
		if cols[i] == nil {
			return nil, fmt.Errorf("column not found: %s", name)
		}
	}
	reps := distinctKeyRows(cols, df.Height())
	out := make([]*Series, len(cols))
	for i, col := range cols {
		out[i] = col.Gather(reps)
	}
	return NewDataFrame(out...)
}

// Expand returns the crossed combinations of the selected columns of df:
// the Cartesian product of each column's distinct values.
func (df *DataFrame) Expand(sel Selector) (*DataFrame, error) {
	if sel == nil {
		sel = Everything()
	}
	idx, err := resolveRequired(df, sel, "resolving expand columns")
	if err != nil {
		return nil, err
	}
	return Crossing(df.Select(selectionNames(df, idx)...))
}
