package reshape

import (
	"fmt"
)

// LongerOptions configures wide-to-long reshaping.
type LongerOptions struct {
	// Cols selects the columns to melt into (name, value) pairs. Required
	// and must match at least one column.
	Cols Selector

	// NamesTo is the output column receiving the melted column names.
	// Defaults to "name".
	NamesTo string

	// ValuesTo is the output column receiving the melted values.
	// Defaults to "value".
	ValuesTo string

	// DropMissing omits output rows whose value is missing, turning
	// explicit missing cells back into implicit ones.
	DropMissing bool
}

// PivotLonger reshapes a wide frame to long: each selected column becomes a
// run of (name, value) rows, repeated per input row. Unselected columns are
// carried as id columns. The melted columns must share a common element
// type; Int64 and Float64 unify to Float64, Categorical melts to String.
func PivotLonger(df *DataFrame, opts LongerOptions) (*DataFrame, error) {
	if opts.Cols == nil {
		return nil, fmt.Errorf("resolving melt columns: %w", ErrNoMatchingColumn)
	}
	meltIdx, err := resolveRequired(df, opts.Cols, "resolving melt columns")
	if err != nil {
		return nil, err
	}
	namesTo := opts.NamesTo
	if namesTo == "" {
		namesTo = "name"
	}
	valuesTo := opts.ValuesTo
	if valuesTo == "" {
		valuesTo = "value"
	}

	melted := make(map[int]bool, len(meltIdx))
	meltCols := make([]*Series, len(meltIdx))
	for i, idx := range meltIdx {
		melted[idx] = true
		meltCols[i] = df.Column(idx)
	}
	var idCols []*Series
	for i := 0; i < df.Width(); i++ {
		if !melted[i] {
			idCols = append(idCols, df.Column(i))
		}
	}
	for _, id := range idCols {
		if id.Name() == namesTo || id.Name() == valuesTo {
			return nil, fmt.Errorf("output column %q collides with an id column", id.Name())
		}
	}

	valueType := scalarElem(meltCols[0].DType())
	for _, col := range meltCols[1:] {
		valueType, _, err = promoteDType(valueType, 0, scalarElem(col.DType()), 0)
		if err != nil {
			return nil, fmt.Errorf("melting %q: %w", col.Name(), err)
		}
	}
	if valueType == List {
		return nil, fmt.Errorf("cannot melt list columns")
	}

	// Row-major emission: all melted cells of input row 0, then row 1.
	var (
		idIndices []int
		names     []string
		values    = newColumnBuilder(valueType)
	)
	for row := 0; row < df.Height(); row++ {
		for _, col := range meltCols {
			if opts.DropMissing && !col.IsValid(row) {
				continue
			}
			idIndices = append(idIndices, row)
			names = append(names, col.Name())
			values.appendFrom(col, row)
		}
	}

	valueSeries, err := values.finish(valuesTo)
	if err != nil {
		return nil, err
	}

	series := make([]*Series, 0, len(idCols)+2)
	for _, id := range idCols {
		series = append(series, id.Gather(idIndices))
	}
	series = append(series, NewSeriesString(namesTo, names), valueSeries)

	out, err := NewDataFrame(series...)
	if err != nil {
		return nil, err
	}
	if gk := df.GroupKeys(); len(gk) > 0 {
		var kept []string
		for _, g := range gk {
			if out.ColumnByName(g) != nil {
				kept = append(kept, g)
			}
		}
		if len(kept) > 0 {
			return out.WithGroups(kept...)
		}
	}
	return out, nil
}
