package reshape

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SpecOptions configures pivot spec construction.
type SpecOptions struct {
	// NamesFrom selects the columns whose values become output column
	// names. May be nil or match nothing, in which case the values columns
	// map to output columns under their own names.
	NamesFrom Selector

	// ValuesFrom selects the columns whose values populate the output
	// columns. Required.
	ValuesFrom Selector

	// NamesSep joins the names-column values of one combination into a
	// candidate name. Defaults to "_".
	NamesSep string

	// NamesGlue, when non-empty, builds candidate names from a template
	// instead of NamesSep. "{col}" substitutes the combination's value of
	// names column col; "{.value}" substitutes the values-column name.
	NamesGlue string

	// NamesSort orders the spec by the names-column values instead of
	// first appearance. Categorical columns sort by declared level order.
	NamesSort bool

	// NamesRepair makes the candidate names unique. Defaults to
	// RepairCheckUnique.
	NamesRepair RepairFunc
}

// BuildSpec derives a pivot spec from a long frame: one row per distinct
// names-key combination per values column, carrying the output column name
// and its provenance. The spec is itself a DataFrame with a "name" column,
// a "value" column, and one key column per names column.
//
// The values column varies slowest: all combinations for the first values
// column come before any for the second.
func BuildSpec(df *DataFrame, opts SpecOptions) (*DataFrame, error) {
	if opts.ValuesFrom == nil {
		return nil, fmt.Errorf("resolving values columns: %w", ErrNoMatchingColumn)
	}
	valuesIdx, err := resolveRequired(df, opts.ValuesFrom, "resolving values columns")
	if err != nil {
		return nil, err
	}
	valueNames := selectionNames(df, valuesIdx)

	var namesIdx []int
	if opts.NamesFrom != nil {
		namesIdx, err = resolveSelector(df, opts.NamesFrom)
		if err != nil {
			return nil, err
		}
	}
	namesCols := make([]*Series, len(namesIdx))
	for i, idx := range namesIdx {
		namesCols[i] = df.Column(idx)
		if namesCols[i].DType() == List {
			return nil, fmt.Errorf("names column %q is a list column", namesCols[i].Name())
		}
	}

	sep := opts.NamesSep
	if sep == "" {
		sep = "_"
	}

	// With no names columns the values columns pass through under their own
	// names, one spec row each.
	if len(namesCols) == 0 {
		repaired, err := applyRepair(opts.NamesRepair, append([]string{}, valueNames...))
		if err != nil {
			return nil, err
		}
		return NewDataFrame(
			NewSeriesString("name", repaired),
			NewSeriesString("value", append([]string{}, valueNames...)),
		)
	}

	combos := distinctKeyRows(namesCols, df.Height())
	if opts.NamesSort {
		sortKeyRows(namesCols, combos)
	}

	// Candidate names, values column varying slowest.
	multiValues := len(valueNames) > 1
	glueHasValue := strings.Contains(opts.NamesGlue, "{.value}")
	candidates := make([]string, 0, len(valueNames)*len(combos))
	for _, valueName := range valueNames {
		for _, row := range combos {
			var name string
			if opts.NamesGlue != "" {
				name = glueName(opts.NamesGlue, valueName, namesCols, row)
			} else {
				parts := make([]string, len(namesCols))
				for c, col := range namesCols {
					parts[c] = formatNameValue(col, row)
				}
				name = strings.Join(parts, sep)
			}
			if multiValues && !glueHasValue {
				name = valueName + sep + name
			}
			candidates = append(candidates, name)
		}
	}

	repaired, err := applyRepair(opts.NamesRepair, candidates)
	if err != nil {
		return nil, err
	}

	valueCol := make([]string, 0, len(candidates))
	for _, valueName := range valueNames {
		for range combos {
			valueCol = append(valueCol, valueName)
		}
	}

	series := []*Series{
		NewSeriesString("name", repaired),
		NewSeriesString("value", valueCol),
	}
	// Key columns repeat the combination rows once per values column,
	// preserving each names column's dtype.
	gatherRows := make([]int, 0, len(candidates))
	for range valueNames {
		gatherRows = append(gatherRows, combos...)
	}
	for _, col := range namesCols {
		series = append(series, col.Gather(gatherRows))
	}
	return NewDataFrame(series...)
}

// ValidateSpec checks a caller-supplied pivot spec: it must have a string
// "name" column with unique non-missing values and a string "value" column.
func ValidateSpec(spec *DataFrame) error {
	if spec == nil {
		return fmt.Errorf("pivot spec is nil")
	}
	nameCol := spec.ColumnByName("name")
	if nameCol == nil {
		return ErrSpecMissingNameColumn
	}
	valueCol := spec.ColumnByName("value")
	if valueCol == nil {
		return ErrSpecMissingValueColumn
	}
	if nameCol.DType() != String {
		return fmt.Errorf("%w, got %s", ErrSpecNameNotString, nameCol.DType())
	}
	if valueCol.DType() != String {
		return fmt.Errorf("%w, got %s", ErrSpecValueNotString, valueCol.DType())
	}

	seen := make(map[string]bool, nameCol.Len())
	for i := 0; i < nameCol.Len(); i++ {
		v, ok := nameCol.GetString(i)
		if !ok {
			return fmt.Errorf("%w: missing value at row %d", ErrSpecNameNotUnique, i)
		}
		if seen[v] {
			return fmt.Errorf("%w: %q appears more than once", ErrSpecNameNotUnique, v)
		}
		seen[v] = true
	}
	return nil
}

// specKeyColumns returns the spec's key column names: everything except
// "name" and "value", in spec order.
func specKeyColumns(spec *DataFrame) []string {
	var keys []string
	for _, name := range spec.Columns() {
		if name == "name" || name == "value" {
			continue
		}
		keys = append(keys, name)
	}
	return keys
}

// distinctKeyRows returns one representative row index per distinct key
// tuple over cols, in first-appearance order.
func distinctKeyRows(cols []*Series, height int) []int {
	hashes := hashKeys(cols, height)
	byHash := make(map[uint64][]int)
	var reps []int
	for row := 0; row < height; row++ {
		h := hashes[row]
		found := false
		for _, rep := range byHash[h] {
			if keysMatch(cols, rep, cols, row) {
				found = true
				break
			}
		}
		if !found {
			byHash[h] = append(byHash[h], row)
			reps = append(reps, row)
		}
	}
	return reps
}

// sortKeyRows orders representative rows by the key columns, first column
// most significant. Missing values sort last within each column.
func sortKeyRows(cols []*Series, rows []int) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, col := range cols {
			if c := compareValues(col, rows[i], rows[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// compareValues orders two values of one column. Categorical values compare
// by declared level index, not label.
func compareValues(col *Series, a, b int) int {
	av, bv := col.IsValid(a), col.IsValid(b)
	if !av || !bv {
		if av == bv {
			return 0
		}
		if !av {
			return 1
		}
		return -1
	}

	switch col.DType() {
	case Int64:
		x, y := col.Int64()[a], col.Int64()[b]
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case Float64:
		x, y := col.Float64()[a], col.Float64()[b]
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case String:
		x, y := col.Strings()[a], col.Strings()[b]
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case Bool:
		x, y := col.Bool()[a], col.Bool()[b]
		if !x && y {
			return -1
		}
		if x && !y {
			return 1
		}
	case Categorical:
		x, y := col.CategoricalIndices()[a], col.CategoricalIndices()[b]
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// formatNameValue renders one names-column value for use in an output
// column name. Missing values render as "NA".
func formatNameValue(col *Series, row int) string {
	if !col.IsValid(row) {
		return "NA"
	}
	switch col.DType() {
	case Int64:
		return strconv.FormatInt(col.Int64()[row], 10)
	case Float64:
		return strconv.FormatFloat(col.Float64()[row], 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(col.Bool()[row])
	default:
		v, _ := col.GetString(row)
		return v
	}
}

// glueName expands a glue template for one combination. "{col}" substitutes
// that names column's value; "{.value}" the values-column name.
func glueName(glue, valueName string, namesCols []*Series, row int) string {
	out := strings.ReplaceAll(glue, "{.value}", valueName)
	for _, col := range namesCols {
		out = strings.ReplaceAll(out, "{"+col.Name()+"}", formatNameValue(col, row))
	}
	return out
}
