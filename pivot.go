package reshape

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// PivotOptions configures long-to-wide reshaping.
type PivotOptions struct {
	// IDCols selects the columns identifying output rows. Nil means every
	// column not consumed by NamesFrom or ValuesFrom. Group-key columns
	// are always included.
	IDCols Selector

	// NamesFrom and ValuesFrom are required; see SpecOptions.
	NamesFrom  Selector
	ValuesFrom Selector

	NamesSep    string
	NamesGlue   string
	NamesSort   bool
	NamesRepair RepairFunc

	// ValuesFn aggregates duplicate cells: an AggFunc applied to every
	// values column, or a map[string]AggFunc keyed by values-column name.
	// Nil collects duplicates into list columns with a warning.
	ValuesFn interface{}

	// Fill replaces absent cells: a single value for every column, or a
	// map[string]interface{} keyed by values-column name. Nil leaves
	// absent cells missing. Fill never replaces an authentic missing
	// value carried in from the input.
	Fill interface{}
}

// PivotWider reshapes a long frame to wide: the distinct values of the
// names columns become new columns, populated from the values columns.
// Returns the wide frame and any non-fatal warnings, such as duplicate
// keys collapsed into list columns.
func PivotWider(df *DataFrame, opts PivotOptions) (*DataFrame, []Warning, error) {
	if opts.NamesFrom == nil {
		return nil, nil, fmt.Errorf("resolving names columns: %w", ErrNoMatchingColumn)
	}
	namesIdx, err := resolveRequired(df, opts.NamesFrom, "resolving names columns")
	if err != nil {
		return nil, nil, err
	}
	if opts.ValuesFrom == nil {
		return nil, nil, fmt.Errorf("resolving values columns: %w", ErrNoMatchingColumn)
	}
	valuesIdx, err := resolveRequired(df, opts.ValuesFrom, "resolving values columns")
	if err != nil {
		return nil, nil, err
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:   opts.NamesFrom,
		ValuesFrom:  opts.ValuesFrom,
		NamesSep:    opts.NamesSep,
		NamesGlue:   opts.NamesGlue,
		NamesSort:   opts.NamesSort,
		NamesRepair: opts.NamesRepair,
	})
	if err != nil {
		return nil, nil, err
	}

	var ids Selector = opts.IDCols
	if ids == nil {
		ids = Not(Union(Idx(namesIdx...), Idx(valuesIdx...)))
	}
	return PivotWiderSpec(df, spec, ids, opts)
}

// PivotWiderSpec reshapes a long frame to wide using an explicit pivot
// spec, typically one from BuildSpec, possibly reordered or edited. The
// spec's key columns and source values columns must exist in df.
func PivotWiderSpec(df *DataFrame, spec *DataFrame, ids Selector, opts PivotOptions) (*DataFrame, []Warning, error) {
	if err := ValidateSpec(spec); err != nil {
		return nil, nil, err
	}

	keyNames := specKeyColumns(spec)
	valueNames := distinctSpecValues(spec)
	for _, name := range keyNames {
		if df.ColumnByName(name) == nil {
			return nil, nil, fmt.Errorf("spec key column not found in frame: %s", name)
		}
	}
	for _, name := range valueNames {
		if df.ColumnByName(name) == nil {
			return nil, nil, fmt.Errorf("spec values column not found in frame: %s", name)
		}
	}

	valuesFn, err := normalizeValuesFn(opts.ValuesFn, valueNames)
	if err != nil {
		return nil, nil, err
	}
	fills, globalFill, err := normalizeFill(opts.Fill, valueNames)
	if err != nil {
		return nil, nil, err
	}

	idNames, err := resolveIDNames(df, ids, keyNames, valueNames)
	if err != nil {
		return nil, nil, err
	}

	// Each group partition pivots independently; results concatenate in
	// group order after schema unification.
	partitions := df.groupRowSets()
	if len(partitions) == 0 {
		// Zero rows in a grouped frame: still emit the full column set.
		partitions = [][]int{nil}
	}
	frames := make([]*DataFrame, len(partitions))
	warnLists := make([][]Warning, len(partitions))

	var eg errgroup.Group
	eg.SetLimit(globalConfig.numWorkers())
	for p, rows := range partitions {
		p, rows := p, rows
		eg.Go(func() error {
			out, warns, err := pivotPartition(df, rows, spec, idNames, valuesFn, fills, globalFill)
			if err != nil {
				return err
			}
			frames[p] = out
			warnLists[p] = warns
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	out, err := concatUnified(frames)
	if err != nil {
		return nil, nil, err
	}

	// Full-sequence name repair over id names plus spec names, then carry
	// the input grouping forward, minus any key the pivot consumed.
	repaired, err := applyRepair(opts.NamesRepair, out.Columns())
	if err != nil {
		return nil, nil, err
	}
	renamed := make([]*Series, out.Width())
	for i := 0; i < out.Width(); i++ {
		renamed[i] = out.Column(i).Rename(repaired[i])
	}
	final, err := NewDataFrame(renamed...)
	if err != nil {
		return nil, nil, err
	}
	if gk := df.groupsPresentIn(final); len(gk) > 0 {
		final, err = final.WithGroups(gk...)
		if err != nil {
			return nil, nil, err
		}
	}

	return final, mergeWarnings(warnLists), nil
}

// resolveIDNames resolves the id selection, removes any spec key or values
// column from it, and guarantees the frame's group-key columns lead.
func resolveIDNames(df *DataFrame, ids Selector, keyNames, valueNames []string) ([]string, error) {
	consumed := make(map[string]bool, len(keyNames)+len(valueNames))
	for _, n := range keyNames {
		consumed[n] = true
	}
	for _, n := range valueNames {
		consumed[n] = true
	}

	var selected []string
	if ids != nil {
		idx, err := resolveSelector(df, ids)
		if err != nil {
			return nil, err
		}
		for _, name := range selectionNames(df, idx) {
			if !consumed[name] {
				selected = append(selected, name)
			}
		}
	} else {
		for _, name := range df.Columns() {
			if !consumed[name] {
				selected = append(selected, name)
			}
		}
	}

	have := make(map[string]bool, len(selected))
	for _, n := range selected {
		have[n] = true
	}
	var out []string
	for _, g := range df.GroupKeys() {
		if !have[g] && !consumed[g] {
			out = append(out, g)
		}
	}
	return append(out, selected...), nil
}

func distinctSpecValues(spec *DataFrame) []string {
	valueCol := spec.ColumnByName("value")
	var out []string
	seen := make(map[string]bool)
	for i := 0; i < valueCol.Len(); i++ {
		v, _ := valueCol.GetString(i)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// normalizeFill splits the Fill option into a per-values-column map and a
// global default. Plain ints are widened to int64.
func normalizeFill(fill interface{}, valueNames []string) (map[string]interface{}, interface{}, error) {
	switch f := fill.(type) {
	case nil:
		return nil, nil, nil
	case map[string]interface{}:
		known := make(map[string]bool, len(valueNames))
		for _, n := range valueNames {
			known[n] = true
		}
		out := make(map[string]interface{}, len(f))
		for name, v := range f {
			if !known[name] {
				return nil, nil, fmt.Errorf("fill column %q is not a values column", name)
			}
			out[name] = widenInt(v)
		}
		return out, nil, nil
	default:
		return nil, widenInt(fill), nil
	}
}

func widenInt(v interface{}) interface{} {
	if i, ok := v.(int); ok {
		return int64(i)
	}
	return v
}

func mergeWarnings(lists [][]Warning) []Warning {
	var out []Warning
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, w := range list {
			key := w.Column + "\x00" + w.Message
			if !seen[key] {
				seen[key] = true
				out = append(out, w)
			}
		}
	}
	return out
}

// ============================================================================
// Per-partition pivot
// ============================================================================

// cellIndex maps each (id key, spec row) pair to the input rows feeding it.
type cellIndex struct {
	idReps []int   // representative input row per distinct id key
	cells  [][]int // flattened [specRow*len(idReps)+idIdx] -> input rows
	nSpec  int
}

func (ci *cellIndex) rowsFor(specRow, idIdx int) []int {
	return ci.cells[specRow*len(ci.idReps)+idIdx]
}

// buildCellIndex partitions the given input rows by id-key tuple and, within
// each, by names-key tuple matched against the spec. Rows matching no spec
// row still register their id key.
func buildCellIndex(df *DataFrame, rows []int, spec *DataFrame, idNames []string) *cellIndex {
	idCols := make([]*Series, len(idNames))
	for i, name := range idNames {
		idCols[i] = df.ColumnByName(name)
	}
	keyNames := specKeyColumns(spec)
	keyCols := make([]*Series, len(keyNames))
	specKeyCols := make([]*Series, len(keyNames))
	for i, name := range keyNames {
		keyCols[i] = df.ColumnByName(name)
		specKeyCols[i] = spec.ColumnByName(name)
	}

	idHashes := hashKeys(idCols, df.Height())
	keyHashes := hashKeys(keyCols, df.Height())

	// Hash index over spec rows by key tuple. One tuple maps to several
	// spec rows when there are multiple values columns.
	specHashes := hashKeys(specKeyCols, spec.Height())
	specByHash := make(map[uint64][]int, spec.Height())
	for s := 0; s < spec.Height(); s++ {
		specByHash[specHashes[s]] = append(specByHash[specHashes[s]], s)
	}

	ci := &cellIndex{nSpec: spec.Height()}
	idByHash := make(map[uint64][]int) // hash -> indices into idReps
	idIdxOf := func(row int) int {
		h := idHashes[row]
		for _, idx := range idByHash[h] {
			if keysMatch(idCols, ci.idReps[idx], idCols, row) {
				return idx
			}
		}
		idx := len(ci.idReps)
		ci.idReps = append(ci.idReps, row)
		idByHash[h] = append(idByHash[h], idx)
		return idx
	}

	type placement struct {
		specRow int
		idIdx   int
		row     int
	}
	var placements []placement
	for _, row := range rows {
		idIdx := idIdxOf(row)
		for _, s := range specByHash[keyHashes[row]] {
			if keysMatch(keyCols, row, specKeyCols, s) {
				placements = append(placements, placement{s, idIdx, row})
			}
		}
	}

	ci.cells = make([][]int, ci.nSpec*len(ci.idReps))
	for _, p := range placements {
		slot := p.specRow*len(ci.idReps) + p.idIdx
		ci.cells[slot] = append(ci.cells[slot], p.row)
	}
	return ci
}

func pivotPartition(
	df *DataFrame,
	rows []int,
	spec *DataFrame,
	idNames []string,
	valuesFn map[string]AggFunc,
	fills map[string]interface{},
	globalFill interface{},
) (*DataFrame, []Warning, error) {
	ci := buildCellIndex(df, rows, spec, idNames)

	nameCol := spec.ColumnByName("name")
	valueCol := spec.ColumnByName("value")

	var warnings []Warning
	errs := make([]error, spec.Height())
	warned := make([]bool, spec.Height())

	outCols := ParallelBuildColumns(spec.Height(), func(s int) *Series {
		outName, _ := nameCol.GetString(s)
		srcName, _ := valueCol.GetString(s)
		src := df.ColumnByName(srcName)

		fill, ok := fills[srcName]
		if !ok {
			fill = globalFill
		}

		col, dupes, err := buildOutputColumn(src, ci, s, valuesFn[srcName], fill)
		if err != nil {
			errs[s] = fmt.Errorf("building column %q: %w", outName, err)
			return nil
		}
		warned[s] = dupes
		return col.Rename(outName)
	})
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	for s, w := range warned {
		if w {
			outName, _ := nameCol.GetString(s)
			warnings = append(warnings, Warning{
				Column:  outName,
				Message: "values are not uniquely identified; duplicates collected into lists",
			})
		}
	}

	series := make([]*Series, 0, len(idNames)+len(outCols))
	for _, name := range idNames {
		series = append(series, df.ColumnByName(name).Gather(ci.idReps))
	}
	series = append(series, outCols...)

	out, err := NewDataFrame(series...)
	if err != nil {
		return nil, nil, err
	}
	return out, warnings, nil
}

// ============================================================================
// Column materialization: aggregate, promote, densify
// ============================================================================

// buildOutputColumn reduces every cell of one spec row to a value and lays
// the results out densely over the id keys, filling absent cells. Reports
// whether duplicates were collapsed into lists without an aggregator.
func buildOutputColumn(src *Series, ci *cellIndex, specRow int, fn AggFunc, fill interface{}) (*Series, bool, error) {
	nIDs := len(ci.idReps)

	if fn != nil {
		return aggregateColumn(src, ci, specRow, fn, fill)
	}

	hasDupes := false
	for idIdx := 0; idIdx < nIDs; idIdx++ {
		if len(ci.rowsFor(specRow, idIdx)) > 1 {
			hasDupes = true
			break
		}
	}
	if hasDupes {
		col, err := listColumn(src, ci, specRow, fill)
		return col, true, err
	}

	// Singleton fast path: gather straight from the source column, which
	// preserves its dtype, including categorical dictionaries.
	indices := make([]int, nIDs)
	absent := make([]bool, nIDs)
	anyAbsent := false
	for idIdx := 0; idIdx < nIDs; idIdx++ {
		rows := ci.rowsFor(specRow, idIdx)
		if len(rows) == 1 {
			indices[idIdx] = rows[0]
		} else {
			indices[idIdx] = -1
			absent[idIdx] = true
			anyAbsent = true
		}
	}
	col := src.Gather(indices)
	if fill == nil || !anyAbsent {
		return col, false, nil
	}
	col, err := fillAbsent(col, absent, fill)
	return col, false, err
}

// aggregateColumn applies fn to every populated cell. fn runs on singleton
// cells too, so the output type is consistent and no duplicate warning is
// ever raised for aggregated columns.
func aggregateColumn(src *Series, ci *cellIndex, specRow int, fn AggFunc, fill interface{}) (*Series, bool, error) {
	nIDs := len(ci.idReps)
	vals := make([]interface{}, nIDs)
	present := make([]bool, nIDs)
	for idIdx := 0; idIdx < nIDs; idIdx++ {
		rows := ci.rowsFor(specRow, idIdx)
		if len(rows) == 0 {
			continue
		}
		v, err := fn(src.Gather(rows))
		if err != nil {
			return nil, false, err
		}
		vals[idIdx] = widenInt(v)
		present[idIdx] = true
	}

	dtype, elem, err := inferCellDType(vals, present, src, fill)
	if err != nil {
		return nil, false, err
	}

	var cb *columnBuilder
	if dtype == List {
		cb = newListBuilder(elem)
	} else {
		cb = newColumnBuilder(dtype)
	}
	for idIdx := 0; idIdx < nIDs; idIdx++ {
		switch {
		case present[idIdx]:
			v, err := coerceValue(vals[idIdx], dtype)
			if err != nil {
				return nil, false, err
			}
			cb.appendValue(v)
		case fill != nil && dtype != List:
			v, err := coerceValue(fill, dtype)
			if err != nil {
				return nil, false, fmt.Errorf("fill value: %w", err)
			}
			cb.appendValue(v)
		default:
			cb.appendMissing()
		}
	}
	col, err := cb.finish(src.Name())
	return col, false, err
}

// listColumn collapses every cell into a list of its raw values. A supplied
// fill becomes a one-element list in absent cells.
func listColumn(src *Series, ci *cellIndex, specRow int, fill interface{}) (*Series, error) {
	elem := src.DType()
	if elem == Categorical {
		elem = String
	}
	if elem == List {
		return nil, fmt.Errorf("cannot collect duplicate list values into lists")
	}
	if fill != nil {
		if _, err := coerceValue(fill, elem); err != nil {
			return nil, fmt.Errorf("fill value: %w", err)
		}
	}

	cb := newListBuilder(elem)
	for idIdx := 0; idIdx < len(ci.idReps); idIdx++ {
		rows := ci.rowsFor(specRow, idIdx)
		switch {
		case len(rows) > 0:
			cb.appendList(src.Gather(rows))
		case fill != nil:
			v, _ := coerceValue(fill, elem)
			cb.values.appendValue(v)
			cb.offsets = append(cb.offsets, cb.offsets[len(cb.offsets)-1]+1)
			cb.valid = append(cb.valid, true)
		default:
			cb.appendMissing()
		}
	}
	return cb.finish(src.Name())
}

// fillAbsent replaces only the absent cells of a gathered column with the
// fill value. The column keeps its element type; the one widening allowed
// is Int64 to Float64 when the fill is a non-integral float.
func fillAbsent(col *Series, absent []bool, fill interface{}) (*Series, error) {
	dtype := col.DType()
	if dtype == Categorical {
		return fillAbsentCategorical(col, absent, fill)
	}
	if dtype == Int64 {
		if f, ok := fill.(float64); ok && f != math.Trunc(f) {
			dtype = Float64
		}
	}
	fv, err := coerceValue(fill, dtype)
	if err != nil {
		return nil, fmt.Errorf("fill value: %w", err)
	}

	cb := newColumnBuilder(dtype)
	for i := 0; i < col.Len(); i++ {
		if absent[i] {
			cb.appendValue(fv)
		} else {
			cb.appendFrom(col, i)
		}
	}
	return cb.finish(col.Name())
}

// fillAbsentCategorical fills a categorical column in place, extending the
// dictionary when the fill label is a new category.
func fillAbsentCategorical(col *Series, absent []bool, fill interface{}) (*Series, error) {
	label, ok := fill.(string)
	if !ok {
		return nil, fmt.Errorf("fill value: cannot use %T in a categorical column", fill)
	}
	categories := append([]string{}, col.Categories()...)
	fillIdx := int32(-1)
	for i, c := range categories {
		if c == label {
			fillIdx = int32(i)
			break
		}
	}
	if fillIdx < 0 {
		fillIdx = int32(len(categories))
		categories = append(categories, label)
	}

	src := col.CategoricalIndices()
	indices := make([]int32, col.Len())
	for i := range indices {
		if absent[i] {
			indices[i] = fillIdx
		} else {
			indices[i] = src[i]
		}
	}
	return &Series{
		name:   col.Name(),
		dtype:  Categorical,
		length: col.Len(),
		cat:    &categoricalData{indices: indices, categories: categories},
	}, nil
}

// inferCellDType decides the output column type for aggregated cells from
// the dynamic types the aggregator returned, the fill value, and the source
// column as a last resort.
func inferCellDType(vals []interface{}, present []bool, src *Series, fill interface{}) (DType, DType, error) {
	var (
		seen     bool
		dtype    DType
		elem     DType
		haveElem bool
	)
	consider := func(v interface{}) error {
		var d DType
		switch x := v.(type) {
		case int64:
			d = Int64
		case float64:
			d = Float64
		case string:
			d = String
		case bool:
			d = Bool
		case *Series:
			d = List
			e := x.DType()
			if e == Categorical {
				e = String
			}
			if !haveElem {
				elem, haveElem = e, true
			} else if elem != e {
				if (elem == Int64 && e == Float64) || (elem == Float64 && e == Int64) {
					elem = Float64
				} else {
					return fmt.Errorf("mixed list element types %s and %s", elem, e)
				}
			}
		default:
			return fmt.Errorf("unsupported aggregation result type %T", v)
		}
		if !seen {
			dtype, seen = d, true
			return nil
		}
		if dtype == d {
			return nil
		}
		if (dtype == Int64 && d == Float64) || (dtype == Float64 && d == Int64) {
			dtype = Float64
			return nil
		}
		return fmt.Errorf("mixed aggregation result types %s and %s", dtype, d)
	}

	for i, v := range vals {
		if !present[i] || v == nil {
			continue
		}
		if err := consider(v); err != nil {
			return 0, 0, err
		}
	}
	if fill != nil {
		if err := consider(widenInt(fill)); err != nil {
			return 0, 0, fmt.Errorf("fill value: %w", err)
		}
	}

	if !seen {
		// Every cell missing: fall back to the source element type.
		dtype = src.DType()
		if dtype == Categorical {
			dtype = String
		}
		if dtype == List {
			dtype, elem = List, src.ListElementType()
		}
	}
	if dtype == List && !haveElem && elem == 0 {
		elem = src.DType()
		if elem == Categorical || elem == List {
			elem = String
		}
	}
	return dtype, elem, nil
}

// coerceValue converts a Go value to the builder type dtype. Integral
// floats narrow to int64; ints widen to float64. Anything else must match.
func coerceValue(v interface{}, dtype DType) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	v = widenInt(v)
	switch dtype {
	case Int64:
		switch x := v.(type) {
		case int64:
			return x, nil
		case float64:
			if x == math.Trunc(x) {
				return int64(x), nil
			}
			return nil, fmt.Errorf("cannot use non-integral %v in an integer column", x)
		}
	case Float64:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		}
	case String:
		if x, ok := v.(string); ok {
			return x, nil
		}
	case Bool:
		if x, ok := v.(bool); ok {
			return x, nil
		}
	case List:
		if x, ok := v.(*Series); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("cannot use %T in a %s column", v, dtype)
}

// ============================================================================
// Cross-partition schema unification
// ============================================================================

// concatUnified concatenates per-partition frames, first promoting columns
// to a common type: Float64 absorbs Int64, String absorbs Categorical, and
// a list column in any partition promotes that column everywhere.
func concatUnified(frames []*DataFrame) (*DataFrame, error) {
	if len(frames) == 1 {
		return frames[0], nil
	}

	first := frames[0]
	width := first.Width()
	for _, f := range frames[1:] {
		if f.Width() != width {
			return nil, fmt.Errorf("partition produced %d columns, expected %d", f.Width(), width)
		}
	}

	targets := make([]DType, width)
	elems := make([]DType, width)
	for c := 0; c < width; c++ {
		targets[c] = first.Column(c).DType()
		elems[c] = first.Column(c).ListElementType()
		for _, f := range frames[1:] {
			var err error
			targets[c], elems[c], err = promoteDType(targets[c], elems[c], f.Column(c).DType(), f.Column(c).ListElementType())
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", first.Column(c).Name(), err)
			}
		}
	}

	converted := make([]*DataFrame, len(frames))
	for i, f := range frames {
		cols := make([]*Series, width)
		for c := 0; c < width; c++ {
			col, err := convertColumn(f.Column(c), targets[c], elems[c])
			if err != nil {
				return nil, err
			}
			cols[c] = col
		}
		out, err := NewDataFrame(cols...)
		if err != nil {
			return nil, err
		}
		converted[i] = out
	}
	return Concat(converted...)
}

func promoteDType(a DType, aElem DType, b DType, bElem DType) (DType, DType, error) {
	if a == b {
		if a == List && aElem != bElem {
			e, _, err := promoteDType(aElem, 0, bElem, 0)
			return List, e, err
		}
		return a, aElem, nil
	}
	switch {
	case (a == Int64 && b == Float64) || (a == Float64 && b == Int64):
		return Float64, 0, nil
	case (a == String && b == Categorical) || (a == Categorical && b == String):
		return String, 0, nil
	case a == List:
		e, _, err := promoteDType(aElem, 0, scalarElem(b), 0)
		return List, e, err
	case b == List:
		e, _, err := promoteDType(scalarElem(a), 0, bElem, 0)
		return List, e, err
	}
	return 0, 0, fmt.Errorf("cannot unify %s and %s", a, b)
}

func scalarElem(d DType) DType {
	if d == Categorical {
		return String
	}
	return d
}

// convertColumn rebuilds a column at the target type. Scalar cells promoted
// to a list type become one-element lists; missing stays missing.
func convertColumn(col *Series, target DType, elem DType) (*Series, error) {
	if col.DType() == target && (target != List || col.ListElementType() == elem) {
		return col, nil
	}

	if target == List {
		cb := newListBuilder(elem)
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				cb.appendMissing()
				continue
			}
			if col.DType() == List {
				cb.appendList(col.GetList(i))
			} else {
				cb.values.appendFrom(col, i)
				cb.offsets = append(cb.offsets, cb.offsets[len(cb.offsets)-1]+1)
				cb.valid = append(cb.valid, true)
			}
		}
		return cb.finish(col.Name())
	}

	cb := newColumnBuilder(target)
	for i := 0; i < col.Len(); i++ {
		cb.appendFrom(col, i)
	}
	return cb.finish(col.Name())
}
