package reshape

import (
	"fmt"
	"sort"
)

// DataFrame is an ordered collection of equal-length Series. Column names are
// unique. A frame optionally carries grouping metadata: the names of columns
// the frame is grouped by, preserved across reshaping operations.
type DataFrame struct {
	cols   []*Series
	byName map[string]int
	groups []string
}

// NewDataFrame creates a DataFrame from the given series. All series must
// have the same length and unique names.
func NewDataFrame(series ...*Series) (*DataFrame, error) {
	df := &DataFrame{byName: make(map[string]int, len(series))}
	for i, s := range series {
		if s == nil {
			return nil, fmt.Errorf("series %d is nil", i)
		}
		if i > 0 && s.Len() != df.cols[0].Len() {
			return nil, fmt.Errorf("series %q has length %d, expected %d", s.Name(), s.Len(), df.cols[0].Len())
		}
		if _, exists := df.byName[s.Name()]; exists {
			return nil, fmt.Errorf("duplicate column name: %s", s.Name())
		}
		df.byName[s.Name()] = i
		df.cols = append(df.cols, s)
	}
	return df, nil
}

// Height returns the number of rows.
func (df *DataFrame) Height() int {
	if len(df.cols) == 0 {
		return 0
	}
	return df.cols[0].Len()
}

// Width returns the number of columns.
func (df *DataFrame) Width() int {
	return len(df.cols)
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	names := make([]string, len(df.cols))
	for i, s := range df.cols {
		names[i] = s.Name()
	}
	return names
}

// Column returns the series at the given position, or nil if out of bounds.
func (df *DataFrame) Column(index int) *Series {
	if index < 0 || index >= len(df.cols) {
		return nil
	}
	return df.cols[index]
}

// ColumnByName returns the series with the given name, or nil if absent.
func (df *DataFrame) ColumnByName(name string) *Series {
	idx, ok := df.byName[name]
	if !ok {
		return nil
	}
	return df.cols[idx]
}

// ColumnIndex returns the position of the named column, or -1.
func (df *DataFrame) ColumnIndex(name string) int {
	idx, ok := df.byName[name]
	if !ok {
		return -1
	}
	return idx
}

// Schema returns the frame's schema.
func (df *DataFrame) Schema() *Schema {
	names := make([]string, len(df.cols))
	dtypes := make([]DType, len(df.cols))
	for i, s := range df.cols {
		names[i] = s.Name()
		dtypes[i] = s.DType()
	}
	schema, _ := NewSchema(names, dtypes)
	return schema
}

// Select returns a new DataFrame with only the named columns, in the given
// order. Names not present in the frame are silently skipped.
func (df *DataFrame) Select(names ...string) *DataFrame {
	out := &DataFrame{byName: make(map[string]int)}
	for _, name := range names {
		idx, ok := df.byName[name]
		if !ok {
			continue
		}
		if _, dup := out.byName[name]; dup {
			continue
		}
		out.byName[name] = len(out.cols)
		out.cols = append(out.cols, df.cols[idx])
	}
	out.groups = df.groupsPresentIn(out)
	return out
}

// Drop returns a new DataFrame without the named columns.
func (df *DataFrame) Drop(names ...string) *DataFrame {
	dropped := make(map[string]bool, len(names))
	for _, name := range names {
		dropped[name] = true
	}
	out := &DataFrame{byName: make(map[string]int)}
	for _, s := range df.cols {
		if dropped[s.Name()] {
			continue
		}
		out.byName[s.Name()] = len(out.cols)
		out.cols = append(out.cols, s)
	}
	out.groups = df.groupsPresentIn(out)
	return out
}

// WithColumn returns a new DataFrame with the given series appended, or
// replacing an existing column of the same name in place.
func (df *DataFrame) WithColumn(s *Series) (*DataFrame, error) {
	if s == nil {
		return nil, fmt.Errorf("series is nil")
	}
	if len(df.cols) > 0 && s.Len() != df.Height() {
		return nil, fmt.Errorf("series %q has length %d, expected %d", s.Name(), s.Len(), df.Height())
	}
	out := df.shallowCopy()
	if idx, exists := out.byName[s.Name()]; exists {
		out.cols[idx] = s
	} else {
		out.byName[s.Name()] = len(out.cols)
		out.cols = append(out.cols, s)
	}
	return out, nil
}

// Slice returns rows [start, end) as a new DataFrame.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	out := &DataFrame{byName: make(map[string]int, len(df.cols)), groups: df.groups}
	for i, s := range df.cols {
		out.byName[s.Name()] = i
		out.cols = append(out.cols, s.Slice(start, end))
	}
	return out
}

// Head returns the first n rows.
func (df *DataFrame) Head(n int) *DataFrame {
	if n > df.Height() {
		n = df.Height()
	}
	return df.Slice(0, n)
}

// Tail returns the last n rows.
func (df *DataFrame) Tail(n int) *DataFrame {
	h := df.Height()
	if n > h {
		n = h
	}
	return df.Slice(h-n, h)
}

// Filter returns the rows where mask is true.
func (df *DataFrame) Filter(mask []bool) (*DataFrame, error) {
	if len(mask) != df.Height() {
		return nil, fmt.Errorf("mask length %d doesn't match height %d", len(mask), df.Height())
	}
	out := &DataFrame{byName: make(map[string]int, len(df.cols)), groups: df.groups}
	for i, s := range df.cols {
		out.byName[s.Name()] = i
		out.cols = append(out.cols, s.Filter(mask))
	}
	return out, nil
}

// Clone returns a shallow copy of the frame. The underlying series are
// shared, not copied.
func (df *DataFrame) Clone() *DataFrame {
	return df.shallowCopy()
}

// SortBy returns a new DataFrame stably sorted by the named column. Missing
// values sort last in either direction. List columns cannot be sorted.
func (df *DataFrame) SortBy(name string, ascending bool) (*DataFrame, error) {
	col := df.ColumnByName(name)
	if col == nil {
		return nil, fmt.Errorf("column not found: %s", name)
	}
	if col.DType() == List {
		return nil, fmt.Errorf("cannot sort by list column %q", name)
	}
	indices := make([]int, df.Height())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		a, b := indices[i], indices[j]
		va, vb := col.IsValid(a), col.IsValid(b)
		if va != vb {
			return va
		}
		c := compareValues(col, a, b)
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return df.Gather(indices), nil
}

// Gather returns a new DataFrame with rows at the given indices, in order.
// Index -1 produces an all-missing row.
func (df *DataFrame) Gather(indices []int) *DataFrame {
	out := &DataFrame{byName: make(map[string]int, len(df.cols)), groups: df.groups}
	for i, s := range df.cols {
		out.byName[s.Name()] = i
		out.cols = append(out.cols, s.Gather(indices))
	}
	return out
}

// ============================================================================
// Grouping metadata
// ============================================================================

// WithGroups returns a copy of the frame grouped by the named columns.
// All names must exist in the frame.
func (df *DataFrame) WithGroups(names ...string) (*DataFrame, error) {
	for _, name := range names {
		if _, ok := df.byName[name]; !ok {
			return nil, fmt.Errorf("group column not found: %s", name)
		}
	}
	out := df.shallowCopy()
	out.groups = append([]string{}, names...)
	return out, nil
}

// GroupKeys returns the names of the grouping columns, or nil when the frame
// is ungrouped.
func (df *DataFrame) GroupKeys() []string {
	return df.groups
}

// groupsPresentIn returns df's group names restricted to columns that exist
// in out. Reshaping drops from the grouping any column it consumed.
func (df *DataFrame) groupsPresentIn(out *DataFrame) []string {
	var kept []string
	for _, g := range df.groups {
		if _, ok := out.byName[g]; ok {
			kept = append(kept, g)
		}
	}
	return kept
}

// groupRowSets partitions row indices by the distinct key tuples of the
// grouping columns, in first-appearance order. An ungrouped frame yields a
// single partition with every row.
func (df *DataFrame) groupRowSets() [][]int {
	if len(df.groups) == 0 {
		all := make([]int, df.Height())
		for i := range all {
			all[i] = i
		}
		return [][]int{all}
	}

	cols := make([]*Series, len(df.groups))
	for i, name := range df.groups {
		cols[i] = df.ColumnByName(name)
	}
	hashes := hashKeys(cols, df.Height())

	order := []uint64{}
	byHash := make(map[uint64][][]int)
	for row := 0; row < df.Height(); row++ {
		h := hashes[row]
		buckets := byHash[h]
		placed := false
		for bi, bucket := range buckets {
			if keysMatch(cols, bucket[0], cols, row) {
				byHash[h][bi] = append(bucket, row)
				placed = true
				break
			}
		}
		if !placed {
			if len(buckets) == 0 {
				order = append(order, h)
			}
			byHash[h] = append(byHash[h], []int{row})
		}
	}

	var out [][]int
	for _, h := range order {
		out = append(out, byHash[h]...)
	}
	return out
}

func (df *DataFrame) shallowCopy() *DataFrame {
	out := &DataFrame{
		cols:   append([]*Series{}, df.cols...),
		byName: make(map[string]int, len(df.byName)),
		groups: df.groups,
	}
	for k, v := range df.byName {
		out.byName[k] = v
	}
	return out
}

// Concat vertically concatenates frames with identical schemas.
func Concat(frames ...*DataFrame) (*DataFrame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to concatenate")
	}
	first := frames[0]
	for _, f := range frames[1:] {
		if f.Width() != first.Width() {
			return nil, fmt.Errorf("schema mismatch: %d columns vs %d", f.Width(), first.Width())
		}
		for i, s := range f.cols {
			if s.Name() != first.cols[i].Name() || s.DType() != first.cols[i].DType() {
				return nil, fmt.Errorf("schema mismatch at column %d: %s %s vs %s %s",
					i, s.Name(), s.DType(), first.cols[i].Name(), first.cols[i].DType())
			}
		}
	}

	series := make([]*Series, first.Width())
	for c := 0; c < first.Width(); c++ {
		if first.cols[c].DType().IsCategorical() {
			parts := make([]*Series, len(frames))
			for i, f := range frames {
				parts[i] = f.cols[c]
			}
			s, err := concatCategorical(first.cols[c].Name(), parts)
			if err != nil {
				return nil, err
			}
			series[c] = s
			continue
		}
		cb := builderForDType(first.cols[c].DType(), first.cols[c])
		for _, f := range frames {
			col := f.cols[c]
			for row := 0; row < col.Len(); row++ {
				cb.appendFrom(col, row)
			}
		}
		s, err := cb.finish(first.cols[c].Name())
		if err != nil {
			return nil, err
		}
		series[c] = s
	}
	out, err := NewDataFrame(series...)
	if err != nil {
		return nil, err
	}
	out.groups = first.groups
	return out, nil
}

// concatCategorical concatenates categorical columns by merging their
// dictionaries. The first column's declared level order leads; labels it
// lacks follow in order of appearance across the remaining columns. Indices
// are re-encoded against the merged dictionary, -1 stays missing.
func concatCategorical(name string, parts []*Series) (*Series, error) {
	var categories []string
	lookup := make(map[string]int32)
	for _, p := range parts {
		if p.DType() != Categorical {
			return nil, fmt.Errorf("cannot concatenate %s into a categorical column", p.DType())
		}
		for _, label := range p.Categories() {
			if _, seen := lookup[label]; !seen {
				lookup[label] = int32(len(categories))
				categories = append(categories, label)
			}
		}
	}

	var indices []int32
	for _, p := range parts {
		partLevels := p.Categories()
		for _, idx := range p.CategoricalIndices() {
			if idx < 0 {
				indices = append(indices, -1)
			} else {
				indices = append(indices, lookup[partLevels[idx]])
			}
		}
	}
	return &Series{
		name:   name,
		dtype:  Categorical,
		length: len(indices),
		cat:    &categoricalData{indices: indices, categories: categories},
	}, nil
}

// builderForDType creates a columnBuilder matching a prototype column.
// Categorical columns concatenate through concatCategorical, not a builder.
func builderForDType(dtype DType, proto *Series) *columnBuilder {
	if dtype == List {
		return newListBuilder(proto.ListElementType())
	}
	return newColumnBuilder(dtype)
}
