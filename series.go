package reshape

import (
	"fmt"
)

// Series is a named, typed column vector. Storage is columnar: one backing
// slice per dtype, an optional validity mask for missing values, and
// Arrow-style offsets + flattened values for List columns.
//
// A Series is exclusively owned by at most one DataFrame; operations that
// move values between frames copy or gather rather than alias.
type Series struct {
	name   string
	dtype  DType
	length int
	valid  []bool // nil means all values are valid

	i64  []int64
	f64  []float64
	str  []string
	b    []bool
	cat  *categoricalData
	list *listData
}

// categoricalData stores dictionary-encoded strings. The categories slice is
// the declared level order; index -1 encodes a missing value.
type categoricalData struct {
	indices    []int32
	categories []string
}

// listData stores variable-length lists as offsets into a flattened values
// Series. offsets has length rows+1; offsets[i] to offsets[i+1] is row i.
type listData struct {
	elem    DType
	offsets []int32
	values  *Series
}

// ============================================================================
// Constructors
// ============================================================================

// NewSeriesInt64 creates an Int64 Series from a Go slice.
func NewSeriesInt64(name string, data []int64) *Series {
	return &Series{name: name, dtype: Int64, length: len(data), i64: data}
}

// NewSeriesInt64WithNulls creates an Int64 Series with null values.
// The valid slice indicates which values are valid (true) vs null (false).
func NewSeriesInt64WithNulls(name string, data []int64, valid []bool) *Series {
	return &Series{name: name, dtype: Int64, length: len(data), i64: data, valid: normalizeValid(valid)}
}

// NewSeriesFloat64 creates a Float64 Series from a Go slice.
func NewSeriesFloat64(name string, data []float64) *Series {
	return &Series{name: name, dtype: Float64, length: len(data), f64: data}
}

// NewSeriesFloat64WithNulls creates a Float64 Series with null values.
func NewSeriesFloat64WithNulls(name string, data []float64, valid []bool) *Series {
	return &Series{name: name, dtype: Float64, length: len(data), f64: data, valid: normalizeValid(valid)}
}

// NewSeriesString creates a String Series from a Go slice.
func NewSeriesString(name string, data []string) *Series {
	return &Series{name: name, dtype: String, length: len(data), str: data}
}

// NewSeriesStringWithNulls creates a String Series with null values.
func NewSeriesStringWithNulls(name string, data []string, valid []bool) *Series {
	return &Series{name: name, dtype: String, length: len(data), str: data, valid: normalizeValid(valid)}
}

// NewSeriesBool creates a Bool Series from a Go slice.
func NewSeriesBool(name string, data []bool) *Series {
	return &Series{name: name, dtype: Bool, length: len(data), b: data}
}

// NewSeriesBoolWithNulls creates a Bool Series with null values.
func NewSeriesBoolWithNulls(name string, data []bool, valid []bool) *Series {
	return &Series{name: name, dtype: Bool, length: len(data), b: data, valid: normalizeValid(valid)}
}

// NewSeriesCategorical creates a Categorical Series. The category dictionary
// is derived from the data in first-appearance order.
func NewSeriesCategorical(name string, data []string) *Series {
	var categories []string
	seen := make(map[string]int32)
	indices := make([]int32, len(data))
	for i, v := range data {
		idx, ok := seen[v]
		if !ok {
			idx = int32(len(categories))
			categories = append(categories, v)
			seen[v] = idx
		}
		indices[i] = idx
	}
	return &Series{
		name:   name,
		dtype:  Categorical,
		length: len(data),
		cat:    &categoricalData{indices: indices, categories: categories},
	}
}

// NewSeriesCategoricalWithCategories creates a Categorical Series with an
// explicit category dictionary. The dictionary order is the declared level
// order and is preserved by all operations. Values not present in the
// dictionary become missing.
func NewSeriesCategoricalWithCategories(name string, data []string, categories []string) (*Series, error) {
	seen := make(map[string]int32, len(categories))
	for i, c := range categories {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate category: %s", c)
		}
		seen[c] = int32(i)
	}

	indices := make([]int32, len(data))
	for i, v := range data {
		idx, ok := seen[v]
		if !ok {
			idx = -1
		}
		indices[i] = idx
	}
	return &Series{
		name:   name,
		dtype:  Categorical,
		length: len(data),
		cat:    &categoricalData{indices: indices, categories: append([]string{}, categories...)},
	}, nil
}

// NewSeriesList creates a List Series from offsets and flattened values.
// offsets must have length numRows+1; valid marks missing rows (nil = none).
func NewSeriesList(name string, offsets []int32, values *Series, valid []bool) (*Series, error) {
	if len(offsets) < 1 {
		return nil, fmt.Errorf("offsets must have at least 1 element")
	}
	if values == nil {
		return nil, fmt.Errorf("values series is nil")
	}
	if values.dtype == List {
		return nil, fmt.Errorf("list of lists is not supported")
	}

	numRows := len(offsets) - 1
	for i := 0; i < numRows; i++ {
		if offsets[i] > offsets[i+1] {
			return nil, fmt.Errorf("invalid offsets at row %d: %d > %d", i, offsets[i], offsets[i+1])
		}
	}
	if int(offsets[numRows]) != values.Len() {
		return nil, fmt.Errorf("last offset %d doesn't match values length %d", offsets[numRows], values.Len())
	}

	return &Series{
		name:   name,
		dtype:  List,
		length: numRows,
		valid:  normalizeValid(valid),
		list:   &listData{elem: values.dtype, offsets: offsets, values: values},
	}, nil
}

// normalizeValid returns nil when every entry is true, so the all-valid fast
// path stays a nil check.
func normalizeValid(valid []bool) []bool {
	for _, v := range valid {
		if !v {
			return valid
		}
	}
	return nil
}

// ============================================================================
// Metadata
// ============================================================================

// Name returns the series name.
func (s *Series) Name() string {
	return s.name
}

// Rename returns a copy of the series with a new name. The backing data is
// shared; Series are immutable once constructed.
func (s *Series) Rename(newName string) *Series {
	out := *s
	out.name = newName
	return &out
}

// DType returns the data type.
func (s *Series) DType() DType {
	return s.dtype
}

// Len returns the number of elements.
func (s *Series) Len() int {
	return s.length
}

// IsValid returns true if the value at the given index is valid (not missing).
// Returns false if index is out of bounds.
func (s *Series) IsValid(index int) bool {
	if index < 0 || index >= s.length {
		return false
	}
	if s.dtype == Categorical {
		return s.cat.indices[index] >= 0
	}
	if s.valid == nil {
		return true
	}
	return s.valid[index]
}

// HasNulls returns true if the series has any missing values.
func (s *Series) HasNulls() bool {
	return s.NullCount() > 0
}

// NullCount returns the number of missing values.
func (s *Series) NullCount() int {
	count := 0
	for i := 0; i < s.length; i++ {
		if !s.IsValid(i) {
			count++
		}
	}
	return count
}

// ============================================================================
// Data access
// ============================================================================

// Int64 returns the backing int64 slice. Nil for other dtypes.
func (s *Series) Int64() []int64 { return s.i64 }

// Float64 returns the backing float64 slice. Nil for other dtypes.
func (s *Series) Float64() []float64 { return s.f64 }

// Strings returns the backing string slice. Nil for other dtypes.
func (s *Series) Strings() []string { return s.str }

// Bool returns the backing bool slice. Nil for other dtypes.
func (s *Series) Bool() []bool { return s.b }

// Categories returns the category dictionary in declared level order.
func (s *Series) Categories() []string {
	if s.cat == nil {
		return nil
	}
	return s.cat.categories
}

// CategoricalIndices returns the dictionary indices (-1 = missing).
func (s *Series) CategoricalIndices() []int32 {
	if s.cat == nil {
		return nil
	}
	return s.cat.indices
}

// ListElementType returns the element type of a List series.
func (s *Series) ListElementType() DType {
	if s.list == nil {
		return Int64
	}
	return s.list.elem
}

// ListOffsets returns the offset array of a List series.
func (s *Series) ListOffsets() []int32 {
	if s.list == nil {
		return nil
	}
	return s.list.offsets
}

// ListValues returns the flattened values of a List series.
func (s *Series) ListValues() *Series {
	if s.list == nil {
		return nil
	}
	return s.list.values
}

// ListLen returns the length of the list at the given row.
func (s *Series) ListLen(index int) int {
	if s.list == nil || index < 0 || index >= s.length {
		return 0
	}
	return int(s.list.offsets[index+1] - s.list.offsets[index])
}

// GetList returns the list at the given row as a flat Series, or nil for a
// missing row or non-List series.
func (s *Series) GetList(index int) *Series {
	if s.list == nil || !s.IsValid(index) {
		return nil
	}
	start := int(s.list.offsets[index])
	end := int(s.list.offsets[index+1])
	return s.list.values.Slice(start, end).Rename(s.name)
}

// GetInt64 returns the int64 value at the given index.
// Returns (value, true) if valid, (0, false) if missing or out of bounds.
func (s *Series) GetInt64(index int) (int64, bool) {
	if s.dtype != Int64 || !s.IsValid(index) {
		return 0, false
	}
	return s.i64[index], true
}

// GetFloat64 returns the float64 value at the given index.
func (s *Series) GetFloat64(index int) (float64, bool) {
	if s.dtype != Float64 || !s.IsValid(index) {
		return 0, false
	}
	return s.f64[index], true
}

// GetString returns the string value at the given index. For Categorical
// series this is the category label.
func (s *Series) GetString(index int) (string, bool) {
	if !s.IsValid(index) {
		return "", false
	}
	switch s.dtype {
	case String:
		return s.str[index], true
	case Categorical:
		return s.cat.categories[s.cat.indices[index]], true
	default:
		return "", false
	}
}

// GetBool returns the bool value at the given index.
func (s *Series) GetBool(index int) (bool, bool) {
	if s.dtype != Bool || !s.IsValid(index) {
		return false, false
	}
	return s.b[index], true
}

// Get returns the value at the given index as an interface. Missing values
// are returned as nil; List rows are returned as a flat Series.
func (s *Series) Get(index int) interface{} {
	if !s.IsValid(index) {
		return nil
	}
	switch s.dtype {
	case Int64:
		return s.i64[index]
	case Float64:
		return s.f64[index]
	case String:
		return s.str[index]
	case Bool:
		return s.b[index]
	case Categorical:
		return s.cat.categories[s.cat.indices[index]]
	case List:
		return s.GetList(index)
	default:
		return nil
	}
}

// ============================================================================
// Transformations
// ============================================================================

// Slice returns a new Series containing elements [start, end).
// The new series owns its own memory.
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > s.length {
		end = s.length
	}
	if start >= end {
		return emptyLike(s)
	}

	indices := make([]int, end-start)
	for i := range indices {
		indices[i] = start + i
	}
	return s.Gather(indices)
}

// Head returns a new Series with the first n elements.
func (s *Series) Head(n int) *Series {
	if n < 0 {
		n = 0
	}
	if n > s.length {
		n = s.length
	}
	return s.Slice(0, n)
}

// Tail returns a new Series with the last n elements.
func (s *Series) Tail(n int) *Series {
	if n < 0 {
		n = 0
	}
	if n > s.length {
		n = s.length
	}
	return s.Slice(s.length-n, s.length)
}

// Filter returns a new Series with only elements where mask is true.
func (s *Series) Filter(mask []bool) *Series {
	var indices []int
	for i := 0; i < s.length && i < len(mask); i++ {
		if mask[i] {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return emptyLike(s)
	}
	return s.Gather(indices)
}

// Gather creates a new series from elements at the given indices.
// Index -1 produces a missing value (used for unmatched/absent rows).
func (s *Series) Gather(indices []int) *Series {
	n := len(indices)

	switch s.dtype {
	case Int64:
		data := make([]int64, n)
		valid := make([]bool, n)
		hasNull := false
		for i, idx := range indices {
			if idx >= 0 && s.IsValid(idx) {
				data[i] = s.i64[idx]
				valid[i] = true
			} else {
				hasNull = true
			}
		}
		if hasNull {
			return NewSeriesInt64WithNulls(s.name, data, valid)
		}
		return NewSeriesInt64(s.name, data)

	case Float64:
		data := make([]float64, n)
		valid := make([]bool, n)
		hasNull := false
		for i, idx := range indices {
			if idx >= 0 && s.IsValid(idx) {
				data[i] = s.f64[idx]
				valid[i] = true
			} else {
				hasNull = true
			}
		}
		if hasNull {
			return NewSeriesFloat64WithNulls(s.name, data, valid)
		}
		return NewSeriesFloat64(s.name, data)

	case String:
		data := make([]string, n)
		valid := make([]bool, n)
		hasNull := false
		for i, idx := range indices {
			if idx >= 0 && s.IsValid(idx) {
				data[i] = s.str[idx]
				valid[i] = true
			} else {
				hasNull = true
			}
		}
		if hasNull {
			return NewSeriesStringWithNulls(s.name, data, valid)
		}
		return NewSeriesString(s.name, data)

	case Bool:
		data := make([]bool, n)
		valid := make([]bool, n)
		hasNull := false
		for i, idx := range indices {
			if idx >= 0 && s.IsValid(idx) {
				data[i] = s.b[idx]
				valid[i] = true
			} else {
				hasNull = true
			}
		}
		if hasNull {
			return NewSeriesBoolWithNulls(s.name, data, valid)
		}
		return NewSeriesBool(s.name, data)

	case Categorical:
		// Gather indices and keep the same dictionary (level order preserved)
		newIndices := make([]int32, n)
		for i, idx := range indices {
			if idx >= 0 {
				newIndices[i] = s.cat.indices[idx]
			} else {
				newIndices[i] = -1
			}
		}
		return &Series{
			name:   s.name,
			dtype:  Categorical,
			length: n,
			cat:    &categoricalData{indices: newIndices, categories: s.cat.categories},
		}

	case List:
		offsets := make([]int32, n+1)
		valid := make([]bool, n)
		var flatIdx []int
		for i, idx := range indices {
			offsets[i] = int32(len(flatIdx))
			if idx >= 0 && s.IsValid(idx) {
				valid[i] = true
				start := int(s.list.offsets[idx])
				end := int(s.list.offsets[idx+1])
				for j := start; j < end; j++ {
					flatIdx = append(flatIdx, j)
				}
			}
		}
		offsets[n] = int32(len(flatIdx))
		values := s.list.values.Gather(flatIdx)
		out, _ := NewSeriesList(s.name, offsets, values, valid)
		return out

	default:
		return nil
	}
}

// emptyLike returns a zero-length series with the same name and dtype.
func emptyLike(s *Series) *Series {
	switch s.dtype {
	case Int64:
		return NewSeriesInt64(s.name, nil)
	case Float64:
		return NewSeriesFloat64(s.name, nil)
	case String:
		return NewSeriesString(s.name, nil)
	case Bool:
		return NewSeriesBool(s.name, nil)
	case Categorical:
		return &Series{
			name:  s.name,
			dtype: Categorical,
			cat:   &categoricalData{categories: s.cat.categories},
		}
	case List:
		out, _ := NewSeriesList(s.name, []int32{0}, emptyLike(s.list.values), nil)
		return out
	default:
		return nil
	}
}
