package reshape

import (
	"fmt"
)

// columnBuilder accumulates values of one dtype row by row and finishes into
// a Series. Appending a value of the wrong Go type is a programming error and
// is reported by finish.
type columnBuilder struct {
	dtype   DType
	i64     []int64
	f64     []float64
	str     []string
	b       []bool
	valid   []bool
	hasNull bool
	err     error

	// List element accumulation
	elem    DType
	offsets []int32
	values  *columnBuilder
}

func newColumnBuilder(dtype DType) *columnBuilder {
	return &columnBuilder{dtype: dtype}
}

func newListBuilder(elem DType) *columnBuilder {
	return &columnBuilder{
		dtype:   List,
		elem:    elem,
		offsets: []int32{0},
		values:  newColumnBuilder(elem),
	}
}

func (cb *columnBuilder) setErr(err error) {
	if cb.err == nil {
		cb.err = err
	}
}

// appendMissing appends a null value.
func (cb *columnBuilder) appendMissing() {
	cb.hasNull = true
	cb.valid = append(cb.valid, false)
	switch cb.dtype {
	case Int64:
		cb.i64 = append(cb.i64, 0)
	case Float64:
		cb.f64 = append(cb.f64, 0)
	case String:
		cb.str = append(cb.str, "")
	case Bool:
		cb.b = append(cb.b, false)
	case List:
		cb.offsets = append(cb.offsets, cb.offsets[len(cb.offsets)-1])
	}
}

func (cb *columnBuilder) appendInt64(v int64) {
	if cb.dtype != Int64 {
		cb.setErr(fmt.Errorf("appending int64 to %s builder", cb.dtype))
		cb.appendMissing()
		return
	}
	cb.i64 = append(cb.i64, v)
	cb.valid = append(cb.valid, true)
}

func (cb *columnBuilder) appendFloat64(v float64) {
	if cb.dtype != Float64 {
		cb.setErr(fmt.Errorf("appending float64 to %s builder", cb.dtype))
		cb.appendMissing()
		return
	}
	cb.f64 = append(cb.f64, v)
	cb.valid = append(cb.valid, true)
}

func (cb *columnBuilder) appendString(v string) {
	if cb.dtype != String {
		cb.setErr(fmt.Errorf("appending string to %s builder", cb.dtype))
		cb.appendMissing()
		return
	}
	cb.str = append(cb.str, v)
	cb.valid = append(cb.valid, true)
}

func (cb *columnBuilder) appendBool(v bool) {
	if cb.dtype != Bool {
		cb.setErr(fmt.Errorf("appending bool to %s builder", cb.dtype))
		cb.appendMissing()
		return
	}
	cb.b = append(cb.b, v)
	cb.valid = append(cb.valid, true)
}

// appendValue appends a Go value, dispatching on its dynamic type.
// nil appends a missing value.
func (cb *columnBuilder) appendValue(v interface{}) {
	if v == nil {
		cb.appendMissing()
		return
	}
	switch x := v.(type) {
	case int64:
		cb.appendInt64(x)
	case int:
		cb.appendInt64(int64(x))
	case float64:
		cb.appendFloat64(x)
	case string:
		cb.appendString(x)
	case bool:
		cb.appendBool(x)
	case *Series:
		cb.appendList(x)
	default:
		cb.setErr(fmt.Errorf("unsupported value type %T", v))
		cb.appendMissing()
	}
}

// appendFrom copies the value at src[row] into the builder, preserving
// missingness. The source dtype must match the builder dtype, except that
// a Float64 builder accepts Int64 sources (widening) and a String builder
// accepts Categorical sources.
func (cb *columnBuilder) appendFrom(src *Series, row int) {
	if !src.IsValid(row) {
		cb.appendMissing()
		return
	}
	switch src.DType() {
	case Int64:
		if cb.dtype == Float64 {
			cb.appendFloat64(float64(src.Int64()[row]))
		} else {
			cb.appendInt64(src.Int64()[row])
		}
	case Float64:
		cb.appendFloat64(src.Float64()[row])
	case String:
		cb.appendString(src.Strings()[row])
	case Bool:
		cb.appendBool(src.Bool()[row])
	case Categorical:
		v, _ := src.GetString(row)
		cb.appendString(v)
	case List:
		cb.appendList(src.GetList(row))
	default:
		cb.setErr(fmt.Errorf("cannot append from %s series", src.DType()))
		cb.appendMissing()
	}
}

// appendList appends a whole list cell (a flat Series) to a List builder.
func (cb *columnBuilder) appendList(cell *Series) {
	if cb.dtype != List {
		cb.setErr(fmt.Errorf("appending list to %s builder", cb.dtype))
		cb.appendMissing()
		return
	}
	if cell == nil {
		cb.appendMissing()
		return
	}
	for i := 0; i < cell.Len(); i++ {
		cb.values.appendFrom(cell, i)
	}
	cb.offsets = append(cb.offsets, cb.offsets[len(cb.offsets)-1]+int32(cell.Len()))
	cb.valid = append(cb.valid, true)
}

func (cb *columnBuilder) finish(name string) (*Series, error) {
	if cb.err != nil {
		return nil, cb.err
	}
	valid := cb.valid
	if !cb.hasNull {
		valid = nil
	}
	switch cb.dtype {
	case Int64:
		return NewSeriesInt64WithNulls(name, cb.i64, valid), nil
	case Float64:
		return NewSeriesFloat64WithNulls(name, cb.f64, valid), nil
	case String:
		return NewSeriesStringWithNulls(name, cb.str, valid), nil
	case Bool:
		return NewSeriesBoolWithNulls(name, cb.b, valid), nil
	case List:
		values, err := cb.values.finish(name)
		if err != nil {
			return nil, err
		}
		return NewSeriesList(name, cb.offsets, values, valid)
	default:
		return nil, fmt.Errorf("cannot build %s series", cb.dtype)
	}
}
