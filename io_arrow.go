package reshape

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ============================================================================
// Arrow Export
// ============================================================================

// ToArrow exports a DataFrame to an Arrow Record. Categorical columns export
// as dictionary-encoded strings, list columns as Arrow lists.
// The caller is responsible for calling Release() on the returned Record.
func (df *DataFrame) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	fields := make([]arrow.Field, df.Width())
	for i := 0; i < df.Width(); i++ {
		col := df.Column(i)
		arrowType, err := dtypeToArrowType(col.DType(), col.ListElementType())
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		fields[i] = arrow.Field{Name: col.Name(), Type: arrowType, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	arrays := make([]arrow.Array, df.Width())
	for i := 0; i < df.Width(); i++ {
		col := df.Column(i)
		arr, err := seriesToArrowArray(col, mem)
		if err != nil {
			for j := 0; j < i; j++ {
				arrays[j].Release()
			}
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		arrays[i] = arr
	}

	record := array.NewRecord(schema, arrays, int64(df.Height()))

	// Release arrays (Record retains them)
	for _, arr := range arrays {
		arr.Release()
	}

	return record, nil
}

// ToArrowTable exports a DataFrame to an Arrow Table.
// The caller is responsible for calling Release() on the returned Table.
func (df *DataFrame) ToArrowTable(mem memory.Allocator) (arrow.Table, error) {
	record, err := df.ToArrow(mem)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	return array.NewTableFromRecords(record.Schema(), []arrow.Record{record}), nil
}

func dtypeToArrowType(dtype DType, elem DType) (arrow.DataType, error) {
	switch dtype {
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case Categorical:
		return &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Int32,
			ValueType: arrow.BinaryTypes.String,
		}, nil
	case List:
		elemType, err := dtypeToArrowType(elem, 0)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elemType), nil
	default:
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}

func seriesToArrowArray(s *Series, mem memory.Allocator) (arrow.Array, error) {
	switch s.DType() {
	case Float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		data := s.Float64()
		for i := 0; i < s.Len(); i++ {
			if s.IsValid(i) {
				builder.Append(data[i])
			} else {
				builder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case Int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		data := s.Int64()
		for i := 0; i < s.Len(); i++ {
			if s.IsValid(i) {
				builder.Append(data[i])
			} else {
				builder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case Bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		data := s.Bool()
		for i := 0; i < s.Len(); i++ {
			if s.IsValid(i) {
				builder.Append(data[i])
			} else {
				builder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case String:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		data := s.Strings()
		for i := 0; i < s.Len(); i++ {
			if s.IsValid(i) {
				builder.Append(data[i])
			} else {
				builder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case Categorical:
		dictType := &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Int32,
			ValueType: arrow.BinaryTypes.String,
		}
		builder := array.NewDictionaryBuilder(mem, dictType)
		defer builder.Release()

		categories := s.Categories()
		indices := s.CategoricalIndices()

		dictBuilder := builder.(*array.BinaryDictionaryBuilder)
		for _, idx := range indices {
			if idx >= 0 && int(idx) < len(categories) {
				if err := dictBuilder.AppendString(categories[idx]); err != nil {
					return nil, err
				}
			} else {
				dictBuilder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case List:
		elemType, err := dtypeToArrowType(s.ListElementType(), 0)
		if err != nil {
			return nil, err
		}
		builder := array.NewListBuilder(mem, elemType)
		defer builder.Release()

		values := s.ListValues()
		offsets := s.ListOffsets()
		for i := 0; i < s.Len(); i++ {
			if !s.IsValid(i) {
				builder.AppendNull()
				continue
			}
			builder.Append(true)
			for j := int(offsets[i]); j < int(offsets[i+1]); j++ {
				if err := appendArrowListElement(builder.ValueBuilder(), values, j); err != nil {
					return nil, err
				}
			}
		}
		return builder.NewArray(), nil

	default:
		return nil, fmt.Errorf("unsupported dtype for Arrow export: %s", s.DType())
	}
}

func appendArrowListElement(vb array.Builder, values *Series, j int) error {
	if !values.IsValid(j) {
		vb.AppendNull()
		return nil
	}
	switch b := vb.(type) {
	case *array.Float64Builder:
		b.Append(values.Float64()[j])
	case *array.Int64Builder:
		b.Append(values.Int64()[j])
	case *array.BooleanBuilder:
		b.Append(values.Bool()[j])
	case *array.StringBuilder:
		v, _ := values.GetString(j)
		b.Append(v)
	default:
		return fmt.Errorf("unsupported list element builder: %T", vb)
	}
	return nil
}

// ============================================================================
// Arrow Import
// ============================================================================

// NewDataFrameFromArrow creates a DataFrame from an Arrow Record.
func NewDataFrameFromArrow(record arrow.Record) (*DataFrame, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}

	schema := record.Schema()
	numCols := int(record.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		col := record.Column(i)

		s, err := arrowArrayToSeries(field.Name, col)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series[i] = s
	}

	return NewDataFrame(series...)
}

// NewDataFrameFromArrowTable creates a DataFrame from an Arrow Table,
// concatenating chunked columns.
func NewDataFrameFromArrowTable(table arrow.Table) (*DataFrame, error) {
	if table == nil {
		return nil, fmt.Errorf("table is nil")
	}

	schema := table.Schema()
	numCols := int(table.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		data := table.Column(i).Data()

		chunks := make([]*Series, data.Len())
		for j := 0; j < data.Len(); j++ {
			s, err := arrowArrayToSeries(field.Name, data.Chunk(j))
			if err != nil {
				return nil, fmt.Errorf("column %s chunk %d: %w", field.Name, j, err)
			}
			chunks[j] = s
		}

		s, err := concatSeries(chunks)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series[i] = s
	}

	return NewDataFrame(series...)
}

func concatSeries(chunks []*Series) (*Series, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks")
	}
	if len(chunks) == 1 {
		return chunks[0], nil
	}
	if chunks[0].DType() == Categorical {
		return concatCategorical(chunks[0].Name(), chunks)
	}
	cb := builderForDType(chunks[0].DType(), chunks[0])
	for _, chunk := range chunks {
		for i := 0; i < chunk.Len(); i++ {
			cb.appendFrom(chunk, i)
		}
	}
	return cb.finish(chunks[0].Name())
}

// arrowArrayToSeries converts an Arrow Array to a Series. Int32 and Float32
// widen to the 64-bit types.
func arrowArrayToSeries(name string, arr arrow.Array) (*Series, error) {
	switch a := arr.(type) {
	case *array.Float64:
		cb := newColumnBuilder(Float64)
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				cb.appendMissing()
			} else {
				cb.appendFloat64(a.Value(i))
			}
		}
		return cb.finish(name)

	case *array.Float32:
		cb := newColumnBuilder(Float64)
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				cb.appendMissing()
			} else {
				cb.appendFloat64(float64(a.Value(i)))
			}
		}
		return cb.finish(name)

	case *array.Int64:
		cb := newColumnBuilder(Int64)
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				cb.appendMissing()
			} else {
				cb.appendInt64(a.Value(i))
			}
		}
		return cb.finish(name)

	case *array.Int32:
		cb := newColumnBuilder(Int64)
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				cb.appendMissing()
			} else {
				cb.appendInt64(int64(a.Value(i)))
			}
		}
		return cb.finish(name)

	case *array.Boolean:
		cb := newColumnBuilder(Bool)
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				cb.appendMissing()
			} else {
				cb.appendBool(a.Value(i))
			}
		}
		return cb.finish(name)

	case *array.String:
		cb := newColumnBuilder(String)
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				cb.appendMissing()
			} else {
				cb.appendString(a.Value(i))
			}
		}
		return cb.finish(name)

	case *array.Dictionary:
		dict := a.Dictionary()
		strDict, ok := dict.(*array.String)
		if !ok {
			return nil, fmt.Errorf("unsupported dictionary value type: %T", dict)
		}
		categories := make([]string, strDict.Len())
		for i := range categories {
			categories[i] = strDict.Value(i)
		}

		indices := make([]int32, a.Len())
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				indices[i] = -1
			} else {
				indices[i] = int32(a.GetValueIndex(i))
			}
		}
		return &Series{
			name:   name,
			dtype:  Categorical,
			length: a.Len(),
			cat:    &categoricalData{indices: indices, categories: categories},
		}, nil

	case *array.List:
		values, err := arrowArrayToSeries(name, a.ListValues())
		if err != nil {
			return nil, err
		}
		offsets := make([]int32, a.Len()+1)
		valid := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			start, end := a.ValueOffsets(i)
			offsets[i] = int32(start)
			offsets[i+1] = int32(end)
			valid[i] = a.IsValid(i)
		}
		if a.Len() == 0 {
			offsets[0] = 0
		}
		return NewSeriesList(name, offsets, values, valid)

	default:
		return nil, fmt.Errorf("unsupported Arrow array type: %T", arr)
	}
}
