package reshape

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/parquet-go/parquet-go"
)

// ParquetReadOptions configures Parquet reading behavior
type ParquetReadOptions struct {
	Columns []string // Only read these columns (nil = all)
	MaxRows int      // Max rows to read (0 = unlimited)
}

// DefaultParquetReadOptions returns default Parquet reading options
func DefaultParquetReadOptions() ParquetReadOptions {
	return ParquetReadOptions{}
}

// ReadParquet reads a Parquet file into a DataFrame
func ReadParquet(path string, opts ...ParquetReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return ReadParquetFromReader(f, stat.Size(), opts...)
}

// ReadParquetFromReader reads Parquet data from an io.ReaderAt into a
// DataFrame. Int32 and Float columns widen to Int64 and Float64.
func ReadParquetFromReader(r io.ReaderAt, size int64, opts ...ParquetReadOptions) (*DataFrame, error) {
	opt := DefaultParquetReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	schema := pf.Schema()

	var colNames []string
	if len(opt.Columns) > 0 {
		colNames = opt.Columns
	} else {
		fields := schema.Fields()
		colNames = make([]string, len(fields))
		for i, f := range fields {
			colNames[i] = f.Name()
		}
	}

	colIndexMap := make(map[string]int)
	for i, col := range schema.Columns() {
		if len(col) > 0 {
			colIndexMap[col[0]] = i
		}
	}

	colIndices := make([]int, len(colNames))
	colTypes := make([]DType, len(colNames))
	for i, name := range colNames {
		idx, ok := colIndexMap[name]
		if !ok {
			return nil, fmt.Errorf("column '%s' not found in parquet file", name)
		}
		colIndices[i] = idx
		colTypes[i] = parquetFieldDType(schema, name)
	}

	rowGroups := pf.RowGroups()
	cfg := globalConfig

	if cfg.shouldParallelize(int(pf.NumRows())) && len(rowGroups) > 1 && opt.MaxRows == 0 {
		return readParquetParallel(rowGroups, colNames, colIndices, colTypes)
	}

	builders := make([]*columnBuilder, len(colNames))
	for i, dtype := range colTypes {
		builders[i] = newColumnBuilder(dtype)
	}

	rowCount := 0
	for _, rg := range rowGroups {
		if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
			break
		}
		var err error
		rowCount, err = readRowGroup(rg, colIndices, builders, rowCount, opt.MaxRows)
		if err != nil {
			return nil, err
		}
	}

	return finishParquetColumns(colNames, builders)
}

// readRowGroup appends one row group into the builders, returning the new
// running row count.
func readRowGroup(rg parquet.RowGroup, colIndices []int, builders []*columnBuilder, rowCount, maxRows int) (int, error) {
	rows := rg.Rows()
	defer rows.Close()

	rowBuf := make([]parquet.Row, 1000)
	for {
		n, err := rows.ReadRows(rowBuf)
		if err != nil && err != io.EOF {
			return rowCount, fmt.Errorf("failed to read rows: %w", err)
		}
		if n == 0 {
			break
		}

		for _, row := range rowBuf[:n] {
			if maxRows > 0 && rowCount >= maxRows {
				return rowCount, nil
			}
			for i, colIdx := range colIndices {
				if colIdx < len(row) {
					appendParquetValue(builders[i], row[colIdx])
				} else {
					builders[i].appendMissing()
				}
			}
			rowCount++
		}
	}
	return rowCount, nil
}

// readParquetParallel reads row groups concurrently, one builder set each,
// then concatenates in row-group order.
func readParquetParallel(rowGroups []parquet.RowGroup, colNames []string, colIndices []int, colTypes []DType) (*DataFrame, error) {
	frames := make([]*DataFrame, len(rowGroups))
	errs := make([]error, len(rowGroups))

	var wg sync.WaitGroup
	for rgIdx := range rowGroups {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			builders := make([]*columnBuilder, len(colNames))
			for i, dtype := range colTypes {
				builders[i] = newColumnBuilder(dtype)
			}
			if _, err := readRowGroup(rowGroups[idx], colIndices, builders, 0, 0); err != nil {
				errs[idx] = fmt.Errorf("row group %d: %w", idx, err)
				return
			}
			frames[idx], errs[idx] = finishParquetColumns(colNames, builders)
		}(rgIdx)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return Concat(frames...)
}

func finishParquetColumns(colNames []string, builders []*columnBuilder) (*DataFrame, error) {
	columns := make([]*Series, len(colNames))
	for i, name := range colNames {
		col, err := builders[i].finish(name)
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns[i] = col
	}
	return NewDataFrame(columns...)
}

func parquetFieldDType(schema *parquet.Schema, name string) DType {
	for _, col := range schema.Fields() {
		if col.Name() == name {
			t := col.Type()
			if t == nil {
				return String
			}
			switch t.Kind() {
			case parquet.Boolean:
				return Bool
			case parquet.Int32, parquet.Int64:
				return Int64
			case parquet.Float, parquet.Double:
				return Float64
			default:
				return String
			}
		}
	}
	return String
}

func appendParquetValue(cb *columnBuilder, val parquet.Value) {
	if val.IsNull() {
		cb.appendMissing()
		return
	}

	switch cb.dtype {
	case Float64:
		cb.appendFloat64(val.Double())
	case Int64:
		cb.appendInt64(val.Int64())
	case Bool:
		cb.appendBool(val.Boolean())
	case String:
		cb.appendString(string(val.ByteArray()))
	default:
		cb.appendMissing()
	}
}

// ParquetWriteOptions configures Parquet writing behavior
type ParquetWriteOptions struct {
	Compression  string // "snappy", "gzip", "zstd", "none" (default "snappy")
	RowGroupSize int    // Rows per row group (default 1000000)
}

// DefaultParquetWriteOptions returns default Parquet writing options
func DefaultParquetWriteOptions() ParquetWriteOptions {
	return ParquetWriteOptions{
		Compression:  "snappy",
		RowGroupSize: 1000000,
	}
}

// WriteParquet writes a DataFrame to a Parquet file
func (df *DataFrame) WriteParquet(path string, opts ...ParquetWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return df.WriteParquetToWriter(f, opts...)
}

// WriteParquetToWriter writes a DataFrame to an io.Writer. Categorical
// columns write as strings; list columns write their text rendering.
func (df *DataFrame) WriteParquetToWriter(w io.Writer, opts ...ParquetWriteOptions) error {
	opt := DefaultParquetWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	if df.Width() == 0 || df.Height() == 0 {
		return nil
	}

	group := make(parquet.Group)
	for c := 0; c < df.Width(); c++ {
		col := df.Column(c)
		node := dtypeToParquetNode(col.DType())
		if col.HasNulls() {
			node = parquet.Optional(node)
		}
		group[col.Name()] = node
	}

	schema := parquet.NewSchema("dataframe", group)

	var writerOpts []parquet.WriterOption
	writerOpts = append(writerOpts, schema)
	switch opt.Compression {
	case "snappy":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Snappy))
	case "gzip":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Gzip))
	case "zstd":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Zstd))
	}

	pw := parquet.NewWriter(w, writerOpts...)
	defer pw.Close()

	height := df.Height()
	width := df.Width()

	// Column order in the written row must follow the schema's sorted
	// field order, not the frame's. Optional leaves carry definition
	// level 1 when present.
	fieldOrder := make([]int, width)
	optional := make([]bool, width)
	for i, field := range schema.Fields() {
		fieldOrder[i] = df.ColumnIndex(field.Name())
		optional[i] = field.Optional()
	}

	batchSize := 1000
	rows := make([]parquet.Row, 0, batchSize)
	for i := 0; i < height; i++ {
		row := make(parquet.Row, width)
		for j, colIdx := range fieldOrder {
			col := df.Column(colIdx)
			v := toParquetValue(col.Get(i), col.DType())
			defLevel := 0
			if optional[j] && !v.IsNull() {
				defLevel = 1
			}
			row[j] = v.Level(0, defLevel, j)
		}
		rows = append(rows, row)

		if len(rows) >= batchSize {
			if _, err := pw.WriteRows(rows); err != nil {
				return fmt.Errorf("failed to write rows at %d: %w", i-len(rows)+1, err)
			}
			rows = rows[:0]
		}
	}

	if len(rows) > 0 {
		if _, err := pw.WriteRows(rows); err != nil {
			return fmt.Errorf("failed to write final rows: %w", err)
		}
	}

	return pw.Close()
}

func dtypeToParquetNode(dtype DType) parquet.Node {
	switch dtype {
	case Float64:
		return parquet.Leaf(parquet.DoubleType)
	case Int64:
		return parquet.Leaf(parquet.Int64Type)
	case Bool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.Leaf(parquet.ByteArrayType)
	}
}

func toParquetValue(v interface{}, dtype DType) parquet.Value {
	if v == nil {
		return parquet.NullValue()
	}

	switch dtype {
	case Float64:
		if f, ok := v.(float64); ok {
			return parquet.DoubleValue(f)
		}
	case Int64:
		if i, ok := v.(int64); ok {
			return parquet.Int64Value(i)
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return parquet.BooleanValue(b)
		}
	case String, Categorical:
		if s, ok := v.(string); ok {
			return parquet.ByteArrayValue([]byte(s))
		}
	}

	return parquet.ByteArrayValue([]byte(formatValue(v)))
}
