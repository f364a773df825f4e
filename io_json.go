package reshape

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-json"
)

// JSONFormat specifies the JSON output format
type JSONFormat int

const (
	// JSONRecords outputs as array of row objects: [{"a":1,"b":2}, {"a":3,"b":4}]
	JSONRecords JSONFormat = iota
	// JSONColumns outputs as object of column arrays: {"a":[1,3],"b":[2,4]}
	JSONColumns
)

// JSONReadOptions configures JSON reading behavior
type JSONReadOptions struct {
	Format      JSONFormat       // Expected format
	ColumnTypes map[string]DType // Force column types
}

// DefaultJSONReadOptions returns default JSON reading options
func DefaultJSONReadOptions() JSONReadOptions {
	return JSONReadOptions{
		Format: JSONRecords,
	}
}

// ReadJSON reads a JSON file into a DataFrame
func ReadJSON(path string, opts ...JSONReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadJSONFromReader(f, opts...)
}

// ReadJSONFromReader reads JSON data from an io.Reader into a DataFrame
func ReadJSONFromReader(r io.Reader, opts ...JSONReadOptions) (*DataFrame, error) {
	opt := DefaultJSONReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	switch opt.Format {
	case JSONRecords:
		return readJSONRecords(data, opt)
	case JSONColumns:
		return readJSONColumns(data, opt)
	default:
		return nil, fmt.Errorf("unknown JSON format: %d", opt.Format)
	}
}

func readJSONRecords(data []byte, opt JSONReadOptions) (*DataFrame, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if len(records) == 0 {
		return NewDataFrame()
	}

	// Collect all column names in first-appearance order
	colNames := make([]string, 0)
	colSet := make(map[string]bool)
	for _, record := range records {
		for key := range record {
			if !colSet[key] {
				colNames = append(colNames, key)
				colSet[key] = true
			}
		}
	}

	colTypes := make(map[string]DType)
	for _, name := range colNames {
		if dtype, ok := opt.ColumnTypes[name]; ok {
			colTypes[name] = dtype
		} else {
			colTypes[name] = inferJSONType(records, name)
		}
	}

	errs := make([]error, len(colNames))
	columns := ParallelBuildColumns(len(colNames), func(idx int) *Series {
		col, err := buildJSONColumn(colNames[idx], colTypes[colNames[idx]], records)
		errs[idx] = err
		return col
	})
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", colNames[i], err)
		}
	}

	return NewDataFrame(columns...)
}

func inferJSONType(records []map[string]interface{}, name string) DType {
	for _, record := range records {
		val, ok := record[name]
		if !ok || val == nil {
			continue
		}

		switch v := val.(type) {
		case bool:
			return Bool
		case float64:
			// JSON numbers arrive as float64; integral values read as int64
			if v == float64(int64(v)) {
				return Int64
			}
			return Float64
		case string:
			return String
		default:
			return String
		}
	}
	return String
}

func buildJSONColumn(name string, dtype DType, records []map[string]interface{}) (*Series, error) {
	cb := newColumnBuilder(dtype)
	for _, record := range records {
		val, ok := record[name]
		if !ok || val == nil {
			cb.appendMissing()
			continue
		}
		if err := appendJSONValue(cb, dtype, val); err != nil {
			return nil, err
		}
	}
	return cb.finish(name)
}

func appendJSONValue(cb *columnBuilder, dtype DType, val interface{}) error {
	switch dtype {
	case Float64:
		if v, ok := val.(float64); ok {
			cb.appendFloat64(v)
			return nil
		}
	case Int64:
		if v, ok := val.(float64); ok {
			cb.appendInt64(int64(v))
			return nil
		}
	case Bool:
		if v, ok := val.(bool); ok {
			cb.appendBool(v)
			return nil
		}
	case String:
		cb.appendString(fmt.Sprintf("%v", val))
		return nil
	default:
		return fmt.Errorf("unsupported dtype: %s", dtype)
	}
	cb.appendMissing()
	return nil
}

func readJSONColumns(data []byte, opt JSONReadOptions) (*DataFrame, error) {
	var colData map[string][]interface{}
	if err := json.Unmarshal(data, &colData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if len(colData) == 0 {
		return NewDataFrame()
	}

	var height int
	colNames := make([]string, 0, len(colData))
	for name, values := range colData {
		colNames = append(colNames, name)
		if len(values) > height {
			height = len(values)
		}
	}

	columns := make([]*Series, len(colNames))
	for i, name := range colNames {
		values := colData[name]
		dtype := String
		if forcedType, ok := opt.ColumnTypes[name]; ok {
			dtype = forcedType
		} else if len(values) > 0 {
			dtype = inferJSONArrayType(values)
		}

		cb := newColumnBuilder(dtype)
		for j := 0; j < height; j++ {
			if j >= len(values) || values[j] == nil {
				cb.appendMissing()
				continue
			}
			if err := appendJSONValue(cb, dtype, values[j]); err != nil {
				return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
			}
		}
		col, err := cb.finish(name)
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns[i] = col
	}

	return NewDataFrame(columns...)
}

func inferJSONArrayType(values []interface{}) DType {
	for _, val := range values {
		if val == nil {
			continue
		}
		switch v := val.(type) {
		case bool:
			return Bool
		case float64:
			if v == float64(int64(v)) {
				return Int64
			}
			return Float64
		case string:
			return String
		}
	}
	return String
}

// JSONWriteOptions configures JSON writing behavior
type JSONWriteOptions struct {
	Format JSONFormat // Output format
	Indent string     // Indent string (default "", no indent)
}

// DefaultJSONWriteOptions returns default JSON writing options
func DefaultJSONWriteOptions() JSONWriteOptions {
	return JSONWriteOptions{
		Format: JSONRecords,
		Indent: "",
	}
}

// WriteJSON writes a DataFrame to a JSON file
func (df *DataFrame) WriteJSON(path string, opts ...JSONWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return df.WriteJSONToWriter(f, opts...)
}

// WriteJSONToWriter writes a DataFrame to an io.Writer. List cells encode
// as JSON arrays, missing values as null.
func (df *DataFrame) WriteJSONToWriter(w io.Writer, opts ...JSONWriteOptions) error {
	opt := DefaultJSONWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	var data interface{}

	cfg := globalConfig
	height := df.Height()
	width := df.Width()

	switch opt.Format {
	case JSONRecords:
		records := make([]map[string]interface{}, height)
		buildRecord := func(i int) map[string]interface{} {
			record := make(map[string]interface{}, width)
			for c := 0; c < width; c++ {
				col := df.Column(c)
				record[col.Name()] = jsonCellValue(col, i)
			}
			return record
		}

		if cfg.shouldParallelize(height) {
			var wg sync.WaitGroup
			numWorkers := cfg.numWorkers()
			chunkSize := (height + numWorkers - 1) / numWorkers

			for workerID := 0; workerID < numWorkers; workerID++ {
				start := workerID * chunkSize
				end := start + chunkSize
				if end > height {
					end = height
				}
				if start >= height {
					break
				}

				wg.Add(1)
				go func(startRow, endRow int) {
					defer wg.Done()
					for i := startRow; i < endRow; i++ {
						records[i] = buildRecord(i)
					}
				}(start, end)
			}
			wg.Wait()
		} else {
			for i := 0; i < height; i++ {
				records[i] = buildRecord(i)
			}
		}
		data = records

	case JSONColumns:
		colData := make(map[string]interface{}, width)
		for c := 0; c < width; c++ {
			col := df.Column(c)
			if !col.HasNulls() {
				switch col.DType() {
				case Float64:
					colData[col.Name()] = col.Float64()
					continue
				case Int64:
					colData[col.Name()] = col.Int64()
					continue
				case Bool:
					colData[col.Name()] = col.Bool()
					continue
				case String:
					colData[col.Name()] = col.Strings()
					continue
				}
			}
			vals := make([]interface{}, col.Len())
			for i := 0; i < col.Len(); i++ {
				vals[i] = jsonCellValue(col, i)
			}
			colData[col.Name()] = vals
		}
		data = colData

	default:
		return fmt.Errorf("unknown JSON format: %d", opt.Format)
	}

	encoder := json.NewEncoder(w)
	if opt.Indent != "" {
		encoder.SetIndent("", opt.Indent)
	}

	return encoder.Encode(data)
}

// jsonCellValue converts one cell to a JSON-encodable value. A list cell
// becomes a plain slice so it encodes as an array.
func jsonCellValue(col *Series, row int) interface{} {
	v := col.Get(row)
	cell, ok := v.(*Series)
	if !ok {
		return v
	}
	vals := make([]interface{}, cell.Len())
	for i := range vals {
		vals[i] = cell.Get(i)
	}
	return vals
}
