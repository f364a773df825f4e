package reshape

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// CSVReadOptions configures CSV reading behavior
type CSVReadOptions struct {
	Delimiter   rune             // Field delimiter (default ',')
	HasHeader   bool             // First row is header (default true)
	ColumnNames []string         // Override column names
	ColumnTypes map[string]DType // Force column types
	InferTypes  bool             // Auto-detect types (default true)
	NullValues  []string         // Strings to treat as null
	SkipRows    int              // Skip first N rows
	MaxRows     int              // Max rows to read (0 = unlimited)
	TrimSpace   bool             // Trim whitespace from values
	Comment     rune             // Comment character (skip lines starting with this)
}

// DefaultCSVReadOptions returns default CSV reading options
func DefaultCSVReadOptions() CSVReadOptions {
	return CSVReadOptions{
		Delimiter:  ',',
		HasHeader:  true,
		InferTypes: true,
		NullValues: []string{"", "null", "NULL", "NA", "N/A", "nan", "NaN"},
		TrimSpace:  true,
	}
}

// ReadCSV reads a CSV file into a DataFrame
func ReadCSV(path string, opts ...CSVReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadCSVFromReader(f, opts...)
}

// ReadCSVFromReader reads CSV data from an io.Reader into a DataFrame
func ReadCSVFromReader(r io.Reader, opts ...CSVReadOptions) (*DataFrame, error) {
	opt := DefaultCSVReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(r)
	reader.Comma = opt.Delimiter
	if opt.Comment != 0 {
		reader.Comment = opt.Comment
	}
	reader.TrimLeadingSpace = opt.TrimSpace

	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("failed to skip row %d: %w", i, err)
		}
	}

	var headers []string
	if opt.HasHeader {
		var err error
		headers, err = reader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	} else if len(opt.ColumnNames) > 0 {
		headers = opt.ColumnNames
	}

	var records [][]string
	rowCount := 0
	for {
		if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowCount, err)
		}

		if headers == nil {
			headers = make([]string, len(record))
			for i := range record {
				headers[i] = fmt.Sprintf("column_%d", i)
			}
		}

		records = append(records, record)
		rowCount++
	}

	if headers == nil {
		return NewDataFrame()
	}

	// Infer or use specified types (in parallel for large datasets)
	colTypes := make([]DType, len(headers))
	for i := range colTypes {
		colTypes[i] = String
	}
	cfg := globalConfig

	if opt.InferTypes {
		if cfg.shouldParallelize(len(records)) && len(headers) > 1 {
			var wg sync.WaitGroup
			for i := range headers {
				wg.Add(1)
				go func(colIdx int) {
					defer wg.Done()
					colTypes[colIdx] = inferColumnType(records, colIdx, opt.NullValues)
				}(i)
			}
			wg.Wait()
		} else {
			for i := range headers {
				colTypes[i] = inferColumnType(records, i, opt.NullValues)
			}
		}
	}

	for name, dtype := range opt.ColumnTypes {
		for i, h := range headers {
			if h == name {
				colTypes[i] = dtype
				break
			}
		}
	}

	errs := make([]error, len(headers))
	columns := ParallelBuildColumns(len(headers), func(colIdx int) *Series {
		col, err := parseCSVColumn(headers[colIdx], colTypes[colIdx], records, colIdx, opt.NullValues)
		errs[colIdx] = err
		return col
	})
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", headers[i], err)
		}
	}

	return NewDataFrame(columns...)
}

func inferColumnType(records [][]string, colIdx int, nullValues []string) DType {
	hasInt := false
	hasFloat := false
	hasBool := false
	hasString := false

	for _, record := range records {
		if colIdx >= len(record) {
			continue
		}
		val := strings.TrimSpace(record[colIdx])
		if isNull(val, nullValues) {
			continue
		}

		lower := strings.ToLower(val)
		if lower == "true" || lower == "false" {
			hasBool = true
			continue
		}
		if _, err := strconv.ParseInt(val, 10, 64); err == nil {
			hasInt = true
			continue
		}
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			hasFloat = true
			continue
		}
		hasString = true
	}

	// Priority: string > float > int > bool
	if hasString {
		return String
	}
	if hasFloat {
		return Float64
	}
	if hasInt {
		return Int64
	}
	if hasBool {
		return Bool
	}
	return String
}

func parseCSVColumn(name string, dtype DType, records [][]string, colIdx int, nullValues []string) (*Series, error) {
	cb := newColumnBuilder(dtype)
	for i, record := range records {
		if colIdx >= len(record) {
			cb.appendMissing()
			continue
		}
		val := strings.TrimSpace(record[colIdx])
		if isNull(val, nullValues) {
			cb.appendMissing()
			continue
		}

		switch dtype {
		case Float64:
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: cannot parse '%s' as float64", i, val)
			}
			cb.appendFloat64(f)
		case Int64:
			v, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: cannot parse '%s' as int64", i, val)
			}
			cb.appendInt64(v)
		case Bool:
			lower := strings.ToLower(val)
			cb.appendBool(lower == "true" || lower == "1" || lower == "yes")
		case String:
			cb.appendString(val)
		default:
			return nil, fmt.Errorf("unsupported dtype: %s", dtype)
		}
	}
	return cb.finish(name)
}

func isNull(val string, nullValues []string) bool {
	for _, nv := range nullValues {
		if val == nv {
			return true
		}
	}
	return false
}

// CSVWriteOptions configures CSV writing behavior
type CSVWriteOptions struct {
	Delimiter   rune   // Field delimiter (default ',')
	WriteHeader bool   // Write header row (default true)
	NullString  string // String to write for null values (default "")
}

// DefaultCSVWriteOptions returns default CSV writing options
func DefaultCSVWriteOptions() CSVWriteOptions {
	return CSVWriteOptions{
		Delimiter:   ',',
		WriteHeader: true,
		NullString:  "",
	}
}

// WriteCSV writes a DataFrame to a CSV file
func (df *DataFrame) WriteCSV(path string, opts ...CSVWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	return df.WriteCSVToWriter(w, opts...)
}

// WriteCSVToWriter writes a DataFrame to an io.Writer. List cells render as
// semicolon-joined values in brackets.
func (df *DataFrame) WriteCSVToWriter(w io.Writer, opts ...CSVWriteOptions) error {
	opt := DefaultCSVWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	writer := csv.NewWriter(w)
	writer.Comma = opt.Delimiter

	if opt.WriteHeader {
		if err := writer.Write(df.Columns()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	height := df.Height()
	width := df.Width()

	formatRow := func(i int, row []string) {
		for j := 0; j < width; j++ {
			val := df.Column(j).Get(i)
			if val == nil {
				row[j] = opt.NullString
			} else {
				row[j] = formatValue(val)
			}
		}
	}

	if globalConfig.shouldParallelize(height) {
		// Pre-format all rows in parallel, then write sequentially
		allRows := make([][]string, height)
		ParallelFor(height, func(start, end int) {
			for i := start; i < end; i++ {
				row := make([]string, width)
				formatRow(i, row)
				allRows[i] = row
			}
		})
		for i := 0; i < height; i++ {
			if err := writer.Write(allRows[i]); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	} else {
		row := make([]string, width)
		for i := 0; i < height; i++ {
			formatRow(i, row)
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case *Series:
		parts := make([]string, val.Len())
		for i := range parts {
			cell := val.Get(i)
			if cell == nil {
				parts[i] = ""
			} else {
				parts[i] = formatValue(cell)
			}
		}
		return "[" + strings.Join(parts, ";") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}
