package reshape

import (
	"bytes"
	"testing"
)

func TestParquetRoundTrip(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2, 3}),
		NewSeriesFloat64("score", []float64{1.5, 2.5, 3.5}),
		NewSeriesStringWithNulls("name", []string{"a", "", "c"}, []bool{true, false, true}),
		NewSeriesBool("flag", []bool{true, false, true}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	var buf bytes.Buffer
	if err := df.WriteParquetToWriter(&buf); err != nil {
		t.Fatalf("WriteParquetToWriter failed: %v", err)
	}

	back, err := ReadParquetFromReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadParquetFromReader failed: %v", err)
	}

	if back.Height() != 3 || back.Width() != 4 {
		t.Fatalf("round trip changed shape: %dx%d", back.Height(), back.Width())
	}
	if v, _ := back.ColumnByName("id").GetInt64(2); v != 3 {
		t.Errorf("id[2]: expected 3, got %d", v)
	}
	if back.ColumnByName("name").IsValid(1) {
		t.Errorf("missing value lost in round trip")
	}
	if v, _ := back.ColumnByName("name").GetString(2); v != "c" {
		t.Errorf("name[2]: expected c, got %s", v)
	}
	if v, _ := back.ColumnByName("score").GetFloat64(0); v != 1.5 {
		t.Errorf("score[0]: expected 1.5, got %v", v)
	}
}

func TestParquetMaxRows(t *testing.T) {
	data := make([]int64, 50)
	for i := range data {
		data[i] = int64(i)
	}
	df, err := NewDataFrame(NewSeriesInt64("v", data))
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	var buf bytes.Buffer
	if err := df.WriteParquetToWriter(&buf); err != nil {
		t.Fatalf("WriteParquetToWriter failed: %v", err)
	}

	opts := DefaultParquetReadOptions()
	opts.MaxRows = 10
	back, err := ReadParquetFromReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()), opts)
	if err != nil {
		t.Fatalf("ReadParquetFromReader failed: %v", err)
	}
	if back.Height() != 10 {
		t.Errorf("expected 10 rows with MaxRows, got %d", back.Height())
	}
}
