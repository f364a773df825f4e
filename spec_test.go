package reshape

import (
	"errors"
	"testing"
)

func specNames(t *testing.T, spec *DataFrame) []string {
	t.Helper()
	col := spec.ColumnByName("name")
	if col == nil {
		t.Fatalf("spec has no name column: %v", spec.Columns())
	}
	return col.Strings()
}

func TestBuildSpecSingleNamesColumn(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesString("k", []string{"x", "y", "x"}),
		NewSeriesInt64("v", []int64{1, 2, 3}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k"),
		ValuesFrom: Cols("v"),
	})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}

	wantCols := []string{"name", "value", "k"}
	for i, name := range spec.Columns() {
		if name != wantCols[i] {
			t.Errorf("spec column %d: expected %q, got %q", i, wantCols[i], name)
		}
	}
	names := specNames(t, spec)
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("expected names [x y] in first appearance order, got %v", names)
	}
	for i := 0; i < spec.Height(); i++ {
		if v, _ := spec.ColumnByName("value").GetString(i); v != "v" {
			t.Errorf("value[%d]: expected v, got %s", i, v)
		}
	}
}

func TestBuildSpecValueVariesSlowest(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesString("k", []string{"x", "y"}),
		NewSeriesInt64("a", []int64{1, 2}),
		NewSeriesInt64("b", []int64{3, 4}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k"),
		ValuesFrom: Cols("a", "b"),
	})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}

	wantNames := []string{"a_x", "a_y", "b_x", "b_y"}
	wantValues := []string{"a", "a", "b", "b"}
	names := specNames(t, spec)
	values := spec.ColumnByName("value").Strings()
	for i := range wantNames {
		if names[i] != wantNames[i] {
			t.Errorf("name[%d]: expected %s, got %s", i, wantNames[i], names[i])
		}
		if values[i] != wantValues[i] {
			t.Errorf("value[%d]: expected %s, got %s", i, wantValues[i], values[i])
		}
	}
}

func TestBuildSpecGlue(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesString("k", []string{"x", "y"}),
		NewSeriesInt64("a", []int64{1, 2}),
		NewSeriesInt64("b", []int64{3, 4}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k"),
		ValuesFrom: Cols("a", "b"),
		NamesGlue:  "{k}.{.value}",
	})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}

	// The glue references {.value}, so no automatic value prefix is added.
	wantNames := []string{"x.a", "y.a", "x.b", "y.b"}
	names := specNames(t, spec)
	for i := range wantNames {
		if names[i] != wantNames[i] {
			t.Errorf("name[%d]: expected %s, got %s", i, wantNames[i], names[i])
		}
	}
}

func TestBuildSpecMultipleNamesColumns(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesString("k1", []string{"a", "a", "b"}),
		NewSeriesInt64("k2", []int64{1, 2, 1}),
		NewSeriesFloat64("v", []float64{1, 2, 3}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k1", "k2"),
		ValuesFrom: Cols("v"),
	})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}

	wantNames := []string{"a_1", "a_2", "b_1"}
	names := specNames(t, spec)
	if len(names) != len(wantNames) {
		t.Fatalf("expected %d spec rows, got %d: %v", len(wantNames), len(names), names)
	}
	for i := range wantNames {
		if names[i] != wantNames[i] {
			t.Errorf("name[%d]: expected %s, got %s", i, wantNames[i], names[i])
		}
	}
	// Key columns keep their source dtype.
	if spec.ColumnByName("k2").DType() != Int64 {
		t.Errorf("k2 key column should stay int64")
	}
}

func TestBuildSpecSort(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesString("k", []string{"b", "a", "c"}),
		NewSeriesInt64("v", []int64{1, 2, 3}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k"),
		ValuesFrom: Cols("v"),
		NamesSort:  true,
	})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}
	names := specNames(t, spec)
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name[%d]: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestBuildSpecSortCategoricalByLevelOrder(t *testing.T) {
	k, err := NewSeriesCategoricalWithCategories("k",
		[]string{"high", "low", "mid"}, []string{"low", "mid", "high"})
	if err != nil {
		t.Fatalf("categorical failed: %v", err)
	}
	df, err := NewDataFrame(k, NewSeriesInt64("v", []int64{1, 2, 3}))
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k"),
		ValuesFrom: Cols("v"),
		NamesSort:  true,
	})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}
	names := specNames(t, spec)
	want := []string{"low", "mid", "high"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name[%d]: expected %s by level order, got %s", i, want[i], names[i])
		}
	}
}

func TestBuildSpecMissingNamesValue(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesStringWithNulls("k", []string{"x", ""}, []bool{true, false}),
		NewSeriesInt64("v", []int64{1, 2}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k"),
		ValuesFrom: Cols("v"),
	})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}
	names := specNames(t, spec)
	if len(names) != 2 || names[1] != "NA" {
		t.Errorf("missing names value should render as NA, got %v", names)
	}
	// The key column's missing value survives in the spec.
	if spec.ColumnByName("k").IsValid(1) {
		t.Errorf("spec key column should keep the missing value")
	}
}

func TestBuildSpecNoNamesColumns(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesInt64("a", []int64{1}),
		NewSeriesInt64("b", []int64{2}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	spec, err := BuildSpec(df, SpecOptions{ValuesFrom: Cols("a", "b")})
	if err != nil {
		t.Fatalf("BuildSpec failed: %v", err)
	}
	names := specNames(t, spec)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected literal value names [a b], got %v", names)
	}
	if spec.Width() != 2 {
		t.Errorf("expected no key columns, got %v", spec.Columns())
	}
}

func TestBuildSpecDuplicateNamesFailDefaultRepair(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesString("k1", []string{"a", "a_x"}),
		NewSeriesString("k2", []string{"x_b", "b"}),
		NewSeriesInt64("v", []int64{1, 2}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	// Both combinations join to "a_x_b".
	if _, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k1", "k2"),
		ValuesFrom: Cols("v"),
	}); err == nil {
		t.Fatalf("expected duplicate name error under the default repair")
	}

	spec, err := BuildSpec(df, SpecOptions{
		NamesFrom:   Cols("k1", "k2"),
		ValuesFrom:  Cols("v"),
		NamesRepair: RepairUnique,
	})
	if err != nil {
		t.Fatalf("BuildSpec with RepairUnique failed: %v", err)
	}
	names := specNames(t, spec)
	if names[0] == names[1] {
		t.Errorf("RepairUnique left duplicate names: %v", names)
	}
}

func TestBuildSpecListNamesColumn(t *testing.T) {
	values := NewSeriesInt64("", []int64{1, 2})
	lst, err := NewSeriesList("k", []int32{0, 1, 2}, values, nil)
	if err != nil {
		t.Fatalf("NewSeriesList failed: %v", err)
	}
	df, err := NewDataFrame(lst, NewSeriesInt64("v", []int64{1, 2}))
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	if _, err := BuildSpec(df, SpecOptions{
		NamesFrom:  Cols("k"),
		ValuesFrom: Cols("v"),
	}); err == nil {
		t.Fatalf("expected an error for a list names column")
	}
}

func TestBuildSpecMissingValuesColumns(t *testing.T) {
	df, err := NewDataFrame(NewSeriesString("k", []string{"x"}))
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}
	_, err = BuildSpec(df, SpecOptions{NamesFrom: Cols("k"), ValuesFrom: Cols("v")})
	if !errors.Is(err, ErrNoMatchingColumn) {
		t.Fatalf("expected ErrNoMatchingColumn, got %v", err)
	}
}

func TestValidateSpec(t *testing.T) {
	good, _ := NewDataFrame(
		NewSeriesString("name", []string{"x", "y"}),
		NewSeriesString("value", []string{"v", "v"}),
	)
	if err := ValidateSpec(good); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}
	if err := ValidateSpec(nil); err == nil {
		t.Errorf("nil spec accepted")
	}
}
