package reshape

import "testing"

func TestNewDataFrameValidation(t *testing.T) {
	if _, err := NewDataFrame(
		NewSeriesInt64("a", []int64{1, 2}),
		NewSeriesInt64("b", []int64{1}),
	); err == nil {
		t.Errorf("mismatched column lengths should be rejected")
	}
	if _, err := NewDataFrame(
		NewSeriesInt64("a", []int64{1}),
		NewSeriesInt64("a", []int64{2}),
	); err == nil {
		t.Errorf("duplicate column names should be rejected")
	}
}

func TestDataFrameSelectDrop(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesInt64("a", []int64{1}),
		NewSeriesInt64("b", []int64{2}),
		NewSeriesInt64("c", []int64{3}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	sel := df.Select("c", "a", "missing")
	if sel.Width() != 2 || sel.Columns()[0] != "c" || sel.Columns()[1] != "a" {
		t.Errorf("Select: expected [c a], got %v", sel.Columns())
	}

	dropped := df.Drop("b")
	if dropped.Width() != 2 || dropped.ColumnByName("b") != nil {
		t.Errorf("Drop left column b: %v", dropped.Columns())
	}
}

func TestDataFrameWithColumn(t *testing.T) {
	df, err := NewDataFrame(NewSeriesInt64("a", []int64{1, 2}))
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	out, err := df.WithColumn(NewSeriesInt64("b", []int64{3, 4}))
	if err != nil {
		t.Fatalf("WithColumn failed: %v", err)
	}
	if out.Width() != 2 {
		t.Fatalf("expected 2 columns, got %d", out.Width())
	}

	// Replacing an existing column keeps its position.
	out, err = out.WithColumn(NewSeriesInt64("a", []int64{9, 9}))
	if err != nil {
		t.Fatalf("WithColumn replace failed: %v", err)
	}
	if out.Columns()[0] != "a" {
		t.Errorf("replaced column moved: %v", out.Columns())
	}
	if v, _ := out.ColumnByName("a").GetInt64(0); v != 9 {
		t.Errorf("replacement not applied")
	}

	if _, err := df.WithColumn(NewSeriesInt64("c", []int64{1})); err == nil {
		t.Errorf("wrong-length column should be rejected")
	}
}

func TestDataFrameGroups(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesString("g", []string{"a", "b", "a"}),
		NewSeriesInt64("v", []int64{1, 2, 3}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	if _, err := df.WithGroups("missing"); err == nil {
		t.Errorf("grouping by an unknown column should fail")
	}

	grouped, err := df.WithGroups("g")
	if err != nil {
		t.Fatalf("WithGroups failed: %v", err)
	}
	if keys := grouped.GroupKeys(); len(keys) != 1 || keys[0] != "g" {
		t.Errorf("GroupKeys: expected [g], got %v", keys)
	}

	sets := grouped.groupRowSets()
	if len(sets) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(sets))
	}
	if len(sets[0]) != 2 || sets[0][0] != 0 || sets[0][1] != 2 {
		t.Errorf("group a rows: expected [0 2], got %v", sets[0])
	}

	// Dropping the group key drops the grouping.
	if keys := grouped.Drop("g").GroupKeys(); len(keys) != 0 {
		t.Errorf("grouping should not survive dropping its key, got %v", keys)
	}
}

func TestDataFrameUngroupedRowSets(t *testing.T) {
	df, err := NewDataFrame(NewSeriesInt64("a", []int64{1, 2}))
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}
	sets := df.groupRowSets()
	if len(sets) != 1 {
		t.Fatalf("ungrouped frame should be one partition, got %d", len(sets))
	}
}

func TestDataFrameConcat(t *testing.T) {
	a, _ := NewDataFrame(
		NewSeriesInt64("x", []int64{1}),
		NewSeriesString("y", []string{"a"}),
	)
	b, _ := NewDataFrame(
		NewSeriesInt64("x", []int64{2}),
		NewSeriesStringWithNulls("y", []string{""}, []bool{false}),
	)

	out, err := Concat(a, b)
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	if out.Height() != 2 {
		t.Fatalf("expected 2 rows, got %d", out.Height())
	}
	if v, _ := out.ColumnByName("x").GetInt64(1); v != 2 {
		t.Errorf("x[1]: expected 2, got %d", v)
	}
	if out.ColumnByName("y").IsValid(1) {
		t.Errorf("y[1] should stay missing")
	}

	mismatched, _ := NewDataFrame(NewSeriesInt64("z", []int64{1}))
	if _, err := Concat(a, mismatched); err == nil {
		t.Errorf("mismatched schemas should be rejected")
	}
}

func TestDataFrameConcatCategoricalMergesDictionaries(t *testing.T) {
	first, err := NewSeriesCategoricalWithCategories("c",
		[]string{"low", "high"}, []string{"low", "mid", "high"})
	if err != nil {
		t.Fatalf("categorical failed: %v", err)
	}
	a, _ := NewDataFrame(first)
	b, _ := NewDataFrame(NewSeriesCategorical("c", []string{"extra", "low"}))

	out, err := Concat(a, b)
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	c := out.ColumnByName("c")
	if c.DType() != Categorical {
		t.Fatalf("concat changed dtype to %s", c.DType())
	}
	want := []string{"low", "mid", "high", "extra"}
	got := c.Categories()
	if len(got) != len(want) {
		t.Fatalf("merged levels: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	for i, label := range []string{"low", "high", "extra", "low"} {
		if v, ok := c.GetString(i); !ok || v != label {
			t.Errorf("row %d: expected %s, got %v (ok=%v)", i, label, v, ok)
		}
	}
}

func TestDataFrameSortBy(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesInt64WithNulls("a", []int64{3, 1, 0, 2}, []bool{true, true, false, true}),
		NewSeriesString("tag", []string{"c", "a", "null", "b"}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}

	asc, err := df.SortBy("a", true)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	tags := asc.ColumnByName("tag").Strings()
	if tags[0] != "a" || tags[1] != "b" || tags[2] != "c" || tags[3] != "null" {
		t.Errorf("ascending order: got %v", tags)
	}

	desc, err := df.SortBy("a", false)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	tags = desc.ColumnByName("tag").Strings()
	if tags[0] != "c" || tags[1] != "b" || tags[2] != "a" || tags[3] != "null" {
		t.Errorf("descending should still put missing last: got %v", tags)
	}

	if _, err := df.SortBy("missing", true); err == nil {
		t.Errorf("sorting by an unknown column should fail")
	}
}

func TestDataFrameClone(t *testing.T) {
	df, err := NewDataFrame(NewSeriesInt64("a", []int64{1, 2}))
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}
	grouped, _ := df.WithGroups("a")

	clone := grouped.Clone()
	if clone.Width() != 1 || clone.Height() != 2 {
		t.Fatalf("clone shape: %dx%d", clone.Height(), clone.Width())
	}
	if keys := clone.GroupKeys(); len(keys) != 1 || keys[0] != "a" {
		t.Errorf("clone should keep grouping, got %v", keys)
	}

	// Adding a column to the clone leaves the original untouched.
	if _, err := clone.WithColumn(NewSeriesInt64("b", []int64{3, 4})); err != nil {
		t.Fatalf("WithColumn failed: %v", err)
	}
	if grouped.Width() != 1 {
		t.Errorf("original frame changed width: %d", grouped.Width())
	}
}

func TestDataFrameGatherAcrossTypes(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesInt64("i", []int64{1, 2}),
		NewSeriesFloat64("f", []float64{1.5, 2.5}),
		NewSeriesBool("b", []bool{true, false}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}
	out := df.Gather([]int{1, 1, 0})
	if out.Height() != 3 {
		t.Fatalf("expected 3 rows, got %d", out.Height())
	}
	if v, _ := out.ColumnByName("f").GetFloat64(0); v != 2.5 {
		t.Errorf("f[0]: expected 2.5, got %v", v)
	}
	if v, _ := out.ColumnByName("b").GetBool(2); !v {
		t.Errorf("b[2]: expected true")
	}
}
