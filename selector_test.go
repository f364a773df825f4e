package reshape

import (
	"errors"
	"testing"
)

func selectorFrame(t *testing.T) *DataFrame {
	t.Helper()
	df, err := NewDataFrame(
		NewSeriesInt64("id", []int64{1}),
		NewSeriesFloat64("score_a", []float64{1}),
		NewSeriesFloat64("score_b", []float64{2}),
		NewSeriesString("label", []string{"x"}),
	)
	if err != nil {
		t.Fatalf("NewDataFrame failed: %v", err)
	}
	return df
}

func resolveNames(t *testing.T, df *DataFrame, sel Selector) []string {
	t.Helper()
	idx, err := resolveSelector(df, sel)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	return selectionNames(df, idx)
}

func TestSelectorCols(t *testing.T) {
	df := selectorFrame(t)
	got := resolveNames(t, df, Cols("label", "id"))
	if len(got) != 2 || got[0] != "label" || got[1] != "id" {
		t.Errorf("Cols should preserve request order, got %v", got)
	}

	if _, err := resolveSelector(df, Cols("nope")); err == nil {
		t.Errorf("unknown name accepted")
	}
}

func TestSelectorIdxAndRange(t *testing.T) {
	df := selectorFrame(t)
	got := resolveNames(t, df, Idx(2, 0))
	if got[0] != "score_b" || got[1] != "id" {
		t.Errorf("Idx: got %v", got)
	}
	if _, err := resolveSelector(df, Idx(9)); err == nil {
		t.Errorf("out of range index accepted")
	}

	got = resolveNames(t, df, Range("score_a", "label"))
	if len(got) != 3 || got[0] != "score_a" || got[2] != "label" {
		t.Errorf("Range: got %v", got)
	}
	if _, err := resolveSelector(df, Range("label", "id")); err == nil {
		t.Errorf("reversed range accepted")
	}
}

func TestSelectorPredicates(t *testing.T) {
	df := selectorFrame(t)

	got := resolveNames(t, df, StartsWith("score_"))
	if len(got) != 2 || got[0] != "score_a" {
		t.Errorf("StartsWith: got %v", got)
	}
	got = resolveNames(t, df, EndsWith("_b"))
	if len(got) != 1 || got[0] != "score_b" {
		t.Errorf("EndsWith: got %v", got)
	}
	got = resolveNames(t, df, Contains("core"))
	if len(got) != 2 {
		t.Errorf("Contains: got %v", got)
	}
	got = resolveNames(t, df, OfType(Float64))
	if len(got) != 2 || got[1] != "score_b" {
		t.Errorf("OfType: got %v", got)
	}
	got = resolveNames(t, df, Everything())
	if len(got) != df.Width() {
		t.Errorf("Everything: got %v", got)
	}
}

func TestSelectorMatch(t *testing.T) {
	df := selectorFrame(t)
	got := resolveNames(t, df, Match(`^score_[ab]$`))
	if len(got) != 2 {
		t.Errorf("Match: got %v", got)
	}
	if _, err := resolveSelector(df, Match(`[`)); err == nil {
		t.Errorf("invalid pattern accepted")
	}
}

func TestSelectorNotAndUnion(t *testing.T) {
	df := selectorFrame(t)

	got := resolveNames(t, df, Not(StartsWith("score_")))
	if len(got) != 2 || got[0] != "id" || got[1] != "label" {
		t.Errorf("Not: got %v", got)
	}

	got = resolveNames(t, df, Union(Cols("label"), StartsWith("score_"), Cols("label")))
	if len(got) != 3 || got[0] != "label" {
		t.Errorf("Union should dedup and keep first selection order, got %v", got)
	}
}

func TestResolve(t *testing.T) {
	df := selectorFrame(t)
	idx, err := Resolve(df, Union(Cols("id"), StartsWith("score_"), Cols("id")))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(idx) != 3 || idx[0] != 0 {
		t.Errorf("Resolve should dedup in selection order, got %v", idx)
	}

	idx, err = Resolve(df, StartsWith("zz"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(idx) != 0 {
		t.Errorf("empty selection should resolve to no positions, got %v", idx)
	}
}

func TestResolveRequired(t *testing.T) {
	df := selectorFrame(t)
	_, err := resolveRequired(df, StartsWith("zz"), "resolving names columns")
	if !errors.Is(err, ErrNoMatchingColumn) {
		t.Fatalf("expected ErrNoMatchingColumn, got %v", err)
	}
}
