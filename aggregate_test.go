package reshape

import (
	"errors"
	"testing"
)

func TestAggSum(t *testing.T) {
	v, err := AggSum(NewSeriesInt64("v", []int64{1, 2, 3}))
	if err != nil {
		t.Fatalf("AggSum failed: %v", err)
	}
	if v.(int64) != 6 {
		t.Errorf("expected 6, got %v", v)
	}

	v, err = AggSum(NewSeriesFloat64WithNulls("v", []float64{1.5, 0, 2.5}, []bool{true, false, true}))
	if err != nil {
		t.Fatalf("AggSum failed: %v", err)
	}
	if v.(float64) != 4.0 {
		t.Errorf("expected missing values skipped, got %v", v)
	}

	v, err = AggSum(NewSeriesInt64WithNulls("v", []int64{0}, []bool{false}))
	if err != nil {
		t.Fatalf("AggSum failed: %v", err)
	}
	if v != nil {
		t.Errorf("all-missing group should sum to missing, got %v", v)
	}

	if _, err := AggSum(NewSeriesString("v", []string{"a"})); err == nil {
		t.Errorf("summing strings should fail")
	}
}

func TestAggMean(t *testing.T) {
	v, err := AggMean(NewSeriesInt64("v", []int64{1, 2, 3, 4}))
	if err != nil {
		t.Fatalf("AggMean failed: %v", err)
	}
	if v.(float64) != 2.5 {
		t.Errorf("expected 2.5, got %v", v)
	}
}

func TestAggMinMax(t *testing.T) {
	v, err := AggMin(NewSeriesString("v", []string{"b", "a", "c"}))
	if err != nil {
		t.Fatalf("AggMin failed: %v", err)
	}
	if v.(string) != "a" {
		t.Errorf("expected a, got %v", v)
	}
	v, err = AggMax(NewSeriesFloat64("v", []float64{1, 3, 2}))
	if err != nil {
		t.Fatalf("AggMax failed: %v", err)
	}
	if v.(float64) != 3 {
		t.Errorf("expected 3, got %v", v)
	}
}

func TestAggCountFirstLast(t *testing.T) {
	s := NewSeriesInt64WithNulls("v", []int64{1, 0, 3}, []bool{true, false, true})

	v, err := AggCount(s)
	if err != nil {
		t.Fatalf("AggCount failed: %v", err)
	}
	if v.(int64) != 2 {
		t.Errorf("count should skip missing, got %v", v)
	}

	v, err = AggFirst(s)
	if err != nil {
		t.Fatalf("AggFirst failed: %v", err)
	}
	if v.(int64) != 1 {
		t.Errorf("expected 1, got %v", v)
	}
	v, err = AggLast(s)
	if err != nil {
		t.Fatalf("AggLast failed: %v", err)
	}
	if v.(int64) != 3 {
		t.Errorf("expected 3, got %v", v)
	}
}

func TestNormalizeValuesFn(t *testing.T) {
	cols := []string{"a", "b"}

	fns, err := normalizeValuesFn(nil, cols)
	if err != nil || fns != nil {
		t.Errorf("nil should normalize to no aggregation, got %v, %v", fns, err)
	}

	fns, err = normalizeValuesFn(AggSum, cols)
	if err != nil {
		t.Fatalf("AggFunc form failed: %v", err)
	}
	if len(fns) != 2 || fns["a"] == nil || fns["b"] == nil {
		t.Errorf("single function should apply to all columns")
	}

	fns, err = normalizeValuesFn(map[string]AggFunc{"a": AggSum}, cols)
	if err != nil {
		t.Fatalf("map form failed: %v", err)
	}
	if fns["a"] == nil || fns["b"] != nil {
		t.Errorf("map form should cover only named columns")
	}

	if _, err := normalizeValuesFn(map[string]AggFunc{"zz": AggSum}, cols); err == nil {
		t.Errorf("unknown column key accepted")
	}

	if _, err := normalizeValuesFn("not a function", cols); !errors.Is(err, ErrBadValuesFn) {
		t.Errorf("expected ErrBadValuesFn, got %v", err)
	}
}
