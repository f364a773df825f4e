package reshape

import "testing"

func TestHashMissingValuesGroupTogether(t *testing.T) {
	s := NewSeriesInt64WithNulls("k", []int64{0, 0, 1}, []bool{false, false, true})
	hashes := make([]uint64, s.Len())
	hashColumn(s, hashes)
	if hashes[0] != hashes[1] {
		t.Errorf("two missing values should hash identically")
	}
	if hashes[0] == hashes[2] {
		t.Errorf("missing and present values should not collide on the sentinel")
	}
}

func TestHashCategoricalByLabel(t *testing.T) {
	// Same labels under different dictionaries hash and compare equal.
	a := NewSeriesCategorical("a", []string{"x", "y"})
	b := NewSeriesCategorical("b", []string{"y", "x"})

	ha := make([]uint64, 2)
	hb := make([]uint64, 2)
	hashColumn(a, ha)
	hashColumn(b, hb)
	if ha[0] != hb[1] || ha[1] != hb[0] {
		t.Errorf("categorical hashing should follow labels, not indices")
	}
	if !valuesEqual(a, 0, b, 1) {
		t.Errorf("x should equal x across dictionaries")
	}
	if valuesEqual(a, 0, b, 0) {
		t.Errorf("x should not equal y")
	}
}

func TestHashStringMatchesCategorical(t *testing.T) {
	s := NewSeriesString("s", []string{"x"})
	c := NewSeriesCategorical("c", []string{"x"})
	hs := make([]uint64, 1)
	hc := make([]uint64, 1)
	hashColumn(s, hs)
	hashColumn(c, hc)
	if hs[0] != hc[0] {
		t.Errorf("string and categorical with the same label should hash alike")
	}
	if !valuesEqual(s, 0, c, 0) {
		t.Errorf("string and categorical with the same label should compare equal")
	}
}

func TestKeysMatch(t *testing.T) {
	a := NewSeriesInt64("k1", []int64{1, 1})
	b := NewSeriesStringWithNulls("k2", []string{"x", ""}, []bool{true, false})
	cols := []*Series{a, b}

	if keysMatch(cols, 0, cols, 0) != true {
		t.Errorf("a row should match itself")
	}
	if keysMatch(cols, 0, cols, 1) {
		t.Errorf("rows differing in one key should not match")
	}
	if !keysMatch(cols[1:], 1, cols[1:], 1) {
		t.Errorf("missing should match missing")
	}
}

func TestValuesEqualNoCrossTypeComparison(t *testing.T) {
	i := NewSeriesInt64("i", []int64{1})
	f := NewSeriesFloat64("f", []float64{1})
	if valuesEqual(i, 0, f, 0) {
		t.Errorf("int64 and float64 keys must not compare equal")
	}
}

func TestCombineHashOrderSensitive(t *testing.T) {
	a, b := uint64(0x1234), uint64(0x9876)
	if combineHash(combineHash(0, a), b) == combineHash(combineHash(0, b), a) {
		t.Errorf("key hashing should be order-sensitive")
	}
}
