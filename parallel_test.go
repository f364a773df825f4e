package reshape

import (
	"sync/atomic"
	"testing"
)

func TestMorselIterator(t *testing.T) {
	it := NewMorselIterator(10000, 4096)
	var total int64
	for {
		m := it.Next()
		if m == nil {
			break
		}
		if m.Start < 0 || m.End > 10000 || m.Start >= m.End {
			t.Fatalf("bad morsel [%d, %d)", m.Start, m.End)
		}
		total += int64(m.End - m.Start)
	}
	if total != 10000 {
		t.Errorf("morsels should cover every row exactly once, got %d", total)
	}
}

func TestParallelFor(t *testing.T) {
	n := 20000
	var count int64
	ParallelFor(n, func(start, end int) {
		atomic.AddInt64(&count, int64(end-start))
	})
	if count != int64(n) {
		t.Errorf("expected %d rows visited, got %d", n, count)
	}
}

func TestParallelBuildColumns(t *testing.T) {
	cols := ParallelBuildColumns(3, func(i int) *Series {
		return NewSeriesInt64(string(rune('a'+i)), []int64{int64(i)})
	})
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	for i, col := range cols {
		if v, _ := col.GetInt64(0); v != int64(i) {
			t.Errorf("column %d out of order: got %d", i, v)
		}
	}
}

func TestShouldParallelizeThreshold(t *testing.T) {
	cfg := DefaultParallelConfig()
	if cfg.shouldParallelize(10) {
		t.Errorf("tiny inputs should stay sequential")
	}
	if !cfg.shouldParallelize(cfg.MinRowsForParallel * 2) {
		t.Errorf("large inputs should parallelize")
	}

	cfg.Enabled = false
	if cfg.shouldParallelize(1 << 20) {
		t.Errorf("disabled config should never parallelize")
	}
}
