package reshape

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// missingHash is the canonical hash contribution of a missing value. Two
// missing values compare equal for grouping, so they must hash alike.
const missingHash uint64 = 0x9E3779B97F4A7C15

// hashColumn writes a 64-bit hash of every value in col into out.
// Categorical values hash by their category string, so the same label hashes
// identically across series with different dictionaries.
func hashColumn(col *Series, out []uint64) {
	var buf [8]byte
	switch col.DType() {
	case Int64:
		data := col.Int64()
		for i := range out {
			if !col.IsValid(i) {
				out[i] = missingHash
				continue
			}
			binary.LittleEndian.PutUint64(buf[:], uint64(data[i]))
			out[i] = xxh3.Hash(buf[:])
		}
	case Float64:
		data := col.Float64()
		for i := range out {
			if !col.IsValid(i) {
				out[i] = missingHash
				continue
			}
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(data[i]))
			out[i] = xxh3.Hash(buf[:])
		}
	case String:
		data := col.Strings()
		for i := range out {
			if !col.IsValid(i) {
				out[i] = missingHash
				continue
			}
			out[i] = xxh3.HashString(data[i])
		}
	case Bool:
		data := col.Bool()
		for i := range out {
			if !col.IsValid(i) {
				out[i] = missingHash
				continue
			}
			if data[i] {
				buf[0] = 1
			} else {
				buf[0] = 0
			}
			out[i] = xxh3.Hash(buf[:1])
		}
	case Categorical:
		indices := col.CategoricalIndices()
		categories := col.Categories()
		// Hash each category once, then fan out by index
		catHashes := make([]uint64, len(categories))
		for c, label := range categories {
			catHashes[c] = xxh3.HashString(label)
		}
		for i := range out {
			if indices[i] < 0 {
				out[i] = missingHash
			} else {
				out[i] = catHashes[indices[i]]
			}
		}
	default:
		for i := range out {
			out[i] = missingHash
		}
	}
}

// combineHash folds a column hash into an accumulated row hash. The mix is
// order-sensitive so (a, b) and (b, a) key tuples hash differently.
func combineHash(acc, h uint64) uint64 {
	acc ^= h + 0x9E3779B97F4A7C15 + (acc << 6) + (acc >> 2)
	return acc
}

// hashKeys computes a combined hash per row over the given key columns.
func hashKeys(cols []*Series, height int) []uint64 {
	hashes := make([]uint64, height)
	if len(cols) == 0 {
		return hashes
	}
	hashColumn(cols[0], hashes)
	if len(cols) > 1 {
		colHash := make([]uint64, height)
		for _, col := range cols[1:] {
			hashColumn(col, colHash)
			for i := range hashes {
				hashes[i] = combineHash(hashes[i], colHash[i])
			}
		}
	}
	return hashes
}

// valuesEqual compares a[ai] with b[bi]. Missing compares equal to missing;
// Categorical values compare by category label so distinct dictionaries with
// the same labels still match. Int64 and Float64 do not cross-compare.
func valuesEqual(a *Series, ai int, b *Series, bi int) bool {
	av, bv := a.IsValid(ai), b.IsValid(bi)
	if !av || !bv {
		return av == bv
	}

	switch a.DType() {
	case Int64:
		if b.DType() != Int64 {
			return false
		}
		return a.Int64()[ai] == b.Int64()[bi]
	case Float64:
		if b.DType() != Float64 {
			return false
		}
		return a.Float64()[ai] == b.Float64()[bi]
	case Bool:
		if b.DType() != Bool {
			return false
		}
		return a.Bool()[ai] == b.Bool()[bi]
	case String, Categorical:
		if b.DType() != String && b.DType() != Categorical {
			return false
		}
		as, _ := a.GetString(ai)
		bs, _ := b.GetString(bi)
		return as == bs
	default:
		return false
	}
}

// keysMatch reports whether the key tuple at aRow in aCols equals the tuple
// at bRow in bCols. Used to resolve hash collisions.
func keysMatch(aCols []*Series, aRow int, bCols []*Series, bRow int) bool {
	for c := range aCols {
		if !valuesEqual(aCols[c], aRow, bCols[c], bRow) {
			return false
		}
	}
	return true
}
