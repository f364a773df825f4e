package reshape

import (
	"fmt"
	"strings"
)

// RepairFunc transforms a full slice of candidate output names into the final
// column names. It sees every name at once so repairs can depend on the whole
// sequence, including the id columns that precede the widened ones.
type RepairFunc func(names []string) ([]string, error)

// RepairCheckUnique fails when names are empty or collide. This is the
// default repair.
func RepairCheckUnique(names []string) ([]string, error) {
	seen := make(map[string][]int)
	var bad []string
	for i, name := range names {
		if name == "" {
			bad = append(bad, fmt.Sprintf("position %d is empty", i))
			continue
		}
		seen[name] = append(seen[name], i)
	}
	for _, name := range names {
		positions := seen[name]
		if len(positions) > 1 {
			bad = append(bad, fmt.Sprintf("%q appears %d times", name, len(positions)))
			seen[name] = nil
		}
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("output column names are not unique: %s", strings.Join(bad, "; "))
	}
	return names, nil
}

// RepairMinimal passes names through untouched, duplicates and all. The
// resulting frame may be unusable by name-based lookups.
func RepairMinimal(names []string) ([]string, error) {
	return names, nil
}

// RepairUnique deterministically rewrites names so the result is unique:
// empty names become "column_<position>", then duplicates after the first
// occurrence get "_2", "_3", ... suffixes. Suffixing re-checks against every
// name already taken, so a synthesized name never collides with an existing
// one.
func RepairUnique(names []string) ([]string, error) {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	counts := make(map[string]int, len(names))

	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		if !taken[name] {
			taken[name] = true
			counts[name] = 1
			out[i] = name
			continue
		}
		base := name
		for {
			counts[base]++
			candidate := fmt.Sprintf("%s_%d", base, counts[base])
			if !taken[candidate] {
				taken[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out, nil
}

// RepairWith wraps a custom renaming function and verifies its output is
// still the right length and unique.
func RepairWith(fn func(names []string) []string) RepairFunc {
	return func(names []string) ([]string, error) {
		repaired := fn(append([]string{}, names...))
		if len(repaired) != len(names) {
			return nil, fmt.Errorf("name repair returned %d names for %d columns", len(repaired), len(names))
		}
		return RepairCheckUnique(repaired)
	}
}

// applyRepair runs the repair (default RepairCheckUnique) over names.
func applyRepair(repair RepairFunc, names []string) ([]string, error) {
	if repair == nil {
		repair = RepairCheckUnique
	}
	return repair(names)
}
