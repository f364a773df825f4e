package reshape

import (
	"strings"
	"testing"
)

func TestRepairCheckUnique(t *testing.T) {
	names, err := RepairCheckUnique([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unique names rejected: %v", err)
	}
	if names[0] != "a" || names[2] != "c" {
		t.Errorf("names changed: %v", names)
	}

	if _, err := RepairCheckUnique([]string{"a", "b", "a"}); err == nil {
		t.Errorf("duplicate names accepted")
	} else if !strings.Contains(err.Error(), "a") {
		t.Errorf("error should name the duplicate: %v", err)
	}

	if _, err := RepairCheckUnique([]string{"a", ""}); err == nil {
		t.Errorf("empty name accepted")
	}
}

func TestRepairMinimal(t *testing.T) {
	names, err := RepairMinimal([]string{"a", "a", ""})
	if err != nil {
		t.Fatalf("RepairMinimal failed: %v", err)
	}
	if names[0] != "a" || names[1] != "a" || names[2] != "" {
		t.Errorf("RepairMinimal should leave names untouched: %v", names)
	}
}

func TestRepairUnique(t *testing.T) {
	names, err := RepairUnique([]string{"a", "a", "b", "a"})
	if err != nil {
		t.Fatalf("RepairUnique failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Fatalf("RepairUnique left duplicates: %v", names)
		}
		seen[n] = true
	}
	if names[0] != "a" {
		t.Errorf("first occurrence should keep its name, got %v", names)
	}
	if names[1] != "a_2" || names[3] != "a_3" {
		t.Errorf("expected suffixed duplicates a_2, a_3, got %v", names)
	}
}

func TestRepairUniqueEmptyNames(t *testing.T) {
	names, err := RepairUnique([]string{"", "x", ""})
	if err != nil {
		t.Fatalf("RepairUnique failed: %v", err)
	}
	if names[0] == "" || names[2] == "" || names[0] == names[2] {
		t.Errorf("empty names should be filled and distinct: %v", names)
	}
}

func TestRepairUniqueAvoidsExistingNames(t *testing.T) {
	// The suffixed candidate collides with a name already present.
	names, err := RepairUnique([]string{"a", "a_2", "a"})
	if err != nil {
		t.Fatalf("RepairUnique failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Fatalf("RepairUnique left duplicates: %v", names)
		}
		seen[n] = true
	}
}

func TestRepairWith(t *testing.T) {
	upper := RepairWith(func(names []string) []string {
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = strings.ToUpper(n)
		}
		return out
	})
	names, err := upper([]string{"a", "b"})
	if err != nil {
		t.Fatalf("RepairWith failed: %v", err)
	}
	if names[0] != "A" || names[1] != "B" {
		t.Errorf("custom repair not applied: %v", names)
	}

	dropOne := RepairWith(func(names []string) []string { return names[:1] })
	if _, err := dropOne([]string{"a", "b"}); err == nil {
		t.Errorf("length-changing repair accepted")
	}

	collide := RepairWith(func(names []string) []string {
		out := make([]string, len(names))
		for i := range names {
			out[i] = "same"
		}
		return out
	})
	if _, err := collide([]string{"a", "b"}); err == nil {
		t.Errorf("colliding repair output accepted")
	}
}
