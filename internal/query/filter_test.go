package query

import (
	"testing"
)

func TestParseFilter_UnknownOperator(t *testing.T) {
	if _, err := ParseFilter([]byte(`["almostEq","status","active"]`)); err == nil {
		t.Fatalf("expected error for unknown operator")
	}
}

func TestParseFilter_TooShort(t *testing.T) {
	if _, err := ParseFilter([]byte(`["eq"]`)); err == nil {
		t.Fatalf("expected error for clause without arguments")
	}
}

func TestParseFilter_ConjunctionChildren(t *testing.T) {
	f, err := ParseFilter([]byte(`["or",[["eq","a",1],["ne","b","x"]]]`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	group, ok := f.(Group)
	if !ok {
		t.Fatalf("expected a Group, got %T", f)
	}
	if group.Conj != ConjOr || len(group.Children) != 2 {
		t.Fatalf("unexpected group: %+v", group)
	}

	first, ok := group.Children[0].(Comparison)
	if !ok {
		t.Fatalf("expected a Comparison child, got %T", group.Children[0])
	}
	if first.Op != OpEq || first.Column != "a" {
		t.Fatalf("unexpected comparison: %+v", first)
	}
	if n, ok := first.Value.(int64); !ok || n != 1 {
		t.Fatalf("integer values should decode as int64, got %#v", first.Value)
	}
}

func TestParseFilter_ConjunctionNeedsClauseArray(t *testing.T) {
	if _, err := ParseFilter([]byte(`["and","status"]`)); err == nil {
		t.Fatalf("expected error for conjunction without clause array")
	}
}

func TestParseFilter_FloatValues(t *testing.T) {
	f, err := ParseFilter([]byte(`["gt","price",2.5]`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	cmp := f.(Comparison)
	if v, ok := cmp.Value.(float64); !ok || v != 2.5 {
		t.Fatalf("fractional values should decode as float64, got %#v", cmp.Value)
	}
}
