package query

import (
	"reflect"
	"strings"
	"testing"
)

var testSchema = Schema{
	Table: "perfumes",
	Columns: map[string]string{
		"id":        "id",
		"name":      "name",
		"status":    "status",
		"price":     "price",
		"baseNotes": "base_notes",
	},
}

func mustParse(t *testing.T, raw string) Filter {
	t.Helper()
	f, err := ParseFilter([]byte(raw))
	if err != nil {
		t.Fatalf("failed to parse filter %s: %v", raw, err)
	}
	return f
}

func TestCompile_SimpleComparison(t *testing.T) {
	cond, err := Compile(testSchema, mustParse(t, `["eq","status","active"]`))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if cond.SQL != "status = ?" {
		t.Fatalf("unexpected SQL: %q", cond.SQL)
	}
	if !reflect.DeepEqual(cond.Args, []any{"active"}) {
		t.Fatalf("unexpected args: %#v", cond.Args)
	}
}

func TestCompile_NestedConjunction(t *testing.T) {
	raw := `["and",[["eq","status","active"],["gt","price",2]]]`
	cond, err := Compile(testSchema, mustParse(t, raw))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if cond.SQL != "(status = ? AND price > ?)" {
		t.Fatalf("unexpected SQL: %q", cond.SQL)
	}
	if !reflect.DeepEqual(cond.Args, []any{"active", int64(2)}) {
		t.Fatalf("unexpected args: %#v", cond.Args)
	}
}

func TestCompile_NotTakesSingleChild(t *testing.T) {
	cond, err := Compile(testSchema, mustParse(t, `["not",[["eq","status","draft"]]]`))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if cond.SQL != "NOT (status = ?)" {
		t.Fatalf("unexpected SQL: %q", cond.SQL)
	}

	_, err = Compile(testSchema, mustParse(t, `["not",[["eq","status","a"],["eq","status","b"]]]`))
	if err == nil {
		t.Fatalf("expected error for not with two children")
	}
}

func TestCompile_UnknownColumnFailsAtLeaf(t *testing.T) {
	raw := `["or",[["eq","status","active"],["and",[["eq","doesNotExist","x"]]]]]`
	_, err := Compile(testSchema, mustParse(t, raw))
	if err == nil {
		t.Fatalf("expected error for unknown column")
	}
	if !strings.Contains(err.Error(), "doesNotExist") {
		t.Fatalf("error should name the offending column, got: %v", err)
	}
}

func TestCompile_NullChecksTakeNoValue(t *testing.T) {
	cond, err := Compile(testSchema, mustParse(t, `["isNull","price"]`))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if cond.SQL != "price IS NULL" || len(cond.Args) != 0 {
		t.Fatalf("unexpected condition: %q %#v", cond.SQL, cond.Args)
	}
}

func TestCompile_BetweenRequiresPair(t *testing.T) {
	cond, err := Compile(testSchema, mustParse(t, `["between","price",[1,5]]`))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if cond.SQL != "price BETWEEN ? AND ?" {
		t.Fatalf("unexpected SQL: %q", cond.SQL)
	}
	if !reflect.DeepEqual(cond.Args, []any{int64(1), int64(5)}) {
		t.Fatalf("unexpected args: %#v", cond.Args)
	}

	if _, err := Compile(testSchema, mustParse(t, `["between","price",[1]]`)); err == nil {
		t.Fatalf("expected error for one-element range")
	}
	if _, err := Compile(testSchema, mustParse(t, `["notBetween","price",3]`)); err == nil {
		t.Fatalf("expected error for scalar range value")
	}
}

func TestCompile_ArrayOperators(t *testing.T) {
	cases := []struct {
		raw  string
		sql  string
		args []any
	}{
		{`["inArray","id",[1,2,3]]`, "id = ANY(?)", []any{[]int64{1, 2, 3}}},
		{`["notInArray","id",[4]]`, "id <> ALL(?)", []any{[]int64{4}}},
		{`["arrayOverlaps","baseNotes",[7,8]]`, "base_notes && ?", []any{[]int64{7, 8}}},
		{`["arrayContains","baseNotes",[7]]`, "base_notes @> ?", []any{[]int64{7}}},
		{`["arrayContained","baseNotes",[7,8,9]]`, "base_notes <@ ?", []any{[]int64{7, 8, 9}}},
	}

	for _, tc := range cases {
		cond, err := Compile(testSchema, mustParse(t, tc.raw))
		if err != nil {
			t.Fatalf("unexpected compile error for %s: %v", tc.raw, err)
		}
		if cond.SQL != tc.sql {
			t.Fatalf("unexpected SQL for %s: %q", tc.raw, cond.SQL)
		}
		if !reflect.DeepEqual(cond.Args, tc.args) {
			t.Fatalf("unexpected args for %s: %#v", tc.raw, cond.Args)
		}
	}
}

func TestCompile_StringArrayValues(t *testing.T) {
	cond, err := Compile(testSchema, mustParse(t, `["inArray","status",["active","draft"]]`))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !reflect.DeepEqual(cond.Args, []any{[]string{"active", "draft"}}) {
		t.Fatalf("unexpected args: %#v", cond.Args)
	}
}

func TestCompileSort(t *testing.T) {
	order := Order{{Direction: "desc", Column: "price"}, {Direction: "asc", Column: "name"}}
	keys, err := CompileSort(testSchema, order)
	if err != nil {
		t.Fatalf("unexpected sort error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"price DESC", "name ASC"}) {
		t.Fatalf("unexpected sort keys: %#v", keys)
	}

	if _, err := CompileSort(testSchema, Order{{Direction: "asc", Column: "nope"}}); err == nil {
		t.Fatalf("expected error for unknown sort column")
	}
	if _, err := CompileSort(testSchema, Order{{Direction: "sideways", Column: "name"}}); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestRebind(t *testing.T) {
	sql, next := Rebind("a = ? AND b BETWEEN ? AND ?", 1)
	if sql != "a = $1 AND b BETWEEN $2 AND $3" {
		t.Fatalf("unexpected rebind output: %q", sql)
	}
	if next != 4 {
		t.Fatalf("expected next placeholder 4, got %d", next)
	}

	sql, next = Rebind("c && ?", 4)
	if sql != "c && $4" || next != 5 {
		t.Fatalf("unexpected rebind output: %q next=%d", sql, next)
	}
}

func TestAndOrSkipEmptyConditions(t *testing.T) {
	cond := And(Condition{}, Condition{SQL: "a = ?", Args: []any{1}})
	if cond.SQL != "a = ?" {
		t.Fatalf("unexpected SQL: %q", cond.SQL)
	}

	cond = Or(Condition{SQL: "a = ?", Args: []any{1}}, Condition{SQL: "b = ?", Args: []any{2}})
	if cond.SQL != "(a = ? OR b = ?)" {
		t.Fatalf("unexpected SQL: %q", cond.SQL)
	}
	if !reflect.DeepEqual(cond.Args, []any{1, 2}) {
		t.Fatalf("unexpected args: %#v", cond.Args)
	}
}
