package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is a compiled boolean predicate: a SQL fragment using ?
// placeholders plus its bound arguments. Fragments compose with And/Or and
// are renumbered to pgx-style $n placeholders with Rebind at assembly time.
type Condition struct {
	SQL  string
	Args []any
}

// And combines conditions with AND, skipping empty ones.
func And(conds ...Condition) Condition {
	return combine("AND", conds)
}

// Or combines conditions with OR, skipping empty ones.
func Or(conds ...Condition) Condition {
	return combine("OR", conds)
}

func combine(op string, conds []Condition) Condition {
	parts := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		if c.SQL == "" {
			continue
		}
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	if len(parts) == 0 {
		return Condition{}
	}
	if len(parts) == 1 {
		return Condition{SQL: parts[0], Args: args}
	}
	return Condition{SQL: "(" + strings.Join(parts, " "+op+" ") + ")", Args: args}
}

// Compile turns a parsed filter into a boolean predicate against the given
// schema. Column existence is checked at each leaf, so an unknown column deep
// inside a nested conjunction still surfaces with its own name.
func Compile(s Schema, f Filter) (Condition, error) {
	switch node := f.(type) {
	case Group:
		return compileGroup(s, node)
	case Comparison:
		return compileComparison(s, node)
	default:
		return Condition{}, fmt.Errorf("unsupported filter node %T", f)
	}
}

func compileGroup(s Schema, g Group) (Condition, error) {
	if len(g.Children) == 0 {
		return Condition{}, fmt.Errorf("conjunction %q needs at least one child clause", g.Conj)
	}

	children := make([]Condition, 0, len(g.Children))
	for _, child := range g.Children {
		compiled, err := Compile(s, child)
		if err != nil {
			return Condition{}, err
		}
		children = append(children, compiled)
	}

	switch g.Conj {
	case ConjAnd:
		return And(children...), nil
	case ConjOr:
		return Or(children...), nil
	case ConjNot:
		if len(children) != 1 {
			return Condition{}, fmt.Errorf("conjunction %q takes exactly one child clause", g.Conj)
		}
		return Condition{SQL: "NOT (" + children[0].SQL + ")", Args: children[0].Args}, nil
	default:
		return Condition{}, fmt.Errorf("unknown conjunction %q", g.Conj)
	}
}

func compileComparison(s Schema, c Comparison) (Condition, error) {
	col, ok := s.Column(c.Column)
	if !ok {
		return Condition{}, fmt.Errorf("column %q does not exist on table %s", c.Column, s.Table)
	}

	switch c.Op {
	case OpEq:
		return Condition{SQL: col + " = ?", Args: []any{c.Value}}, nil
	case OpNe:
		return Condition{SQL: col + " <> ?", Args: []any{c.Value}}, nil
	case OpGt:
		return Condition{SQL: col + " > ?", Args: []any{c.Value}}, nil
	case OpGte:
		return Condition{SQL: col + " >= ?", Args: []any{c.Value}}, nil
	case OpLt:
		return Condition{SQL: col + " < ?", Args: []any{c.Value}}, nil
	case OpLte:
		return Condition{SQL: col + " <= ?", Args: []any{c.Value}}, nil
	case OpIsNull:
		return Condition{SQL: col + " IS NULL"}, nil
	case OpIsNotNull:
		return Condition{SQL: col + " IS NOT NULL"}, nil
	case OpInArray:
		list, err := toArray(c.Op, c.Value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{SQL: col + " = ANY(?)", Args: []any{list}}, nil
	case OpNotInArray:
		list, err := toArray(c.Op, c.Value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{SQL: col + " <> ALL(?)", Args: []any{list}}, nil
	case OpBetween, OpNotBetween:
		pair, ok := c.Value.([]any)
		if !ok || len(pair) != 2 {
			return Condition{}, fmt.Errorf("operator %q takes a two-element array as value", c.Op)
		}
		sql := col + " BETWEEN ? AND ?"
		if c.Op == OpNotBetween {
			sql = col + " NOT BETWEEN ? AND ?"
		}
		return Condition{SQL: sql, Args: []any{pair[0], pair[1]}}, nil
	case OpLike:
		return Condition{SQL: col + " LIKE ?", Args: []any{c.Value}}, nil
	case OpILike:
		return Condition{SQL: col + " ILIKE ?", Args: []any{c.Value}}, nil
	case OpNotILike:
		return Condition{SQL: col + " NOT ILIKE ?", Args: []any{c.Value}}, nil
	case OpArrayOverlaps:
		list, err := toArray(c.Op, c.Value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{SQL: col + " && ?", Args: []any{list}}, nil
	case OpArrayContains:
		list, err := toArray(c.Op, c.Value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{SQL: col + " @> ?", Args: []any{list}}, nil
	case OpArrayContained:
		list, err := toArray(c.Op, c.Value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{SQL: col + " <@ ?", Args: []any{list}}, nil
	default:
		return Condition{}, fmt.Errorf("unknown filter operator %q", c.Op)
	}
}

// toArray coerces a decoded JSON array into a uniformly typed slice so pgx
// can encode it as a Postgres array parameter.
func toArray(op Operator, value any) (any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("operator %q takes an array as value", op)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("operator %q takes a non-empty array as value", op)
	}

	switch items[0].(type) {
	case int64:
		out := make([]int64, 0, len(items))
		for _, item := range items {
			n, ok := item.(int64)
			if !ok {
				return nil, fmt.Errorf("operator %q array mixes value types", op)
			}
			out = append(out, n)
		}
		return out, nil
	case float64:
		out := make([]float64, 0, len(items))
		for _, item := range items {
			switch n := item.(type) {
			case float64:
				out = append(out, n)
			case int64:
				out = append(out, float64(n))
			default:
				return nil, fmt.Errorf("operator %q array mixes value types", op)
			}
		}
		return out, nil
	case string:
		out := make([]string, 0, len(items))
		for _, item := range items {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("operator %q array mixes value types", op)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("operator %q array has unsupported element type %T", op, items[0])
	}
}

// CompileSort maps each (direction, column) pair to a SQL sort expression,
// preserving input order. Directions other than asc/desc and unknown columns
// are rejected.
func CompileSort(s Schema, order Order) ([]string, error) {
	keys := make([]string, 0, len(order))
	for _, key := range order {
		col, ok := s.Column(key.Column)
		if !ok {
			return nil, fmt.Errorf("column %q does not exist on table %s", key.Column, s.Table)
		}

		switch key.Direction {
		case "asc":
			keys = append(keys, col+" ASC")
		case "desc":
			keys = append(keys, col+" DESC")
		default:
			return nil, fmt.Errorf("unknown sort direction %q", key.Direction)
		}
	}
	return keys, nil
}

// Rebind rewrites ? placeholders to sequential $n placeholders starting at
// start, returning the rewritten SQL and the next free placeholder index.
// Compiled fragments never contain literal question marks.
func Rebind(sql string, start int) (string, int) {
	var b strings.Builder
	b.Grow(len(sql) + 8)

	n := start
	for _, r := range sql {
		if r == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), n
}
