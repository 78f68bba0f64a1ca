package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operator is a leaf comparison operator.
type Operator string

const (
	OpEq             Operator = "eq"
	OpNe             Operator = "ne"
	OpGt             Operator = "gt"
	OpGte            Operator = "gte"
	OpLt             Operator = "lt"
	OpLte            Operator = "lte"
	OpIsNull         Operator = "isNull"
	OpIsNotNull      Operator = "isNotNull"
	OpInArray        Operator = "inArray"
	OpNotInArray     Operator = "notInArray"
	OpBetween        Operator = "between"
	OpNotBetween     Operator = "notBetween"
	OpLike           Operator = "like"
	OpILike          Operator = "ilike"
	OpNotILike       Operator = "notIlike"
	OpArrayOverlaps  Operator = "arrayOverlaps"
	OpArrayContained Operator = "arrayContained"
	OpArrayContains  Operator = "arrayContains"
)

// Conjunction combines child filters.
type Conjunction string

const (
	ConjAnd Conjunction = "and"
	ConjOr  Conjunction = "or"
	ConjNot Conjunction = "not"
)

/// Filter is a parsed filter expression: either a Comparison leaf or a Group
// of child filters under a conjunction.
type Filter interface {
	isFilter()
}

// Comparison is a single operator applied to a column. Value is absent for
// the null-check operators.
type Comparison struct {
	Op     Operator
	Column string
	Value  any
}

func (Comparison) isFilter() {}

// Group combines child filters with and/or/not. The not conjunction takes
// exactly one child.
type Group struct {
	Conj     Conjunction
	Children []Filter
}

func (Group) isFilter() {}

var conjunctions = map[string]Conjunction{
	"and": ConjAnd,
	"or":  ConjOr,
	"not": ConjNot,
}

var operators = map[string]Operator{
	"eq":             OpEq,
	"ne":             OpNe,
	"gt":             OpGt,
	"gte":            OpGte,
	"lt":             OpLt,
	"lte":            OpLte,
	"isNull":         OpIsNull,
	"isNotNull":      OpIsNotNull,
	"inArray":        OpInArray,
	"notInArray":     OpNotInArray,
	"between":        OpBetween,
	"notBetween":     OpNotBetween,
	"like":           OpLike,
	"ilike":          OpILike,
	"notIlike":       OpNotILike,
	"arrayOverlaps":  OpArrayOverlaps,
	"arrayContained": OpArrayContained,
	"arrayContains":  OpArrayContains,
}

// ParseFilter decodes the wire form of a filter clause: a tagged array whose
// first element names an operator or conjunction. Operator clauses are
// [op, column, value] (value omitted for null checks); conjunction clauses
// are [conj, [clause, ...]].
func ParseFilter(data []byte) (Filter, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("filter clause must be an array: %w", err)
	}
	return parseClause(raw)
}

func parseClause(raw []json.RawMessage) (Filter, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("filter clause needs at least an operator and an argument")
	}

	var name string
	if err := json.Unmarshal(raw[0], &name); err != nil {
		return nil, fmt.Errorf("filter clause operator must be a string: %w", err)
	}

	if conj, ok := conjunctions[name]; ok {
		var children []json.RawMessage
		if err := json.Unmarshal(raw[1], &children); err != nil {
			return nil, fmt.Errorf("conjunction %q takes an array of clauses: %w", name, err)
		}

		group := Group{Conj: conj, Children: make([]Filter, 0, len(children))}
		for _, child := range children {
			var childRaw []json.RawMessage
			if err := json.Unmarshal(child, &childRaw); err != nil {
				return nil, fmt.Errorf("conjunction %q child must be a clause array: %w", name, err)
			}
			parsed, err := parseClause(childRaw)
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, parsed)
		}
		return group, nil
	}

	op, ok := operators[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter operator %q", name)
	}

	var column string
	if err := json.Unmarshal(raw[1], &column); err != nil {
		return nil, fmt.Errorf("operator %q column must be a string: %w", name, err)
	}

	cmp := Comparison{Op: op, Column: column}
	if len(raw) > 2 {
		value, err := decodeValue(raw[2])
		if err != nil {
			return nil, err
		}
		cmp.Value = value
	}
	return cmp, nil
}

// decodeValue decodes a JSON value keeping integer precision: whole numbers
// come back as int64, everything else as the default decoding.
func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid filter value: %w", err)
	}
	return normalizeValue(value), nil
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}

// Order is an ordered list of sort keys; the first entry is the primary key.
type Order []SortKey

// SortKey pairs a direction with an exposed column name.
type SortKey struct {
	Direction string
	Column    string
}

// ParseOrder decodes the wire form of an order clause: [[direction, column], ...].
func ParseOrder(data []byte) (Order, error) {
	var raw [][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("order clause must be an array of [direction, column] pairs: %w", err)
	}

	order := make(Order, 0, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("order entry must be a [direction, column] pair")
		}
		order = append(order, SortKey{Direction: pair[0], Column: pair[1]})
	}
	return order, nil
}
