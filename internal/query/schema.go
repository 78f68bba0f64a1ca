// Package query compiles client-supplied filter and sort expressions into
// parameterized SQL fragments and computes pagination metadata. It is the
// shared engine behind every list endpoint.
package query

// Schema describes the filterable surface of one table: the table name and
// the mapping from exposed (camelCase) column names to SQL identifiers.
// Compiled SQL only ever embeds identifiers taken from this map, never
// client input.
type Schema struct {
	Table   string
	Columns map[string]string
}

// Column resolves an exposed column name to its SQL identifier.
func (s Schema) Column(name string) (string, bool) {
	col, ok := s.Columns[name]
	return col, ok
}
