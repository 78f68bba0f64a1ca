package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
)

// compileFilter compiles the optional request filter and ANDs it with any
// fixed conditions the caller contributes. A nil filter compiles to the
// conjunction of the extras alone.
func compileFilter(s query.Schema, f query.Filter, extra ...query.Condition) (query.Condition, error) {
	conds := make([]query.Condition, 0, len(extra)+1)
	conds = append(conds, extra...)

	if f != nil {
		compiled, err := query.Compile(s, f)
		if err != nil {
			return query.Condition{}, fmt.Errorf("%w", domain.NewBadRequest(err.Error()))
		}
		conds = append(conds, compiled)
	}

	return query.And(conds...), nil
}

// buildListSQL assembles the final list statement: WHERE, optional GROUP BY,
// ORDER BY, then LIMIT/OFFSET. The unlimited page size skips LIMIT entirely
// and pins the offset to zero upstream. Placeholders are renumbered for pgx.
func buildListSQL(selectSQL string, cond query.Condition, groupBy string, orderKeys []string, limit query.Limit, rowOffset int) (string, []any) {
	var b strings.Builder
	b.WriteString(selectSQL)

	if cond.SQL != "" {
		b.WriteString(" WHERE ")
		b.WriteString(cond.SQL)
	}
	if groupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(groupBy)
	}
	if len(orderKeys) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orderKeys, ", "))
	}
	if !limit.Unlimited {
		fmt.Fprintf(&b, " LIMIT %d", limit.N)
	}
	fmt.Fprintf(&b, " OFFSET %d", rowOffset)

	sql, _ := query.Rebind(b.String(), 1)
	return sql, cond.Args
}

// buildCountSQL assembles the count statement against the base table. The
// count driver never joins, sorts, or paginates so joined list queries cannot
// inflate totals.
func buildCountSQL(countSQL string, cond query.Condition) (string, []any) {
	sql := countSQL
	if cond.SQL != "" {
		sql += " WHERE " + cond.SQL
	}

	sql, _ = query.Rebind(sql, 1)
	return sql, cond.Args
}

// compileOrder compiles request sort keys against a schema, mapping compile
// failures to bad requests.
func compileOrder(s query.Schema, order query.Order) ([]string, error) {
	keys, err := query.CompileSort(s, order)
	if err != nil {
		return nil, fmt.Errorf("%w", domain.NewBadRequest(err.Error()))
	}
	return keys, nil
}

// setBuilder accumulates SET clauses for a partial update. The final
// statement always touches updated_at.
type setBuilder struct {
	clauses []string
	args    []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// updateSQL renders the UPDATE statement and appends the row id as the final
// argument.
func (b *setBuilder) updateSQL(table string, id int64) string {
	b.args = append(b.args, id)
	set := "updated_at = now()"
	if len(b.clauses) > 0 {
		set = strings.Join(b.clauses, ", ") + ", updated_at = now()"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, set, len(b.args))
}

// setIfNotNil adds a SET clause only when the patch field is present.
func setIfNotNil[T any](b *setBuilder, column string, value *T) {
	if value != nil {
		b.set(column, *value)
	}
}

// assetChange pairs an entity's stored asset path with the incoming one.
type assetChange struct {
	old *string
	new *string
}

// supersededAssets returns the old paths that a new upload replaced.
// Untouched fields (nil new) keep their files.
func supersededAssets(changes ...assetChange) []string {
	var removed []string
	for _, change := range changes {
		if change.old == nil || change.new == nil {
			continue
		}
		if *change.old != "" && *change.old != *change.new {
			removed = append(removed, *change.old)
		}
	}
	return removed
}

// appendAsset collects non-empty asset paths from deleted rows.
func appendAsset(paths []string, assets ...*string) []string {
	for _, asset := range assets {
		if asset != nil && *asset != "" {
			paths = append(paths, *asset)
		}
	}
	return paths
}

// wrapError normalizes database failures: missing rows become domain
// not-found errors and unique violations become conflicts naming the
// constraint. Domain errors pass through untouched.
func wrapError(action string, err error) error {
	if _, ok := domain.AsError(err); ok {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFound(fmt.Sprintf("failed to %s: record not found", action))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.NewConflict(fmt.Sprintf("duplicate value violates unique constraint %q", pgErr.ConstraintName))
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}
