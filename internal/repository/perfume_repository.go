package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dewabisma/parfum-api/internal/db"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/ids"
	"github.com/dewabisma/parfum-api/internal/query"
)

const perfumeColumns = `perfumes.id, perfumes.name, perfumes.description, perfumes.gender, perfumes.price, perfumes.release_date, perfumes.variants, perfumes.brand_id, perfumes.perfume_type, perfumes.base_notes, perfumes.middle_notes, perfumes.top_notes, perfumes.uncategorized_notes, perfumes.occasion, perfumes.is_halal, perfumes.is_bpom_certified, perfumes.is_featured, perfumes.view_count, perfumes.like_count, perfumes.created_at, perfumes.updated_at`

const brandJoinColumns = `brands.id, brands.name, brands.banner, brands.logo, brands.description, brands.website, brands.ig_username, brands.created_at, brands.updated_at`

const perfumeWithBrandSelect = `SELECT ` + perfumeColumns + `, ` + brandJoinColumns + `
FROM perfumes
LEFT JOIN brands ON perfumes.brand_id = brands.id`

const perfumeCount = `SELECT COUNT(*) FROM perfumes`

// minUncategorizedMatch is the intersection size an uncategorized collection
// must reach before it counts as similar.
const minUncategorizedMatch = 2

// perfumeRepository implements PerfumeRepository interface
type perfumeRepository struct {
	conn *db.Connection
}

// NewPerfumeRepository creates a new perfume repository
func NewPerfumeRepository(conn *db.Connection) PerfumeRepository {
	return &perfumeRepository{conn: conn}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerfumeFields(row rowScanner, p *domain.Perfume, extra ...any) error {
	dest := []any{
		&p.ID, &p.Name, &p.Description, &p.Gender, &p.Price, &p.ReleaseDate,
		&p.Variants, &p.BrandID, &p.Type, &p.BaseNotes, &p.MiddleNotes,
		&p.TopNotes, &p.UncategorizedNotes, &p.Occasion, &p.IsHalal,
		&p.IsBpomCertified, &p.IsFeatured, &p.ViewCount, &p.LikeCount,
		&p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func scanPerfumeFieldsWithPrefix(row rowScanner, prefix any, p *domain.Perfume, extra ...any) error {
	dest := []any{prefix,
		&p.ID, &p.Name, &p.Description, &p.Gender, &p.Price, &p.ReleaseDate,
		&p.Variants, &p.BrandID, &p.Type, &p.BaseNotes, &p.MiddleNotes,
		&p.TopNotes, &p.UncategorizedNotes, &p.Occasion, &p.IsHalal,
		&p.IsBpomCertified, &p.IsFeatured, &p.ViewCount, &p.LikeCount,
		&p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// brandScan collects the nullable columns of a left-joined brand.
type brandScan struct {
	id          *int64
	name        *string
	banner      *string
	logo        *string
	description *string
	website     *string
	igUsername  *string
	createdAt   *time.Time
	updatedAt   *time.Time
}

func (b *brandScan) dest() []any {
	return []any{&b.id, &b.name, &b.banner, &b.logo, &b.description, &b.website, &b.igUsername, &b.createdAt, &b.updatedAt}
}

func (b *brandScan) brand() *domain.Brand {
	if b.id == nil {
		return nil
	}
	return &domain.Brand{
		ID:          *b.id,
		Name:        *b.name,
		Banner:      b.banner,
		Logo:        b.logo,
		Description: b.description,
		Website:     b.website,
		IgUsername:  b.igUsername,
		CreatedAt:   *b.createdAt,
		UpdatedAt:   *b.updatedAt,
	}
}

func scanPerfumeWithBrand(row rowScanner) (domain.PerfumeWithBrand, error) {
	var p domain.PerfumeWithBrand
	var b brandScan
	if err := scanPerfumeFields(row, &p.Perfume, b.dest()...); err != nil {
		return domain.PerfumeWithBrand{}, err
	}
	p.Brand = b.brand()
	return p, nil
}

// orSentinel substitutes the {-1} sentinel for an absent note collection: no
// note has id -1, so the branch can never match, while overlap against an
// empty array would be rejected outright.
func orSentinel(noteIDs []int64) []int64 {
	if len(noteIDs) == 0 {
		return []int64{-1}
	}
	return noteIDs
}

// notesTierCondition matches perfumes whose categorized pyramid covers the
// requested notes, tiered by how many notes were requested, or whose
// uncategorized collection contains all of them.
func notesTierCondition(noteIDs []int64) query.Condition {
	baseContains := query.Condition{SQL: "perfumes.base_notes @> ?", Args: []any{noteIDs}}
	baseOverlaps := query.Condition{SQL: "perfumes.base_notes && ?", Args: []any{noteIDs}}
	middleOverlaps := query.Condition{SQL: "perfumes.middle_notes && ?", Args: []any{noteIDs}}
	topOverlaps := query.Condition{SQL: "perfumes.top_notes && ?", Args: []any{noteIDs}}

	var categorized query.Condition
	switch len(noteIDs) {
	case 1:
		categorized = baseContains
	case 2:
		categorized = query.Or(
			baseContains,
			query.And(baseOverlaps, middleOverlaps),
		)
	default:
		categorized = query.Or(
			baseContains,
			query.And(baseOverlaps, middleOverlaps),
			query.And(baseOverlaps, middleOverlaps, topOverlaps),
		)
	}

	uncategorizedContains := query.Condition{SQL: "perfumes.uncategorized_notes @> ?", Args: []any{noteIDs}}
	return query.Or(categorized, uncategorizedContains)
}

// similarPerfumeCondition matches perfumes sharing notes with the target:
// middle overlap, base plus middle overlap, or an uncategorized intersection
// of at least minUncategorizedMatch notes.
func similarPerfumeCondition(targetID int64, base, middle, uncategorized []int64) query.Condition {
	baseIDs := orSentinel(base)
	middleIDs := orSentinel(middle)
	uncategorizedIDs := orSentinel(uncategorized)

	existsSQL := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM unnest(perfumes.uncategorized_notes) x(tg) WHERE x.tg = ANY(?) HAVING count(*) >= %d)",
		minUncategorizedMatch,
	)

	return query.And(
		query.Condition{SQL: "perfumes.id <> ?", Args: []any{targetID}},
		query.Or(
			query.Condition{SQL: "perfumes.middle_notes && ?", Args: []any{middleIDs}},
			query.And(
				query.Condition{SQL: "perfumes.base_notes && ?", Args: []any{baseIDs}},
				query.Condition{SQL: "perfumes.middle_notes && ?", Args: []any{middleIDs}},
			),
			query.And(
				query.Condition{SQL: "perfumes.uncategorized_notes && ?", Args: []any{uncategorizedIDs}},
				query.Condition{SQL: existsSQL, Args: []any{uncategorizedIDs}},
			),
			query.And(
				query.Condition{SQL: "perfumes.middle_notes && ?", Args: []any{uncategorizedIDs}},
				query.Condition{SQL: existsSQL, Args: []any{uncategorizedIDs}},
			),
		),
	)
}

func (r *perfumeRepository) queryWithBrand(ctx context.Context, cond query.Condition, opts query.Options) ([]domain.PerfumeWithBrand, query.PageMeta, error) {
	orderKeys, err := compileOrder(domain.PerfumeSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(perfumeWithBrandSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query perfumes", err)
	}
	defer rows.Close()

	perfumes := []domain.PerfumeWithBrand{}
	for rows.Next() {
		perfume, err := scanPerfumeWithBrand(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan perfume: %w", err)
		}
		perfumes = append(perfumes, perfume)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query perfumes", err)
	}

	countSQL, countArgs := buildCountSQL(perfumeCount, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count perfumes", err)
	}

	return perfumes, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// Query lists perfumes with their brands joined
func (r *perfumeRepository) Query(ctx context.Context, opts query.Options) ([]domain.PerfumeWithBrand, query.PageMeta, error) {
	cond, err := compileFilter(domain.PerfumeSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	return r.queryWithBrand(ctx, cond, opts)
}

// GetByID retrieves one perfume with its note collections populated and its
// per-perfume aliases keyed by note id
func (r *perfumeRepository) GetByID(ctx context.Context, id int64) (domain.PerfumeDetail, error) {
	sql, _ := query.Rebind(perfumeWithBrandSelect+" WHERE perfumes.id = ?", 1)

	perfume, err := scanPerfumeWithBrand(r.conn.Pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PerfumeDetail{}, domain.NewNotFound("perfume with given id is not found")
		}
		return domain.PerfumeDetail{}, fmt.Errorf("failed to get perfume: %w", err)
	}

	detail := domain.PerfumeDetail{Perfume: perfume.Perfume, Brand: perfume.Brand}

	aliases, err := r.noteAliases(ctx, id)
	if err != nil {
		return domain.PerfumeDetail{}, err
	}
	detail.NoteAliases = aliases

	if perfume.UncategorizedNotes != nil {
		notes, err := r.notesByIDs(ctx, perfume.UncategorizedNotes)
		if err != nil {
			return domain.PerfumeDetail{}, err
		}
		detail.PopulatedUncategorizedNotes = notes
		return detail, nil
	}

	if detail.PopulatedBaseNotes, err = r.notesByIDs(ctx, perfume.BaseNotes); err != nil {
		return domain.PerfumeDetail{}, err
	}
	if detail.PopulatedMiddleNotes, err = r.notesByIDs(ctx, perfume.MiddleNotes); err != nil {
		return domain.PerfumeDetail{}, err
	}
	if detail.PopulatedTopNotes, err = r.notesByIDs(ctx, perfume.TopNotes); err != nil {
		return domain.PerfumeDetail{}, err
	}

	return detail, nil
}

// noteAliases loads this perfume's display aliases; the first alias per note
// wins.
func (r *perfumeRepository) noteAliases(ctx context.Context, perfumeID int64) (map[int64]string, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`SELECT note_id, note_alias FROM perfume_note_aliases WHERE perfume_id = $1`, perfumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get perfume note aliases: %w", err)
	}
	defer rows.Close()

	aliases := map[int64]string{}
	for rows.Next() {
		var noteID int64
		var alias string
		if err := rows.Scan(&noteID, &alias); err != nil {
			return nil, fmt.Errorf("failed to scan note alias: %w", err)
		}
		if _, ok := aliases[noteID]; !ok {
			aliases[noteID] = alias
		}
	}
	return aliases, rows.Err()
}

func (r *perfumeRepository) notesByIDs(ctx context.Context, noteIDs []int64) ([]domain.Note, error) {
	notes := []domain.Note{}
	if len(noteIDs) == 0 {
		return notes, nil
	}

	rows, err := r.conn.Pool.Query(ctx,
		`SELECT id, name, category_id, icon, cover FROM notes WHERE id = ANY($1)`, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(&note.ID, &note.Name, &note.CategoryID, &note.Icon, &note.Cover); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// QuerySimilar finds the first perfume whose name matches the given prefix,
// then lists perfumes sharing notes with it
func (r *perfumeRepository) QuerySimilar(ctx context.Context, name string, opts query.Options) (domain.PerfumeRef, []domain.PerfumeWithBrand, query.PageMeta, error) {
	var target domain.Perfume
	err := r.conn.Pool.QueryRow(ctx,
		`SELECT id, name, base_notes, middle_notes, top_notes, uncategorized_notes FROM perfumes WHERE name ILIKE $1 LIMIT 1`,
		name+"%",
	).Scan(&target.ID, &target.Name, &target.BaseNotes, &target.MiddleNotes, &target.TopNotes, &target.UncategorizedNotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PerfumeRef{}, nil, query.PageMeta{}, domain.NewNotFound("perfume with given name is not found")
		}
		return domain.PerfumeRef{}, nil, query.PageMeta{}, fmt.Errorf("failed to get perfume by name: %w", err)
	}

	similar := similarPerfumeCondition(target.ID, target.BaseNotes, target.MiddleNotes, target.UncategorizedNotes)
	cond, err := compileFilter(domain.PerfumeSchema, opts.Filter, similar)
	if err != nil {
		return domain.PerfumeRef{}, nil, query.PageMeta{}, err
	}

	perfumes, meta, err := r.queryWithBrand(ctx, cond, opts)
	if err != nil {
		return domain.PerfumeRef{}, nil, query.PageMeta{}, err
	}

	return domain.PerfumeRef{ID: target.ID, Name: target.Name}, perfumes, meta, nil
}

// QueryByNotes lists perfumes whose note collections cover the given notes,
// scored by review volume and like/view counters
func (r *perfumeRepository) QueryByNotes(ctx context.Context, noteIDs []int64, opts query.Options) ([]domain.PerfumeMatch, query.PageMeta, error) {
	cond, err := compileFilter(domain.PerfumeSchema, opts.Filter, notesTierCondition(noteIDs))
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	// The score is selected first so "popularity" sorts as ORDER BY 1.
	selectSQL := `SELECT ((COUNT(*) * 0.6) + (perfumes.like_count * 0.3) + (perfumes.view_count * 0.1))::DOUBLE PRECISION AS popularity, ` +
		perfumeColumns + `, ` + brandJoinColumns + `
FROM perfumes
LEFT JOIN brands ON perfumes.brand_id = brands.id
LEFT JOIN perfume_reviews ON perfumes.id = perfume_reviews.perfume_id`

	var orderKeys []string
	if len(opts.Order) > 0 && opts.Order[0].Column == "popularity" {
		switch opts.Order[0].Direction {
		case "asc":
			orderKeys = []string{"1 ASC"}
		case "desc":
			orderKeys = []string{"1 DESC"}
		default:
			return nil, query.PageMeta{}, domain.NewBadRequest(fmt.Sprintf("unknown sort direction %q", opts.Order[0].Direction))
		}
	} else {
		orderKeys, err = compileOrder(domain.PerfumeSchema, opts.Order)
		if err != nil {
			return nil, query.PageMeta{}, err
		}
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(selectSQL, cond, "perfumes.id, brands.id", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query perfumes by notes", err)
	}
	defer rows.Close()

	matches := []domain.PerfumeMatch{}
	for rows.Next() {
		var match domain.PerfumeMatch
		var b brandScan
		extra := append([]any{}, b.dest()...)
		if err := scanPerfumeFieldsWithPrefix(rows, &match.Popularity, &match.Perfume, extra...); err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan perfume match: %w", err)
		}
		match.Brand = b.brand()
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query perfumes by notes", err)
	}

	countSQL, countArgs := buildCountSQL(perfumeCount, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count perfumes by notes", err)
	}

	return matches, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// QueryContainingNote lists perfumes holding the note in any of their
// collections
func (r *perfumeRepository) QueryContainingNote(ctx context.Context, noteID int64, opts query.Options) ([]domain.PerfumeWithBrand, query.PageMeta, error) {
	single := []int64{noteID}
	containing := query.Or(
		query.Condition{SQL: "perfumes.top_notes @> ?", Args: []any{single}},
		query.Condition{SQL: "perfumes.middle_notes @> ?", Args: []any{single}},
		query.Condition{SQL: "perfumes.base_notes @> ?", Args: []any{single}},
		query.Condition{SQL: "perfumes.uncategorized_notes @> ?", Args: []any{single}},
	)

	cond, err := compileFilter(domain.PerfumeSchema, opts.Filter, containing)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	return r.queryWithBrand(ctx, cond, opts)
}

// flattenedNotes is the result of splitting note inputs into id arrays and
// alias records.
type flattenedNotes struct {
	all           []int64
	base          []int64
	middle        []int64
	top           []int64
	uncategorized []int64
	aliases       []domain.CreatePerfumeNoteAlias
}

func flattenNoteInputs(perfumeID int64, base, middle, top, uncategorized []domain.NoteInput) flattenedNotes {
	var flat flattenedNotes

	collect := func(inputs []domain.NoteInput) []int64 {
		if len(inputs) == 0 {
			return nil
		}
		noteIDs := make([]int64, 0, len(inputs))
		for _, input := range inputs {
			noteIDs = append(noteIDs, input.NoteID)
			if input.Alias != nil {
				flat.aliases = append(flat.aliases, domain.CreatePerfumeNoteAlias{
					PerfumeID: perfumeID,
					NoteID:    input.NoteID,
					NoteAlias: *input.Alias,
				})
			}
		}
		flat.all = append(flat.all, noteIDs...)
		return noteIDs
	}

	flat.base = collect(base)
	flat.middle = collect(middle)
	flat.top = collect(top)
	flat.uncategorized = collect(uncategorized)
	return flat
}

func insertNoteAliases(ctx context.Context, tx pgx.Tx, aliases []domain.CreatePerfumeNoteAlias) error {
	for _, alias := range aliases {
		aliasID, err := ids.New()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO perfume_note_aliases (id, perfume_id, note_id, note_alias) VALUES ($1, $2, $3, $4)`,
			aliasID, alias.PerfumeID, alias.NoteID, alias.NoteAlias)
		if err != nil {
			return fmt.Errorf("failed to create note alias: %w", err)
		}
	}
	return nil
}

func bumpNotePopularity(ctx context.Context, tx pgx.Tx, noteIDs []int64, delta int) error {
	if len(noteIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE notes SET popularity_count = popularity_count + (%d) WHERE id = ANY($1)`, delta),
		noteIDs)
	if err != nil {
		return fmt.Errorf("failed to adjust note popularity: %w", err)
	}
	return nil
}

// Create inserts a perfume, its note aliases, and bumps the popularity of
// every referenced note in one transaction
func (r *perfumeRepository) Create(ctx context.Context, input domain.CreatePerfume) (int64, error) {
	perfumeID, err := ids.NewOr(input.ID)
	if err != nil {
		return 0, err
	}

	flat := flattenNoteInputs(perfumeID, input.BaseNotes, input.MiddleNotes, input.TopNotes, input.UncategorizedNotes)

	err = r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO perfumes (id, name, description, gender, price, release_date, variants, brand_id, perfume_type, base_notes, middle_notes, top_notes, uncategorized_notes, occasion, is_halal, is_bpom_certified, is_featured)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			perfumeID, input.Name, input.Description, input.Gender, input.Price,
			input.ReleaseDate, input.Variants, input.BrandID, input.Type,
			flat.base, flat.middle, flat.top, flat.uncategorized,
			input.Occasion, input.IsHalal, input.IsBpomCertified, input.IsFeatured)
		if err != nil {
			return fmt.Errorf("failed to create perfume: %w", err)
		}

		if err := bumpNotePopularity(ctx, tx, flat.all, 1); err != nil {
			return err
		}
		return insertNoteAliases(ctx, tx, flat.aliases)
	})
	if err != nil {
		return 0, wrapError("create perfume", err)
	}

	return perfumeID, nil
}

// mutateNotes appends the added note ids and drops the removed ones; an
// emptied collection collapses to NULL so matching stays well defined.
func mutateNotes(current, added, removed []int64) []int64 {
	next := current
	if len(added) > 0 {
		next = append(slices.Clone(next), added...)
	}
	if next != nil && len(removed) > 0 {
		kept := make([]int64, 0, len(next))
		for _, noteID := range next {
			if !slices.Contains(removed, noteID) {
				kept = append(kept, noteID)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		next = kept
	}
	return next
}

/// Update applies a partial perfume update: scalar fields, add-then-remove
// note mutation, alias upkeep, and note popularity counters, all in one
// transaction. It returns the variant thumbnails that are no longer
// referenced.
func (r *perfumeRepository) Update(ctx context.Context, id int64, input domain.UpdatePerfume) ([]string, error) {
	var removedAssets []string

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		var current domain.Perfume
		err := tx.QueryRow(ctx,
			`SELECT base_notes, middle_notes, top_notes, uncategorized_notes, variants FROM perfumes WHERE id = $1`, id,
		).Scan(&current.BaseNotes, &current.MiddleNotes, &current.TopNotes, &current.UncategorizedNotes, &current.Variants)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NewNotFound("perfume with given id is not found")
			}
			return fmt.Errorf("failed to get perfume: %w", err)
		}

		flat := flattenNoteInputs(id, input.AddedBaseNotes, input.AddedMiddleNotes, input.AddedTopNotes, input.AddedUncategorizedNotes)

		removedNoteIDs := slices.Concat(input.RemovedBaseNotes, input.RemovedMiddleNotes, input.RemovedTopNotes, input.RemovedUncategorizedNotes)

		updatedBase := mutateNotes(current.BaseNotes, flat.base, input.RemovedBaseNotes)
		updatedMiddle := mutateNotes(current.MiddleNotes, flat.middle, input.RemovedMiddleNotes)
		updatedTop := mutateNotes(current.TopNotes, flat.top, input.RemovedTopNotes)
		updatedUncategorized := mutateNotes(current.UncategorizedNotes, flat.uncategorized, input.RemovedUncategorizedNotes)

		set := newSetBuilder()
		setIfNotNil(set, "name", input.Name)
		setIfNotNil(set, "description", input.Description)
		setIfNotNil(set, "gender", input.Gender)
		setIfNotNil(set, "price", input.Price)
		setIfNotNil(set, "release_date", input.ReleaseDate)
		if input.Variants != nil {
			set.set("variants", input.Variants)
		}
		setIfNotNil(set, "brand_id", input.BrandID)
		setIfNotNil(set, "perfume_type", input.Type)
		setIfNotNil(set, "occasion", input.Occasion)
		setIfNotNil(set, "is_halal", input.IsHalal)
		setIfNotNil(set, "is_bpom_certified", input.IsBpomCertified)
		setIfNotNil(set, "is_featured", input.IsFeatured)
		set.set("base_notes", updatedBase)
		set.set("middle_notes", updatedMiddle)
		set.set("top_notes", updatedTop)
		set.set("uncategorized_notes", updatedUncategorized)

		if _, err := tx.Exec(ctx, set.updateSQL("perfumes", id), set.args...); err != nil {
			return fmt.Errorf("failed to update perfume: %w", err)
		}

		if err := bumpNotePopularity(ctx, tx, flat.all, 1); err != nil {
			return err
		}
		if err := bumpNotePopularity(ctx, tx, removedNoteIDs, -1); err != nil {
			return err
		}

		if len(removedNoteIDs) > 0 {
			_, err := tx.Exec(ctx,
				`DELETE FROM perfume_note_aliases WHERE perfume_id = $1 AND note_id = ANY($2)`,
				id, removedNoteIDs)
			if err != nil {
				return fmt.Errorf("failed to delete note aliases: %w", err)
			}
		}

		if err := insertNoteAliases(ctx, tx, flat.aliases); err != nil {
			return err
		}

		if current.Variants != nil && input.Variants != nil {
			for _, oldVariant := range current.Variants {
				kept := slices.ContainsFunc(input.Variants, func(v domain.PerfumeVariant) bool {
					return v.Thumbnail == oldVariant.Thumbnail
				})
				if !kept {
					removedAssets = append(removedAssets, oldVariant.Thumbnail)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("update perfume", err)
	}

	return removedAssets, nil
}

// DeleteByIDs removes perfumes, decrements the popularity of their notes, and
// reports the deleted ids plus orphaned variant thumbnails
func (r *perfumeRepository) DeleteByIDs(ctx context.Context, perfumeIDs []int64) ([]int64, []string, error) {
	var deletedIDs []int64
	var removedAssets []string

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`DELETE FROM perfumes WHERE id = ANY($1) RETURNING id, base_notes, middle_notes, top_notes, uncategorized_notes, variants`,
			perfumeIDs)
		if err != nil {
			return fmt.Errorf("failed to delete perfumes: %w", err)
		}

		type deletedPerfume struct {
			noteIDs  []int64
			variants []domain.PerfumeVariant
		}
		var deleted []deletedPerfume

		for rows.Next() {
			var id int64
			var base, middle, top, uncategorized []int64
			var variants []domain.PerfumeVariant
			if err := rows.Scan(&id, &base, &middle, &top, &uncategorized, &variants); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan deleted perfume: %w", err)
			}
			deletedIDs = append(deletedIDs, id)
			deleted = append(deleted, deletedPerfume{
				noteIDs:  slices.Concat(base, middle, top, uncategorized),
				variants: variants,
			})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to delete perfumes: %w", err)
		}

		if len(deletedIDs) == 0 {
			return domain.NewNotFound("perfumes with given ids are not found")
		}

		for _, perfume := range deleted {
			if err := bumpNotePopularity(ctx, tx, perfume.noteIDs, -1); err != nil {
				return err
			}
			for _, variant := range perfume.variants {
				removedAssets = append(removedAssets, variant.Thumbnail)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, wrapError("delete perfumes", err)
	}

	return deletedIDs, removedAssets, nil
}

// IncrementViewCount bumps the view counter server side
func (r *perfumeRepository) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := r.conn.Pool.Exec(ctx,
		`UPDATE perfumes SET view_count = view_count + 1, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}
