package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dewabisma/parfum-api/internal/db"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/ids"
	"github.com/dewabisma/parfum-api/internal/query"
)

const articleColumns = `articles.id, articles.brand_id, articles.meta_keywords, articles.meta_description, articles.title, articles.slug, articles.author, articles.image_by, articles.cover, articles.banner, articles.content, articles.tags, articles.is_featured, articles.type, articles.status, articles.created_at, articles.updated_at`

const articleWithTagsSelect = `SELECT ` + articleColumns + `, jsonb_agg(jsonb_build_object('id', tags.id, 'name', tags.name))
FROM articles
LEFT JOIN tags ON tags.id = ANY(articles.tags)`

// articleContentPolicy keeps user-generated markup while stripping scripts
// and event handlers before content reaches storage.
var articleContentPolicy = bluemonday.UGCPolicy()

// articleRepository implements ArticleRepository interface
type articleRepository struct {
	conn *db.Connection
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(conn *db.Connection) ArticleRepository {
	return &articleRepository{conn: conn}
}

func scanArticleWithTags(row rowScanner) (domain.ArticleWithTags, error) {
	var a domain.ArticleWithTags
	err := row.Scan(
		&a.ID, &a.BrandID, &a.MetaKeywords, &a.MetaDescription, &a.Title, &a.Slug,
		&a.Author, &a.ImageBy, &a.Cover, &a.Banner, &a.Content, &a.Tags,
		&a.IsFeatured, &a.Type, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&a.TagRefs,
	)
	return a, err
}

func (r *articleRepository) queryWithTags(ctx context.Context, cond query.Condition, opts query.Options) ([]domain.ArticleWithTags, query.PageMeta, error) {
	orderKeys, err := compileOrder(domain.ArticleSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(articleWithTagsSelect, cond, "articles.id", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query articles", err)
	}
	defer rows.Close()

	articles := []domain.ArticleWithTags{}
	for rows.Next() {
		article, err := scanArticleWithTags(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query articles", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM articles`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count articles", err)
	}

	return articles, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// Query lists articles with their tags aggregated
func (r *articleRepository) Query(ctx context.Context, opts query.Options) ([]domain.ArticleWithTags, query.PageMeta, error) {
	cond, err := compileFilter(domain.ArticleSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	return r.queryWithTags(ctx, cond, opts)
}

// QuerySimilar lists articles sharing at least one tag with the target
// article
func (r *articleRepository) QuerySimilar(ctx context.Context, id int64, opts query.Options) ([]domain.ArticleWithTags, query.PageMeta, error) {
	var targetTags []int64
	err := r.conn.Pool.QueryRow(ctx, `SELECT tags FROM articles WHERE id = $1`, id).Scan(&targetTags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, query.PageMeta{}, domain.NewNotFound("article with given id is not found")
		}
		return nil, query.PageMeta{}, fmt.Errorf("failed to get article: %w", err)
	}
	if targetTags == nil {
		targetTags = []int64{}
	}

	similar := query.And(
		query.Condition{SQL: "NOT (articles.id = ?)", Args: []any{id}},
		query.Condition{SQL: "articles.tags && ?", Args: []any{targetTags}},
	)
	cond, err := compileFilter(domain.ArticleSchema, opts.Filter, similar)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	return r.queryWithTags(ctx, cond, opts)
}

// GetByID retrieves an article with its tags aggregated
func (r *articleRepository) GetByID(ctx context.Context, id int64) (domain.ArticleWithTags, error) {
	sql, _ := query.Rebind(articleWithTagsSelect+" WHERE articles.id = ? GROUP BY articles.id", 1)

	article, err := scanArticleWithTags(r.conn.Pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ArticleWithTags{}, domain.NewNotFound("article with given id is not found")
		}
		return domain.ArticleWithTags{}, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// Create creates an article. The slug derives from the title and the content
// is sanitized before storage.
func (r *articleRepository) Create(ctx context.Context, input domain.CreateArticle) (int64, error) {
	articleID, err := ids.NewOr(input.ID)
	if err != nil {
		return 0, err
	}

	tags := input.Tags
	if tags == nil {
		tags = []int64{}
	}
	status := domain.ArticleStatusDraft
	if input.Status != nil {
		status = *input.Status
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO articles (id, brand_id, meta_keywords, meta_description, title, slug, author, image_by, cover, banner, content, tags, is_featured, type, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		articleID, input.BrandID, input.MetaKeywords, input.MetaDescription,
		input.Title, Slugify(input.Title), input.Author, input.ImageBy,
		input.Cover, input.Banner, articleContentPolicy.Sanitize(input.Content),
		tags, input.IsFeatured, input.Type, status)
	if err != nil {
		return 0, wrapError("create article", err)
	}

	return articleID, nil
}

// Update applies a partial article update. Tag mutations go through added and
// removed sets, and superseded banner or cover paths are reported back.
func (r *articleRepository) Update(ctx context.Context, id int64, input domain.UpdateArticle) ([]string, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setIfNotNil(set, "brand_id", input.BrandID)
	setIfNotNil(set, "meta_keywords", input.MetaKeywords)
	setIfNotNil(set, "meta_description", input.MetaDescription)
	if input.Title != nil {
		set.set("title", *input.Title)
		set.set("slug", Slugify(*input.Title))
	}
	setIfNotNil(set, "author", input.Author)
	setIfNotNil(set, "image_by", input.ImageBy)
	setIfNotNil(set, "cover", input.Cover)
	setIfNotNil(set, "banner", input.Banner)
	if input.Content != nil {
		set.set("content", articleContentPolicy.Sanitize(*input.Content))
	}
	setIfNotNil(set, "is_featured", input.IsFeatured)
	setIfNotNil(set, "type", input.Type)
	setIfNotNil(set, "status", input.Status)
	if len(input.AddedTags) > 0 || len(input.RemovedTags) > 0 {
		set.set("tags", mutateTags(current.Tags, input.AddedTags, input.RemovedTags))
	}

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("articles", id), set.args...); err != nil {
		return nil, wrapError("update article", err)
	}

	return supersededAssets(
		assetChange{old: current.Banner, new: input.Banner},
		assetChange{old: current.Cover, new: input.Cover},
	), nil
}

// DeleteByIDs removes articles and reports their orphaned banner and cover
// paths
func (r *articleRepository) DeleteByIDs(ctx context.Context, articleIDs []int64) ([]int64, []string, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`DELETE FROM articles WHERE id = ANY($1) RETURNING id, banner, cover`, articleIDs)
	if err != nil {
		return nil, nil, wrapError("delete articles", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	var removedAssets []string
	for rows.Next() {
		var id int64
		var banner, cover *string
		if err := rows.Scan(&id, &banner, &cover); err != nil {
			return nil, nil, fmt.Errorf("failed to scan deleted article: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
		removedAssets = appendAsset(removedAssets, banner, cover)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapError("delete articles", err)
	}

	if len(deletedIDs) == 0 {
		return nil, nil, domain.NewNotFound("articles with given ids are not found")
	}

	return deletedIDs, removedAssets, nil
}

// mutateTags appends the added tag ids to the current set and filters out the
// removed ones.
func mutateTags(current, added, removed []int64) []int64 {
	drop := make(map[int64]struct{}, len(removed))
	for _, id := range removed {
		drop[id] = struct{}{}
	}

	tags := make([]int64, 0, len(current)+len(added))
	for _, id := range append(append([]int64{}, current...), added...) {
		if _, ok := drop[id]; !ok {
			tags = append(tags, id)
		}
	}
	return tags
}

// Slugify lowers a title into a URL slug, collapsing any run of
// non-alphanumeric characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
