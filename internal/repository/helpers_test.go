package repository

import (
	"testing"

	"github.com/dewabisma/parfum-api/internal/query"
)

func strPtr(s string) *string { return &s }

func TestBuildListSQL(t *testing.T) {
	cond := query.Condition{SQL: "brands.name = ?", Args: []any{"Oullu"}}
	sql, args := buildListSQL("SELECT id FROM brands", cond, "", []string{"brands.name ASC"}, query.Limit{N: 20}, 40)

	want := "SELECT id FROM brands WHERE brands.name = $1 ORDER BY brands.name ASC LIMIT 20 OFFSET 40"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "Oullu" {
		t.Fatalf("args = %v, want [Oullu]", args)
	}
}

func TestBuildListSQLUnlimitedSkipsLimit(t *testing.T) {
	sql, _ := buildListSQL("SELECT id FROM brands", query.Condition{}, "", nil, query.Limit{Unlimited: true}, 0)

	want := "SELECT id FROM brands OFFSET 0"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
}

func TestBuildListSQLGroupBy(t *testing.T) {
	cond := query.Condition{SQL: "articles.status = ?", Args: []any{"active"}}
	sql, _ := buildListSQL("SELECT articles.id FROM articles", cond, "articles.id", nil, query.Limit{N: 10}, 0)

	want := "SELECT articles.id FROM articles WHERE articles.status = $1 GROUP BY articles.id LIMIT 10 OFFSET 0"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
}

func TestBuildCountSQL(t *testing.T) {
	cond := query.Condition{SQL: "perfumes.gender = ? AND perfumes.is_halal = ?", Args: []any{"unisex", true}}
	sql, args := buildCountSQL("SELECT COUNT(*) FROM perfumes", cond)

	want := "SELECT COUNT(*) FROM perfumes WHERE perfumes.gender = $1 AND perfumes.is_halal = $2"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 args", args)
	}
}

func TestBuildCountSQLNoCondition(t *testing.T) {
	sql, args := buildCountSQL("SELECT COUNT(*) FROM perfumes", query.Condition{})
	if sql != "SELECT COUNT(*) FROM perfumes" {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestSetBuilder(t *testing.T) {
	set := newSetBuilder()
	setIfNotNil(set, "name", strPtr("Amber Oud"))
	setIfNotNil[string](set, "description", nil)
	set.set("tags", []int64{1, 2})

	sql := set.updateSQL("articles", 42)
	want := "UPDATE articles SET name = $1, tags = $2, updated_at = now() WHERE id = $3"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if len(set.args) != 3 {
		t.Fatalf("args = %v, want 3 args", set.args)
	}
	if set.args[2] != int64(42) {
		t.Fatalf("final arg = %v, want row id", set.args[2])
	}
}

func TestSetBuilderEmptyStillTouchesUpdatedAt(t *testing.T) {
	set := newSetBuilder()
	sql := set.updateSQL("brands", 7)

	want := "UPDATE brands SET updated_at = now() WHERE id = $1"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
}

func TestSupersededAssets(t *testing.T) {
	removed := supersededAssets(
		assetChange{old: strPtr("/images/old-banner.webp"), new: strPtr("/images/new-banner.webp")},
		assetChange{old: strPtr("/images/logo.webp"), new: strPtr("/images/logo.webp")},
		assetChange{old: strPtr("/images/untouched.webp"), new: nil},
		assetChange{old: nil, new: strPtr("/images/first-upload.webp")},
		assetChange{old: strPtr(""), new: strPtr("/images/was-empty.webp")},
	)

	if len(removed) != 1 || removed[0] != "/images/old-banner.webp" {
		t.Fatalf("removed = %v, want only the replaced banner", removed)
	}
}

func TestAppendAsset(t *testing.T) {
	paths := appendAsset(nil, strPtr("/images/a.webp"), nil, strPtr(""), strPtr("/images/b.webp"))
	if len(paths) != 2 || paths[0] != "/images/a.webp" || paths[1] != "/images/b.webp" {
		t.Fatalf("paths = %v", paths)
	}
}
