package query

import (
	"net/url"
	"testing"
)

func TestRowOffset_PriorityOrder(t *testing.T) {
	limit := Limit{N: 10}

	if got := RowOffset(limit, 25, 3); got != 25 {
		t.Fatalf("explicit offset should win over page, got %d", got)
	}
	if got := RowOffset(limit, 0, 5); got != 40 {
		t.Fatalf("page 5 with limit 10 should give offset 40, got %d", got)
	}
	if got := RowOffset(limit, 0, 0); got != 0 {
		t.Fatalf("default offset should be 0, got %d", got)
	}
	if got := RowOffset(Limit{Unlimited: true}, 25, 3); got != 0 {
		t.Fatalf("unlimited limit should always give offset 0, got %d", got)
	}
}

func TestNewPageMeta_Basics(t *testing.T) {
	meta := NewPageMeta(42, Limit{N: 10}, 40, 5)
	if meta.PageTotal != 5 || meta.CurrentPage != 5 || meta.ItemTotal != 42 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestNewPageMeta_ClampsPastLastPage(t *testing.T) {
	meta := NewPageMeta(30, Limit{N: 10}, 0, 999)
	if meta.PageTotal != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.PageTotal)
	}
	if meta.CurrentPage != 3 {
		t.Fatalf("expected current page clamped to 3, got %d", meta.CurrentPage)
	}
}

func TestNewPageMeta_DerivesPageFromOffset(t *testing.T) {
	meta := NewPageMeta(100, Limit{N: 10}, 35, 0)
	if meta.CurrentPage != 4 {
		t.Fatalf("offset 35 with limit 10 should land on page 4, got %d", meta.CurrentPage)
	}
}

func TestNewPageMeta_Unlimited(t *testing.T) {
	meta := NewPageMeta(5000, Limit{Unlimited: true}, 0, 7)
	if meta.PageTotal != 1 || meta.CurrentPage != 1 || meta.ItemTotal != 5000 {
		t.Fatalf("unexpected meta for unlimited: %+v", meta)
	}
}

func TestNewPageMeta_EmptyResult(t *testing.T) {
	meta := NewPageMeta(0, Limit{N: 10}, 0, 2)
	if meta.PageTotal != 0 || meta.CurrentPage != 0 || meta.ItemTotal != 0 {
		t.Fatalf("unexpected meta for empty result: %+v", meta)
	}
}

func TestParseOptions(t *testing.T) {
	values := url.Values{}
	values.Set("filter", `["eq","status","active"]`)
	values.Set("order", `[["desc","price"]]`)
	values.Set("limit", "25")
	values.Set("page", "2")

	opts, err := ParseOptions(values)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if opts.Limit.N != 25 || opts.Limit.Unlimited {
		t.Fatalf("unexpected limit: %+v", opts.Limit)
	}
	if opts.Page != 2 || opts.Offset != 0 {
		t.Fatalf("unexpected page/offset: %+v", opts)
	}
	if opts.Filter == nil {
		t.Fatalf("expected parsed filter")
	}
	if len(opts.Order) != 1 || opts.Order[0].Column != "price" {
		t.Fatalf("unexpected order: %+v", opts.Order)
	}
}

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := ParseOptions(url.Values{})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if opts.Limit.N != DefaultLimit || opts.Limit.Unlimited {
		t.Fatalf("expected default limit %d, got %+v", DefaultLimit, opts.Limit)
	}
}

func TestParseOptions_UnlimitedSentinel(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "null")

	opts, err := ParseOptions(values)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !opts.Limit.Unlimited {
		t.Fatalf("expected unlimited limit, got %+v", opts.Limit)
	}
}

func TestParseOptions_RejectsBadValues(t *testing.T) {
	for _, tc := range []struct{ key, value string }{
		{"limit", "0"},
		{"limit", "-5"},
		{"limit", "abc"},
		{"offset", "-1"},
		{"page", "x"},
		{"filter", `{"eq":"status"}`},
		{"order", `["desc","price"]`},
	} {
		values := url.Values{}
		values.Set(tc.key, tc.value)
		if _, err := ParseOptions(values); err == nil {
			t.Fatalf("expected error for %s=%s", tc.key, tc.value)
		}
	}
}
