package repository

import (
	"slices"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Top 10 Perfumes of 2024", "top-10-perfumes-of-2024"},
		{"  Amber & Oud: A Guide  ", "amber-oud-a-guide"},
		{"Already-Slugged", "already-slugged"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestMutateTags(t *testing.T) {
	got := mutateTags([]int64{1, 2}, []int64{3}, []int64{2})
	if !slices.Equal(got, []int64{1, 3}) {
		t.Fatalf("mutateTags = %v, want [1 3]", got)
	}
}

func TestMutateTagsEmptiedStaysEmptyArray(t *testing.T) {
	got := mutateTags([]int64{5}, nil, []int64{5})
	if got == nil || len(got) != 0 {
		t.Fatalf("mutateTags = %v, want empty non-nil slice", got)
	}
}

func TestArticleContentPolicyStripsScripts(t *testing.T) {
	dirty := `<p>Hello</p><script>alert("x")</script><a href="https://example.com" onclick="steal()">link</a>`
	clean := articleContentPolicy.Sanitize(dirty)

	if strings.Contains(clean, "<script>") || strings.Contains(clean, "onclick") {
		t.Fatalf("sanitizer left active content: %q", clean)
	}
	if !strings.Contains(clean, "<p>Hello</p>") {
		t.Fatalf("sanitizer dropped benign markup: %q", clean)
	}
}
