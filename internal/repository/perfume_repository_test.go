package repository

import (
	"slices"
	"strings"
	"testing"

	"github.com/dewabisma/parfum-api/internal/domain"
)

func TestNotesTierConditionSingleNote(t *testing.T) {
	cond := notesTierCondition([]int64{7})

	want := "(perfumes.base_notes @> ? OR perfumes.uncategorized_notes @> ?)"
	if cond.SQL != want {
		t.Fatalf("sql = %q, want %q", cond.SQL, want)
	}
	if len(cond.Args) != 2 {
		t.Fatalf("args = %v, want 2", cond.Args)
	}
}

func TestNotesTierConditionTwoNotes(t *testing.T) {
	cond := notesTierCondition([]int64{7, 8})

	if !strings.Contains(cond.SQL, "perfumes.base_notes && ? AND perfumes.middle_notes && ?") {
		t.Fatalf("missing base+middle overlap branch: %q", cond.SQL)
	}
	if strings.Contains(cond.SQL, "top_notes") {
		t.Fatalf("two-note tier must not reach the top collection: %q", cond.SQL)
	}
}

func TestNotesTierConditionThreeNotes(t *testing.T) {
	cond := notesTierCondition([]int64{7, 8, 9})

	if !strings.Contains(cond.SQL, "perfumes.top_notes && ?") {
		t.Fatalf("three-note tier must include the top collection: %q", cond.SQL)
	}
	if !strings.Contains(cond.SQL, "perfumes.uncategorized_notes @> ?") {
		t.Fatalf("uncategorized containment branch missing: %q", cond.SQL)
	}
}

func TestSimilarPerfumeConditionExcludesTarget(t *testing.T) {
	cond := similarPerfumeCondition(99, []int64{1}, []int64{2}, []int64{3, 4})

	if !strings.HasPrefix(cond.SQL, "(perfumes.id <> ?") {
		t.Fatalf("target exclusion must lead the predicate: %q", cond.SQL)
	}
	if cond.Args[0] != int64(99) {
		t.Fatalf("first arg = %v, want target id", cond.Args[0])
	}
	if !strings.Contains(cond.SQL, "HAVING count(*) >= 2") {
		t.Fatalf("uncategorized intersection floor missing: %q", cond.SQL)
	}
}

func TestSimilarPerfumeConditionSentinels(t *testing.T) {
	cond := similarPerfumeCondition(99, nil, nil, nil)

	for _, arg := range cond.Args[1:] {
		noteIDs, ok := arg.([]int64)
		if !ok {
			t.Fatalf("arg %v is not a note id slice", arg)
		}
		if !slices.Equal(noteIDs, []int64{-1}) {
			t.Fatalf("empty collection must use the sentinel, got %v", noteIDs)
		}
	}
}

func TestOrSentinel(t *testing.T) {
	if got := orSentinel(nil); !slices.Equal(got, []int64{-1}) {
		t.Fatalf("orSentinel(nil) = %v", got)
	}
	if got := orSentinel([]int64{5}); !slices.Equal(got, []int64{5}) {
		t.Fatalf("orSentinel([5]) = %v", got)
	}
}

func TestMutateNotes(t *testing.T) {
	got := mutateNotes([]int64{1, 2, 3}, []int64{4}, []int64{2})
	if !slices.Equal(got, []int64{1, 3, 4}) {
		t.Fatalf("mutateNotes = %v, want [1 3 4]", got)
	}
}

func TestMutateNotesEmptiedCollectionBecomesNil(t *testing.T) {
	got := mutateNotes([]int64{1}, nil, []int64{1})
	if got != nil {
		t.Fatalf("mutateNotes = %v, want nil", got)
	}
}

func TestMutateNotesAbsentCollectionStaysAbsent(t *testing.T) {
	got := mutateNotes(nil, nil, []int64{9})
	if got != nil {
		t.Fatalf("mutateNotes = %v, want nil", got)
	}
}

func TestFlattenNoteInputs(t *testing.T) {
	flat := flattenNoteInputs(50,
		[]domain.NoteInput{{NoteID: 1, Alias: strPtr("Kayu Gaharu")}},
		[]domain.NoteInput{{NoteID: 2}},
		nil,
		[]domain.NoteInput{{NoteID: 3}},
	)

	if !slices.Equal(flat.base, []int64{1}) || !slices.Equal(flat.middle, []int64{2}) {
		t.Fatalf("collections = base %v middle %v", flat.base, flat.middle)
	}
	if flat.top != nil {
		t.Fatalf("top = %v, want nil", flat.top)
	}
	if !slices.Equal(flat.all, []int64{1, 2, 3}) {
		t.Fatalf("all = %v, want [1 2 3]", flat.all)
	}
	if len(flat.aliases) != 1 || flat.aliases[0].NoteAlias != "Kayu Gaharu" || flat.aliases[0].PerfumeID != 50 {
		t.Fatalf("aliases = %v", flat.aliases)
	}
}
