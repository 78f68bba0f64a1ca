package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
)

type fakePerfumeRepo struct {
	perfumes []domain.PerfumeWithBrand
	gotOpts  query.Options
}

func (f *fakePerfumeRepo) Query(ctx context.Context, opts query.Options) ([]domain.PerfumeWithBrand, query.PageMeta, error) {
	f.gotOpts = opts
	return f.perfumes, query.PageMeta{}, nil
}

func (f *fakePerfumeRepo) GetByID(ctx context.Context, id int64) (domain.PerfumeDetail, error) {
	return domain.PerfumeDetail{}, nil
}

func (f *fakePerfumeRepo) QuerySimilar(ctx context.Context, name string, opts query.Options) (domain.PerfumeRef, []domain.PerfumeWithBrand, query.PageMeta, error) {
	return domain.PerfumeRef{}, nil, query.PageMeta{}, nil
}

func (f *fakePerfumeRepo) QueryByNotes(ctx context.Context, noteIDs []int64, opts query.Options) ([]domain.PerfumeMatch, query.PageMeta, error) {
	return nil, query.PageMeta{}, nil
}

func (f *fakePerfumeRepo) QueryContainingNote(ctx context.Context, noteID int64, opts query.Options) ([]domain.PerfumeWithBrand, query.PageMeta, error) {
	return nil, query.PageMeta{}, nil
}

func (f *fakePerfumeRepo) Create(ctx context.Context, input domain.CreatePerfume) (int64, error) {
	return 0, nil
}

func (f *fakePerfumeRepo) Update(ctx context.Context, id int64, input domain.UpdatePerfume) ([]string, error) {
	return nil, nil
}

func (f *fakePerfumeRepo) DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error) {
	return nil, nil, nil
}

func (f *fakePerfumeRepo) IncrementViewCount(ctx context.Context, id int64) error {
	return nil
}

func TestWriteCatalog(t *testing.T) {
	repo := &fakePerfumeRepo{perfumes: []domain.PerfumeWithBrand{
		{
			Perfume: domain.Perfume{
				ID: 1, Name: "Amber Dusk", Gender: domain.GenderUnisex,
				Type: domain.PerfumeTypeEauDeParfum, Occasion: domain.OccasionNight,
				Price: 450, IsHalal: true,
				Variants: []domain.PerfumeVariant{{Label: "30ml"}, {Label: "100ml"}},
			},
			Brand: &domain.Brand{ID: 10, Name: "Oullu"},
		},
		{
			Perfume: domain.Perfume{ID: 2, Name: "Citrus Morning", Gender: domain.GenderFemale},
		},
	}}
	svc := NewService(repo, zerolog.Nop())

	var buf bytes.Buffer
	if err := svc.WriteCatalog(context.Background(), &buf); err != nil {
		t.Fatalf("WriteCatalog: %v", err)
	}
	if !repo.gotOpts.Limit.Unlimited {
		t.Fatal("export must query the whole catalog")
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(catalogSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus two perfumes", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][2] != "Brand" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "Amber Dusk" || rows[1][2] != "Oullu" {
		t.Fatalf("first row = %v", rows[1])
	}
	if rows[1][8] != "30ml, 100ml" {
		t.Fatalf("variants cell = %q", rows[1][8])
	}
	if rows[2][2] != "" {
		t.Fatalf("brandless perfume should leave the brand cell empty, got %q", rows[2][2])
	}
}
