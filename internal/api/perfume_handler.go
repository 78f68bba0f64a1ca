package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type variantPayload struct {
	Label     string `json:"label" validate:"required,max=100"`
	Thumbnail string `json:"thumbnail" validate:"required,max=255"`
}

type noteInputPayload struct {
	NoteID int64   `json:"noteId" validate:"required,gt=0"`
	Alias  *string `json:"alias" validate:"omitempty,max=100"`
}

type createPerfumePayload struct {
	ID                 *int64             `json:"id" validate:"omitempty,gt=0"`
	Name               string             `json:"name" validate:"required,max=255"`
	Description        string             `json:"description" validate:"required"`
	Gender             domain.Gender      `json:"gender" validate:"required,oneof=male female unisex"`
	Price              int16              `json:"price" validate:"gte=0"`
	ReleaseDate        *string            `json:"releaseDate" validate:"omitempty,len=10"`
	Variants           []variantPayload   `json:"variants" validate:"required,min=1,dive"`
	BrandID            *int64             `json:"brandId" validate:"omitempty,gt=0"`
	Type               domain.PerfumeType `json:"type" validate:"required,oneof=extrait_de_parfum eau_de_parfum eau_de_toilette eau_de_cologne body_mist oil_perfume solid_perfume"`
	Occasion           domain.Occasion    `json:"occasion" validate:"required,oneof=day night all_day"`
	IsHalal            bool               `json:"isHalal"`
	IsBpomCertified    bool               `json:"isBpomCertified"`
	IsFeatured         bool               `json:"isFeatured"`
	BaseNotes          []noteInputPayload `json:"baseNotes" validate:"dive"`
	MiddleNotes        []noteInputPayload `json:"middleNotes" validate:"dive"`
	TopNotes           []noteInputPayload `json:"topNotes" validate:"dive"`
	UncategorizedNotes []noteInputPayload `json:"uncategorizedNotes" validate:"dive"`
}

type updatePerfumePayload struct {
	Name            *string             `json:"name" validate:"omitempty,max=255"`
	Description     *string             `json:"description"`
	Gender          *domain.Gender      `json:"gender" validate:"omitempty,oneof=male female unisex"`
	Price           *int16              `json:"price" validate:"omitempty,gte=0"`
	ReleaseDate     *string             `json:"releaseDate" validate:"omitempty,len=10"`
	Variants        []variantPayload    `json:"variants" validate:"omitempty,min=1,dive"`
	BrandID         *int64              `json:"brandId" validate:"omitempty,gt=0"`
	Type            *domain.PerfumeType `json:"type" validate:"omitempty,oneof=extrait_de_parfum eau_de_parfum eau_de_toilette eau_de_cologne body_mist oil_perfume solid_perfume"`
	Occasion        *domain.Occasion    `json:"occasion" validate:"omitempty,oneof=day night all_day"`
	IsHalal         *bool               `json:"isHalal"`
	IsBpomCertified *bool               `json:"isBpomCertified"`
	IsFeatured      *bool               `json:"isFeatured"`

	AddedBaseNotes          []noteInputPayload `json:"addedBaseNotes" validate:"dive"`
	AddedMiddleNotes        []noteInputPayload `json:"addedMiddleNotes" validate:"dive"`
	AddedTopNotes           []noteInputPayload `json:"addedTopNotes" validate:"dive"`
	AddedUncategorizedNotes []noteInputPayload `json:"addedUncategorizedNotes" validate:"dive"`

	RemovedBaseNotes          []int64 `json:"removedBaseNotes"`
	RemovedMiddleNotes        []int64 `json:"removedMiddleNotes"`
	RemovedTopNotes           []int64 `json:"removedTopNotes"`
	RemovedUncategorizedNotes []int64 `json:"removedUncategorizedNotes"`
}

func toVariants(payloads []variantPayload) []domain.PerfumeVariant {
	if payloads == nil {
		return nil
	}
	variants := make([]domain.PerfumeVariant, 0, len(payloads))
	for _, p := range payloads {
		variants = append(variants, domain.PerfumeVariant{Label: p.Label, Thumbnail: p.Thumbnail})
	}
	return variants
}

func toNoteInputs(payloads []noteInputPayload) []domain.NoteInput {
	if payloads == nil {
		return nil
	}
	inputs := make([]domain.NoteInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, domain.NoteInput{NoteID: p.NoteID, Alias: p.Alias})
	}
	return inputs
}

func (s *Server) handleListPerfumes(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	perfumes, meta, err := s.deps.Perfumes.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, perfumes, meta)
}

func (s *Server) handleGetPerfume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	perfume, err := s.deps.Perfumes.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, perfume)
}

// handleSimilarPerfumes finds perfumes sharing notes with the perfume whose
// name starts with the query's name parameter. The matched target rides
// along in the response.
func (s *Server) handleSimilarPerfumes(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.renderError(w, r, domain.NewBadRequest("name query parameter is required"))
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	target, perfumes, meta, err := s.deps.Perfumes.QuerySimilar(r.Context(), name, opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, struct {
		Data   any               `json:"data"`
		Target domain.PerfumeRef `json:"target"`
		Meta   any               `json:"meta"`
	}{Data: perfumes, Target: target, Meta: meta})
}

// handlePerfumesByNotes matches perfumes against a comma-separated noteIds
// parameter, scored by popularity.
func (s *Server) handlePerfumesByNotes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("noteIds")
	if raw == "" {
		s.renderError(w, r, domain.NewBadRequest("noteIds query parameter is required"))
		return
	}

	var noteIDs []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			s.renderError(w, r, domain.NewBadRequest("noteIds must be a comma-separated list of positive integers"))
			return
		}
		noteIDs = append(noteIDs, id)
	}

	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	matches, meta, err := s.deps.Perfumes.QueryByNotes(r.Context(), noteIDs, opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, matches, meta)
}

func (s *Server) handlePerfumesContainingNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	perfumes, meta, err := s.deps.Perfumes.QueryContainingNote(r.Context(), noteID, opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, perfumes, meta)
}

func (s *Server) handlePerfumeView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.deps.Perfumes.IncrementViewCount(r.Context(), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePerfume(w http.ResponseWriter, r *http.Request) {
	var payload createPerfumePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.Perfumes.Create(r.Context(), domain.CreatePerfume{
		ID:                 payload.ID,
		Name:               payload.Name,
		Description:        payload.Description,
		Gender:             payload.Gender,
		Price:              payload.Price,
		ReleaseDate:        payload.ReleaseDate,
		Variants:           toVariants(payload.Variants),
		BrandID:            payload.BrandID,
		Type:               payload.Type,
		Occasion:           payload.Occasion,
		IsHalal:            payload.IsHalal,
		IsBpomCertified:    payload.IsBpomCertified,
		IsFeatured:         payload.IsFeatured,
		BaseNotes:          toNoteInputs(payload.BaseNotes),
		MiddleNotes:        toNoteInputs(payload.MiddleNotes),
		TopNotes:           toNoteInputs(payload.TopNotes),
		UncategorizedNotes: toNoteInputs(payload.UncategorizedNotes),
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "perfume", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdatePerfume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updatePerfumePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	removed, err := s.deps.Perfumes.Update(r.Context(), id, domain.UpdatePerfume{
		Name:            payload.Name,
		Description:     payload.Description,
		Gender:          payload.Gender,
		Price:           payload.Price,
		ReleaseDate:     payload.ReleaseDate,
		Variants:        toVariants(payload.Variants),
		BrandID:         payload.BrandID,
		Type:            payload.Type,
		Occasion:        payload.Occasion,
		IsHalal:         payload.IsHalal,
		IsBpomCertified: payload.IsBpomCertified,
		IsFeatured:      payload.IsFeatured,

		AddedBaseNotes:          toNoteInputs(payload.AddedBaseNotes),
		AddedMiddleNotes:        toNoteInputs(payload.AddedMiddleNotes),
		AddedTopNotes:           toNoteInputs(payload.AddedTopNotes),
		AddedUncategorizedNotes: toNoteInputs(payload.AddedUncategorizedNotes),

		RemovedBaseNotes:          payload.RemovedBaseNotes,
		RemovedMiddleNotes:        payload.RemovedMiddleNotes,
		RemovedTopNotes:           payload.RemovedTopNotes,
		RemovedUncategorizedNotes: payload.RemovedUncategorizedNotes,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "perfume", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeletePerfumes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, removed, err := s.deps.Perfumes.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "perfume", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
