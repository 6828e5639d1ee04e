package weights

import (
	"context"
	"errors"
	"strings"
	"time"

	"litter-tracker/internal/domain/kittens"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidWeight = errors.New("weight must be a positive number")
	ErrNotFound      = errors.New("weight record not found")
	ErrNoFields      = errors.New("no fields to update provided")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	DateRecorded  time.Time
	WeightInGrams float64
	Notes         string
	PhotoURL      string
}

// Create valida antes de tocar storage: peso <= 0 nunca se persiste.
// PhotoURL ya viene resuelta (la subida al blob store ocurre antes,
// en el handler; acá el registro se escribe recién con la URL final).
func (s *Service) Create(ctx context.Context, ownerUserID, kittenID string, in CreateInput) (WeightRecord, error) {
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(kittenID) == "" {
		return WeightRecord{}, ErrInvalidInput
	}
	if in.DateRecorded.IsZero() {
		return WeightRecord{}, ErrInvalidInput
	}
	if in.WeightInGrams <= 0 {
		return WeightRecord{}, ErrInvalidWeight
	}

	now := s.now()
	rec := WeightRecord{
		ID:            uuid.NewString(),
		KittenID:      kittenID,
		OwnerUserID:   ownerUserID,
		DateRecorded:  in.DateRecorded,
		WeightInGrams: in.WeightInGrams,
		Notes:         strings.TrimSpace(in.Notes),
		PhotoURL:      in.PhotoURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return WeightRecord{}, err
	}
	return rec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (WeightRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return WeightRecord{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByKitten(ctx context.Context, kittenID, ownerUserID string) ([]WeightRecord, error) {
	return s.repo.ListByKitten(ctx, kittenID, ownerUserID)
}

type UpdateInput struct {
	DateRecorded  *time.Time
	WeightInGrams *float64
	Notes         *string
}

func (in UpdateInput) empty() bool {
	return in.DateRecorded == nil && in.WeightInGrams == nil && in.Notes == nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (WeightRecord, error) {
	if in.empty() {
		return WeightRecord{}, ErrNoFields
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return WeightRecord{}, err
	}

	if in.DateRecorded != nil {
		if in.DateRecorded.IsZero() {
			return WeightRecord{}, ErrInvalidInput
		}
		current.DateRecorded = *in.DateRecorded
	}
	if in.WeightInGrams != nil {
		// El peso se re-valida también en updates.
		if *in.WeightInGrams <= 0 {
			return WeightRecord{}, ErrInvalidWeight
		}
		current.WeightInGrams = *in.WeightInGrams
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return WeightRecord{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// SummariesByKitten implementa kittens.WeightSource para embeber las
// mediciones en el detalle del gatito.
func (s *Service) SummariesByKitten(ctx context.Context, kittenID, ownerUserID string) ([]kittens.WeightSummary, error) {
	items, err := s.repo.ListByKitten(ctx, kittenID, ownerUserID)
	if err != nil {
		return nil, err
	}

	out := make([]kittens.WeightSummary, 0, len(items))
	for _, rec := range items {
		out = append(out, kittens.WeightSummary{
			ID:            rec.ID,
			DateRecorded:  rec.DateRecorded,
			WeightInGrams: rec.WeightInGrams,
			Notes:         rec.Notes,
			PhotoURL:      rec.PhotoURL,
			CreatedAt:     rec.CreatedAt,
			UpdatedAt:     rec.UpdatedAt,
		})
	}
	return out, nil
}
