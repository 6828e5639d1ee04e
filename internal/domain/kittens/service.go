package kittens

import (
	"context"
	"errors"
	"strings"
	"time"

	"litter-tracker/internal/domain/litters"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("kitten not found")
	ErrNoFields     = errors.New("no fields to update provided")
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
	Name        string
	Gender      string
	Color       string
	Description string
}

// Create asume que el caller ya verificó que ownerUserID es dueño de la
// camada (cadena de padres); acá solo se valida input y se estampa la FK.
func (s *Service) Create(ctx context.Context, ownerUserID, litterID string, in CreateInput) (Kitten, error) {
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(litterID) == "" {
		return Kitten{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Kitten{}, ErrInvalidInput
	}

	now := s.now()
	k := Kitten{
		ID:          uuid.NewString(),
		LitterID:    litterID,
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Gender:      strings.TrimSpace(in.Gender),
		Color:       strings.TrimSpace(in.Color),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, k); err != nil {
		return Kitten{}, err
	}
	return k, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Kitten, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Kitten{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByLitter(ctx context.Context, litterID, ownerUserID string) ([]Kitten, error) {
	return s.repo.ListByLitter(ctx, litterID, ownerUserID)
}

type UpdateInput struct {
	Name        *string
	Gender      *string
	Color       *string
	Description *string
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Gender == nil && in.Color == nil && in.Description == nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Kitten, error) {
	if in.empty() {
		return Kitten{}, ErrNoFields
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Kitten{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Kitten{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.Gender != nil {
		current.Gender = strings.TrimSpace(*in.Gender)
	}
	if in.Color != nil {
		current.Color = strings.TrimSpace(*in.Color)
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Kitten{}, err
	}
	return current, nil
}

// SummariesByLitter implementa litters.KittenSource para embeber los
// gatitos en el detalle de la camada.
func (s *Service) SummariesByLitter(ctx context.Context, litterID, ownerUserID string) ([]litters.KittenSummary, error) {
	items, err := s.repo.ListByLitter(ctx, litterID, ownerUserID)
	if err != nil {
		return nil, err
	}

	out := make([]litters.KittenSummary, 0, len(items))
	for _, k := range items {
		out = append(out, litters.KittenSummary{
			ID:          k.ID,
			Name:        k.Name,
			Gender:      k.Gender,
			Color:       k.Color,
			Description: k.Description,
			CreatedAt:   k.CreatedAt,
			UpdatedAt:   k.UpdatedAt,
		})
	}
	return out, nil
}
