package litters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("litter not found")
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
	DateOfBirth time.Time
	MotherName  string
	Breed       string
	Notes       string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Litter, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Litter{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Litter{}, ErrInvalidInput
	}
	if in.DateOfBirth.IsZero() {
		return Litter{}, ErrInvalidInput
	}

	now := s.now()
	l := Litter{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		DateOfBirth: in.DateOfBirth,
		MotherName:  strings.TrimSpace(in.MotherName),
		Breed:       strings.TrimSpace(in.Breed),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Litter{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Litter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Litter{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListByOwner devuelve las camadas del dueño, más reciente primero.
// El orden lo garantiza el repositorio (es contrato, no casualidad).
func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Litter, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// UpdateInput usa punteros para updates parciales: nil = no tocar.
type UpdateInput struct {
	Name        *string
	DateOfBirth *time.Time
	MotherName  *string
	Breed       *string
	Notes       *string
}

func (in UpdateInput) empty() bool {
	return in.Name == nil &&
		in.DateOfBirth == nil &&
		in.MotherName == nil &&
		in.Breed == nil &&
		in.Notes == nil
}

// Update aplica solo los campos provistos. Un update que solo movería
// el timestamp se rechaza con ErrNoFields.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Litter, error) {
	if in.empty() {
		return Litter{}, ErrNoFields
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Litter{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Litter{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.DateOfBirth != nil {
		if in.DateOfBirth.IsZero() {
			return Litter{}, ErrInvalidInput
		}
		current.DateOfBirth = *in.DateOfBirth
	}
	if in.MotherName != nil {
		current.MotherName = strings.TrimSpace(*in.MotherName)
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Litter{}, err
	}
	return current, nil
}
