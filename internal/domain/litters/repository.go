package litters

import "context"

type Repository interface {
	Create(ctx context.Context, l Litter) error
	GetByID(ctx context.Context, id string) (Litter, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Litter, error)
	Update(ctx context.Context, l Litter) error
}
