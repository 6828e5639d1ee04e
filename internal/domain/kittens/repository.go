package kittens

import "context"

type Repository interface {
	Create(ctx context.Context, k Kitten) error
	GetByID(ctx context.Context, id string) (Kitten, error)
	// ListByLitter filtra por dueño además de por camada (chequeo redundante
	// deliberado) y ordena por fecha de creación ascendente.
	ListByLitter(ctx context.Context, litterID, ownerUserID string) ([]Kitten, error)
	Update(ctx context.Context, k Kitten) error
}
