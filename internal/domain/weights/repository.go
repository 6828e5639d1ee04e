package weights

import "context"

type Repository interface {
	Create(ctx context.Context, rec WeightRecord) error
	GetByID(ctx context.Context, id string) (WeightRecord, error)
	// ListByKitten ordena por fecha de medición descendente (contrato).
	ListByKitten(ctx context.Context, kittenID, ownerUserID string) ([]WeightRecord, error)
	Update(ctx context.Context, rec WeightRecord) error
	Delete(ctx context.Context, id string) error
}
