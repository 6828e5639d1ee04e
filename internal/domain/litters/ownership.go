package litters

import (
	"context"
	"errors"

	"litter-tracker/internal/domain/ownership"
)

// OwnershipStep expone la camada como eslabón raíz de la cadena de
// pertenencia. Los módulos hijos (kittens/weights) lo consumen sin
// crear ciclos de imports.
func (s *Service) OwnershipStep() ownership.Step {
	return ownership.Step{
		Name: "litter",
		Fetch: func(ctx context.Context, id string) (ownership.Resource, error) {
			l, err := s.GetByID(ctx, id)
			if errors.Is(err, ErrNotFound) {
				return ownership.Resource{}, ownership.ErrNotFound
			}
			if err != nil {
				return ownership.Resource{}, err
			}
			return ownership.Resource{ID: l.ID, OwnerID: l.OwnerUserID}, nil
		},
	}
}
