package kittens

import (
	"context"
	"errors"

	"litter-tracker/internal/domain/ownership"
)

// OwnershipStep expone al gatito como eslabón de la cadena; ParentID es la
// FK a su camada, que el resolver cruza contra el eslabón anterior.
func (s *Service) OwnershipStep() ownership.Step {
	return ownership.Step{
		Name: "kitten",
		Fetch: func(ctx context.Context, id string) (ownership.Resource, error) {
			k, err := s.GetByID(ctx, id)
			if errors.Is(err, ErrNotFound) {
				return ownership.Resource{}, ownership.ErrNotFound
			}
			if err != nil {
				return ownership.Resource{}, err
			}
			return ownership.Resource{ID: k.ID, OwnerID: k.OwnerUserID, ParentID: k.LitterID}, nil
		},
	}
}
