package weights

import (
	"context"
	"errors"

	"litter-tracker/internal/domain/ownership"
)

func (s *Service) OwnershipStep() ownership.Step {
	return ownership.Step{
		Name: "weight record",
		Fetch: func(ctx context.Context, id string) (ownership.Resource, error) {
			rec, err := s.GetByID(ctx, id)
			if errors.Is(err, ErrNotFound) {
				return ownership.Resource{}, ownership.ErrNotFound
			}
			if err != nil {
				return ownership.Resource{}, err
			}
			return ownership.Resource{ID: rec.ID, OwnerID: rec.OwnerUserID, ParentID: rec.KittenID}, nil
		},
	}
}
