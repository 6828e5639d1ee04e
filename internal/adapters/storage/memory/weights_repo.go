package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"litter-tracker/internal/domain/weights"
)

type weightsRepo struct {
	s *Store
}

func (r *weightsRepo) Create(ctx context.Context, rec weights.WeightRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.weights[rec.ID]; exists {
		return errors.New("weight record already exists")
	}
	r.s.weights[rec.ID] = rec
	return nil
}

func (r *weightsRepo) GetByID(ctx context.Context, id string) (weights.WeightRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.weights[id]
	if !ok {
		return weights.WeightRecord{}, weights.ErrNotFound
	}
	return rec, nil
}

func (r *weightsRepo) ListByKitten(ctx context.Context, kittenID, ownerUserID string) ([]weights.WeightRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]weights.WeightRecord, 0)
	for _, rec := range r.s.weights {
		if rec.KittenID == kittenID && rec.OwnerUserID == ownerUserID {
			out = append(out, rec)
		}
	}

	// Fecha de medición descendente (contrato de listado).
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateRecorded.After(out[j].DateRecorded)
	})

	return out, nil
}

func (r *weightsRepo) Update(ctx context.Context, rec weights.WeightRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.weights[rec.ID]; !exists {
		return weights.ErrNotFound
	}
	r.s.weights[rec.ID] = rec
	return nil
}

func (r *weightsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.weights[id]; !exists {
		return weights.ErrNotFound
	}
	delete(r.s.weights, id)
	return nil
}

// WeightIDsByKittens implementa cascade.WeightIDLister para una tanda
// de hasta cascade.MembershipQueryLimit IDs.
func (r *weightsRepo) WeightIDsByKittens(ctx context.Context, kittenIDs []string, ownerUserID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	member := make(map[string]struct{}, len(kittenIDs))
	for _, id := range kittenIDs {
		member[id] = struct{}{}
	}

	ids := make([]string, 0)
	for _, rec := range r.s.weights {
		if rec.OwnerUserID != ownerUserID {
			continue
		}
		if _, ok := member[rec.KittenID]; ok {
			ids = append(ids, rec.ID)
		}
	}
	return ids, nil
}
