package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"litter-tracker/internal/domain/litters"
)

type littersRepo struct {
	s *Store
}

func (r *littersRepo) Create(ctx context.Context, l litters.Litter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.litters[l.ID]; exists {
		return errors.New("litter already exists")
	}
	r.s.litters[l.ID] = l
	return nil
}

func (r *littersRepo) GetByID(ctx context.Context, id string) (litters.Litter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.litters[id]
	if !ok {
		return litters.Litter{}, litters.ErrNotFound
	}
	return l, nil
}

func (r *littersRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]litters.Litter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]litters.Litter, 0)
	for _, l := range r.s.litters {
		if l.OwnerUserID == ownerUserID {
			out = append(out, l)
		}
	}

	// Más reciente primero (contrato de listado).
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *littersRepo) Update(ctx context.Context, l litters.Litter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.litters[l.ID]; !exists {
		return litters.ErrNotFound
	}
	r.s.litters[l.ID] = l
	return nil
}
