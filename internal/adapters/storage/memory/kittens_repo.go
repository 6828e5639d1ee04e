package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"litter-tracker/internal/domain/kittens"
)

type kittensRepo struct {
	s *Store
}

func (r *kittensRepo) Create(ctx context.Context, k kittens.Kitten) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(k.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.kittens[k.ID]; exists {
		return errors.New("kitten already exists")
	}
	r.s.kittens[k.ID] = k
	return nil
}

func (r *kittensRepo) GetByID(ctx context.Context, id string) (kittens.Kitten, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	k, ok := r.s.kittens[id]
	if !ok {
		return kittens.Kitten{}, kittens.ErrNotFound
	}
	return k, nil
}

func (r *kittensRepo) ListByLitter(ctx context.Context, litterID, ownerUserID string) ([]kittens.Kitten, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]kittens.Kitten, 0)
	for _, k := range r.s.kittens {
		if k.LitterID == litterID && k.OwnerUserID == ownerUserID {
			out = append(out, k)
		}
	}

	// Orden de creación ascendente (contrato de listado).
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *kittensRepo) Update(ctx context.Context, k kittens.Kitten) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(k.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.kittens[k.ID]; !exists {
		return kittens.ErrNotFound
	}
	r.s.kittens[k.ID] = k
	return nil
}

// KittenIDsByLitter implementa cascade.KittenIDLister.
func (r *kittensRepo) KittenIDsByLitter(ctx context.Context, litterID, ownerUserID string) ([]string, error) {
	items, err := r.ListByLitter(ctx, litterID, ownerUserID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, k := range items {
		ids = append(ids, k.ID)
	}
	return ids, nil
}
