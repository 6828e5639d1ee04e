package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"litter-tracker/internal/domain/cascade"
	"litter-tracker/internal/domain/kittens"
	"litter-tracker/internal/domain/litters"
	"litter-tracker/internal/domain/weights"
)

// Store guarda las tres colecciones bajo un único mutex para que
// DeleteBatch sea realmente todo-o-nada (dev y tests).
type Store struct {
	mu         sync.RWMutex
	litters    map[string]litters.Litter
	kittens    map[string]kittens.Kitten
	weights    map[string]weights.WeightRecord
	failDelete map[cascade.Ref]bool
}

func NewStore() *Store {
	return &Store{
		litters:    make(map[string]litters.Litter),
		kittens:    make(map[string]kittens.Kitten),
		weights:    make(map[string]weights.WeightRecord),
		failDelete: make(map[cascade.Ref]bool),
	}
}

func (s *Store) Litters() litters.Repository { return &littersRepo{s: s} }
func (s *Store) Kittens() kittens.Repository { return &kittensRepo{s: s} }
func (s *Store) Weights() weights.Repository { return &weightsRepo{s: s} }

// KittensIDs / WeightsIDs exponen los listers que usa cascade.
func (s *Store) KittensIDs() cascade.KittenIDLister { return &kittensRepo{s: s} }
func (s *Store) WeightsIDs() cascade.WeightIDLister { return &weightsRepo{s: s} }

// FailDeleteOf hace que el próximo DeleteBatch que incluya esa ref falle
// entero sin borrar nada. Solo para tests (fallas simuladas de commit).
func (s *Store) FailDeleteOf(col cascade.Collection, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete[cascade.Ref{Collection: col, ID: id}] = true
}

// DeleteBatch implementa cascade.BatchWriter: valida todo el batch antes
// de tocar los mapas, así una falla no deja borrados parciales.
func (s *Store) DeleteBatch(ctx context.Context, refs []cascade.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ref := range refs {
		if s.failDelete[ref] {
			return fmt.Errorf("memory: injected batch failure at %s/%s", ref.Collection, ref.ID)
		}
		switch ref.Collection {
		case cascade.CollectionLitters, cascade.CollectionKittens, cascade.CollectionWeightRecords:
		default:
			return fmt.Errorf("memory: unknown collection %q", ref.Collection)
		}
	}

	for _, ref := range refs {
		switch ref.Collection {
		case cascade.CollectionLitters:
			delete(s.litters, ref.ID)
		case cascade.CollectionKittens:
			delete(s.kittens, ref.ID)
		case cascade.CollectionWeightRecords:
			delete(s.weights, ref.ID)
		}
	}
	return nil
}

var errIDRequired = errors.New("id required")
