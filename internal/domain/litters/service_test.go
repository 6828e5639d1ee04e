package litters

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Litter
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Litter{}}
}

func (r *testRepo) Create(ctx context.Context, l Litter) error {
	if l.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[l.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Litter, error) {
	l, ok := r.byID[id]
	if !ok {
		return Litter{}, ErrNotFound
	}
	return l, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Litter, error) {
	out := make([]Litter, 0)
	for _, l := range r.byID {
		if l.OwnerUserID == ownerUserID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, l Litter) error {
	if _, ok := r.byID[l.ID]; !ok {
		return ErrNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func dob(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return d
}

func TestCreate_RequiresNameAndDate(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{DateOfBirth: dob(t, "2026-05-01")}},
		{"blank name", CreateInput{Name: "   ", DateOfBirth: dob(t, "2026-05-01")}},
		{"missing date", CreateInput{Name: "Litter A"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "owner-1", tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := svc.Create(ctx, "", CreateInput{Name: "A", DateOfBirth: dob(t, "2026-05-01")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without owner, got %v", err)
	}
}

func TestCreate_TrimsAndStampsOwner(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	l, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:        "  Litter A  ",
		DateOfBirth: dob(t, "2026-05-01"),
		MotherName:  " Luna ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Name != "Litter A" || l.MotherName != "Luna" {
		t.Fatalf("expected trimmed fields, got %+v", l)
	}
	if l.OwnerUserID != "owner-1" {
		t.Fatalf("expected owner stamped, got %q", l.OwnerUserID)
	}
	if l.ID == "" || l.CreatedAt.IsZero() || !l.CreatedAt.Equal(l.UpdatedAt) {
		t.Fatalf("expected id + matching timestamps, got %+v", l)
	}
}

func TestUpdate_PartialOnlyTouchesProvidedFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, "owner-1", CreateInput{
		Name:        "Litter A",
		DateOfBirth: dob(t, "2026-05-01"),
		MotherName:  "Luna",
		Breed:       "siamese",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Litter A2"
	updated, err := svc.Update(ctx, l.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Litter A2" {
		t.Fatalf("expected new name, got %q", updated.Name)
	}
	if updated.MotherName != "Luna" || updated.Breed != "siamese" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Fatalf("updatedAt went backwards: %+v", updated)
	}
}

func TestUpdate_EmptyInputRejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	l, _ := svc.Create(ctx, "owner-1", CreateInput{
		Name:        "Litter A",
		DateOfBirth: dob(t, "2026-05-01"),
	})

	// Sin campos => ErrNoFields, y sin tocar el repo
	before := repo.byID[l.ID]
	if _, err := svc.Update(ctx, l.ID, UpdateInput{}); !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
	if repo.byID[l.ID] != before {
		t.Fatalf("empty update mutated record")
	}

	// Name explícito pero en blanco => inválido
	blank := "   "
	if _, err := svc.Update(ctx, l.ID, UpdateInput{Name: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput blank name, got %v", err)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	svc := NewService(newTestRepo())

	name := "X"
	if _, err := svc.Update(context.Background(), "nope", UpdateInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
