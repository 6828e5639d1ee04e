package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"litter-tracker/internal/domain/litters"
)

type LittersRepo struct {
	db *sql.DB
}

func NewLittersRepo(db *sql.DB) *LittersRepo {
	return &LittersRepo{db: db}
}

func (r *LittersRepo) Create(ctx context.Context, l litters.Litter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO litters (
			id, owner_user_id,
			name, date_of_birth, mother_name, breed, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		l.ID,
		l.OwnerUserID,
		l.Name,
		l.DateOfBirth,
		l.MotherName,
		l.Breed,
		l.Notes,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

func (r *LittersRepo) GetByID(ctx context.Context, id string) (litters.Litter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return litters.Litter{}, litters.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, date_of_birth, mother_name, breed, notes,
			created_at, updated_at
		FROM litters
		WHERE id = $1
	`, id)

	var l litters.Litter
	if err := row.Scan(
		&l.ID,
		&l.OwnerUserID,
		&l.Name,
		&l.DateOfBirth,
		&l.MotherName,
		&l.Breed,
		&l.Notes,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return litters.Litter{}, litters.ErrNotFound
		}
		return litters.Litter{}, err
	}

	return l, nil
}

// ListByOwner ordena por fecha de creación descendente (las camadas nuevas
// primero).
func (r *LittersRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]litters.Litter, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, date_of_birth, mother_name, breed, notes,
			created_at, updated_at
		FROM litters
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]litters.Litter, 0)
	for rows.Next() {
		var l litters.Litter
		if err := rows.Scan(
			&l.ID,
			&l.OwnerUserID,
			&l.Name,
			&l.DateOfBirth,
			&l.MotherName,
			&l.Breed,
			&l.Notes,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *LittersRepo) Update(ctx context.Context, l litters.Litter) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE litters
		SET
			name = $2,
			date_of_birth = $3,
			mother_name = $4,
			breed = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		l.ID,
		l.Name,
		l.DateOfBirth,
		l.MotherName,
		l.Breed,
		l.Notes,
		l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return litters.ErrNotFound
	}
	return nil
}
