package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"litter-tracker/internal/domain/kittens"
)

type KittensRepo struct {
	db *sql.DB
}

func NewKittensRepo(db *sql.DB) *KittensRepo {
	return &KittensRepo{db: db}
}

func (r *KittensRepo) Create(ctx context.Context, k kittens.Kitten) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kittens (
			id, litter_id, owner_user_id,
			name, gender, color, description,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		k.ID,
		k.LitterID,
		k.OwnerUserID,
		k.Name,
		k.Gender,
		k.Color,
		k.Description,
		k.CreatedAt,
		k.UpdatedAt,
	)
	return err
}

func (r *KittensRepo) GetByID(ctx context.Context, id string) (kittens.Kitten, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return kittens.Kitten{}, kittens.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, litter_id, owner_user_id,
			name, gender, color, description,
			created_at, updated_at
		FROM kittens
		WHERE id = $1
	`, id)

	var k kittens.Kitten
	if err := row.Scan(
		&k.ID,
		&k.LitterID,
		&k.OwnerUserID,
		&k.Name,
		&k.Gender,
		&k.Color,
		&k.Description,
		&k.CreatedAt,
		&k.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kittens.Kitten{}, kittens.ErrNotFound
		}
		return kittens.Kitten{}, err
	}

	return k, nil
}

// ListByLitter filtra por camada y dueño (chequeo redundante deliberado),
// ordenado por fecha de creación ascendente.
func (r *KittensRepo) ListByLitter(ctx context.Context, litterID, ownerUserID string) ([]kittens.Kitten, error) {
	litterID = strings.TrimSpace(litterID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if litterID == "" || ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, litter_id, owner_user_id,
			name, gender, color, description,
			created_at, updated_at
		FROM kittens
		WHERE litter_id = $1 AND owner_user_id = $2
		ORDER BY created_at ASC
	`, litterID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]kittens.Kitten, 0)
	for rows.Next() {
		var k kittens.Kitten
		if err := rows.Scan(
			&k.ID,
			&k.LitterID,
			&k.OwnerUserID,
			&k.Name,
			&k.Gender,
			&k.Color,
			&k.Description,
			&k.CreatedAt,
			&k.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, k)
	}

	return out, rows.Err()
}

func (r *KittensRepo) Update(ctx context.Context, k kittens.Kitten) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE kittens
		SET
			name = $2,
			gender = $3,
			color = $4,
			description = $5,
			updated_at = $6
		WHERE id = $1
	`,
		k.ID,
		k.Name,
		k.Gender,
		k.Color,
		k.Description,
		k.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return kittens.ErrNotFound
	}
	return nil
}

// KittenIDsByLitter alimenta el borrado en cascada: solo los IDs.
func (r *KittensRepo) KittenIDsByLitter(ctx context.Context, litterID, ownerUserID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id
		FROM kittens
		WHERE litter_id = $1 AND owner_user_id = $2
	`, litterID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}

	return out, rows.Err()
}
