package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"litter-tracker/internal/domain/weights"
)

type WeightsRepo struct {
	db *sql.DB
}

func NewWeightsRepo(db *sql.DB) *WeightsRepo {
	return &WeightsRepo{db: db}
}

func (r *WeightsRepo) Create(ctx context.Context, rec weights.WeightRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_records (
			id, kitten_id, owner_user_id,
			date_recorded, weight_in_grams, notes, photo_url,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		rec.ID,
		rec.KittenID,
		rec.OwnerUserID,
		rec.DateRecorded,
		rec.WeightInGrams,
		rec.Notes,
		rec.PhotoURL,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *WeightsRepo) GetByID(ctx context.Context, id string) (weights.WeightRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return weights.WeightRecord{}, weights.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, kitten_id, owner_user_id,
			date_recorded, weight_in_grams, notes, photo_url,
			created_at, updated_at
		FROM weight_records
		WHERE id = $1
	`, id)

	var rec weights.WeightRecord
	if err := row.Scan(
		&rec.ID,
		&rec.KittenID,
		&rec.OwnerUserID,
		&rec.DateRecorded,
		&rec.WeightInGrams,
		&rec.Notes,
		&rec.PhotoURL,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return weights.WeightRecord{}, weights.ErrNotFound
		}
		return weights.WeightRecord{}, err
	}

	return rec, nil
}

// ListByKitten ordena por fecha de medición descendente (la medición más
// reciente primero).
func (r *WeightsRepo) ListByKitten(ctx context.Context, kittenID, ownerUserID string) ([]weights.WeightRecord, error) {
	kittenID = strings.TrimSpace(kittenID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if kittenID == "" || ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, kitten_id, owner_user_id,
			date_recorded, weight_in_grams, notes, photo_url,
			created_at, updated_at
		FROM weight_records
		WHERE kitten_id = $1 AND owner_user_id = $2
		ORDER BY date_recorded DESC
	`, kittenID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]weights.WeightRecord, 0)
	for rows.Next() {
		var rec weights.WeightRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.KittenID,
			&rec.OwnerUserID,
			&rec.DateRecorded,
			&rec.WeightInGrams,
			&rec.Notes,
			&rec.PhotoURL,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (r *WeightsRepo) Update(ctx context.Context, rec weights.WeightRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE weight_records
		SET
			date_recorded = $2,
			weight_in_grams = $3,
			notes = $4,
			photo_url = $5,
			updated_at = $6
		WHERE id = $1
	`,
		rec.ID,
		rec.DateRecorded,
		rec.WeightInGrams,
		rec.Notes,
		rec.PhotoURL,
		rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return weights.ErrNotFound
	}
	return nil
}

func (r *WeightsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weight_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return weights.ErrNotFound
	}
	return nil
}

// WeightIDsByKittens alimenta el borrado en cascada: IDs de registros cuyos
// gatitos están en kittenIDs. El caller ya particionó kittenIDs en tandas.
func (r *WeightsRepo) WeightIDsByKittens(ctx context.Context, kittenIDs []string, ownerUserID string) ([]string, error) {
	if len(kittenIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(kittenIDs))
	args := make([]any, 0, len(kittenIDs)+1)
	for i, id := range kittenIDs {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}
	args = append(args, ownerUserID)

	query := fmt.Sprintf(`
		SELECT id
		FROM weight_records
		WHERE kitten_id IN (%s) AND owner_user_id = $%d
	`, strings.Join(placeholders, ","), len(kittenIDs)+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
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
