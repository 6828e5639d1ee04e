package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"litter-tracker/internal/domain/cascade"
)

// BatchWriter ejecuta los borrados de la cascada dentro de una única
// transacción: o commitea todo o no borra nada.
type BatchWriter struct {
	db *sql.DB
}

func NewBatchWriter(db *sql.DB) *BatchWriter {
	return &BatchWriter{db: db}
}

func (b *BatchWriter) DeleteBatch(ctx context.Context, refs []cascade.Ref) error {
	if len(refs) == 0 {
		return nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, ref := range refs {
		table, err := tableFor(ref.Collection)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, ref.ID); err != nil {
			return fmt.Errorf("delete %s/%s: %w", ref.Collection, ref.ID, err)
		}
	}

	return tx.Commit()
}

func tableFor(c cascade.Collection) (string, error) {
	switch c {
	case cascade.CollectionLitters:
		return "litters", nil
	case cascade.CollectionKittens:
		return "kittens", nil
	case cascade.CollectionWeightRecords:
		return "weight_records", nil
	default:
		return "", fmt.Errorf("unknown collection %q", c)
	}
}
