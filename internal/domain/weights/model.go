package weights

import "time"

// WeightRecord es una medición fechada de un gatito, con foto opcional.
// WeightInGrams es estrictamente positivo (invariante validado en el service).
type WeightRecord struct {
	ID          string
	KittenID    string
	OwnerUserID string

	DateRecorded  time.Time
	WeightInGrams float64
	Notes         string
	PhotoURL      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
