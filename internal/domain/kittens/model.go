package kittens

import "time"

// Kitten pertenece a exactamente una camada. OwnerUserID se copia del
// padre al crear y se re-verifica en cada acceso junto con LitterID
// (defensa en profundidad: ambos deben coincidir).
type Kitten struct {
	ID          string
	LitterID    string
	OwnerUserID string

	Name        string
	Gender      string
	Color       string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}
