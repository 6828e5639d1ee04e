package litters

import "time"

// Litter representa una camada: el grupo de gatitos nacidos juntos.
// OwnerUserID se fija al crear y no se transfiere nunca.
type Litter struct {
	ID          string
	OwnerUserID string

	Name        string
	DateOfBirth time.Time
	MotherName  string
	Breed       string
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
