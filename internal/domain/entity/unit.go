package entity

import "time"

// UnitDefinition representa una unidad de conteo (ej. "caja x12") y su factor hacia la unidad atómica.
// La unidad base (pieza) tiene Multiplier == 1 y es única en el catálogo.
type UnitDefinition struct {
	ID         string
	Name       string
	Multiplier int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsBase indica si es la unidad atómica del catálogo.
func (u *UnitDefinition) IsBase() bool {
	return u.Multiplier == 1
}
