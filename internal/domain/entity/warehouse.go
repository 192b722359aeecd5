package entity

import "time"

// Warehouse representa una ubicación física de almacenamiento.
// Capacity es opcional (nil = sin límite declarado). DeletedAt marca el borrado lógico:
// los movimientos históricos siguen apuntando a la bodega.
type Warehouse struct {
	ID        string
	Name      string
	Capacity  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Active indica si la bodega acepta movimientos.
func (w *Warehouse) Active() bool {
	return w.DeletedAt == nil
}
