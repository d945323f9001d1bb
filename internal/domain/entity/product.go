package entity

import "time"

// Product representa un producto o SKU del inventario. El catálogo completo
// vive en otro sistema; aquí solo se necesita la identidad para validar
// referencias de movimientos.
type Product struct {
	ID        string
	SKU       string
	Name      string
	CreatedAt time.Time
}
