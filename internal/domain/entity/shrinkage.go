package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de merma.
const (
	ShrinkageStatusPending  = "PENDING"  // registrada, pendiente de aprobación, sin efecto en stock
	ShrinkageStatusApproved = "APPROVED" // aprobada: genera el movimiento SHRINKAGE (terminal)
	ShrinkageStatusRejected = "REJECTED" // rechazada, sin efecto en stock (terminal)
)

// ShrinkageRequest solicitud de merma (pérdida/daño) que requiere aprobación
// de un supervisor antes de tocar el libro. PENDING y REJECTED nunca afectan
// el stock.
type ShrinkageRequest struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal // siempre > 0; el movimiento aprobado lleva -Quantity
	Reason      string
	Status      string
	RequestedBy string
	CreatedAt   time.Time
	ResolvedBy  string
	ResolvedAt  *time.Time
	// ResolutionNote motivo del rechazo (auditoría). Vacío en aprobaciones.
	ResolutionNote string
}
