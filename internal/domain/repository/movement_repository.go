package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
)

// MovementFilter criterios de consulta para el historial de movimientos.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Kind        string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia para el libro de
// movimientos. El libro es append-only: no existen operaciones de
// actualización ni borrado.
type MovementRepository interface {
	Create(movement *entity.MovementRecord) error
	GetByID(id string) (*entity.MovementRecord, error)
	List(filter MovementFilter) ([]*entity.MovementRecord, error)
	// ListByBatch devuelve los movimientos de una carga, en orden de creación.
	ListByBatch(batchID string) ([]*entity.MovementRecord, error)
	// ListByCorrelation devuelve los movimientos cuyo CorrelationID es el dado
	// (p.ej. los TRANSFER_OUT de una transferencia).
	ListByCorrelation(correlationID string) ([]*entity.MovementRecord, error)
	// HasReversal indica si ya existe un REVERSAL apuntando al movimiento.
	HasReversal(movementID string) (bool, error)
	// SumDeltas suma los deltas del par (producto, bodega); debe coincidir con
	// StockLevel.Quantity (verificación de consistencia).
	SumDeltas(productID, warehouseID string) (decimal.Decimal, error)
}
