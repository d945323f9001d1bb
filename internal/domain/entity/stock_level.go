package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel representa el stock actual de un producto en una bodega.
// Es una proyección materializada del libro de movimientos: su cantidad debe
// ser siempre igual a la suma de los deltas de MovementRecord para el par
// (producto, bodega). Solo se escribe junto con un movimiento, en la misma
// transacción.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
