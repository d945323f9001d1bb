package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindAdjustment     = "ADJUSTMENT"      // ajuste manual
	MovementKindBulkAdjustment = "BULK_ADJUSTMENT" // ajuste masivo (carga)
	MovementKindTransferOut    = "TRANSFER_OUT"    // salida por transferencia (bodega origen)
	MovementKindTransferIn     = "TRANSFER_IN"     // entrada por transferencia (bodega destino)
	MovementKindShrinkage      = "SHRINKAGE"       // merma aprobada
	MovementKindReversal       = "REVERSAL"        // anulación/compensación de un movimiento previo
)

// ValidMovementKind indica si el tipo pertenece al catálogo de movimientos.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindAdjustment, MovementKindBulkAdjustment,
		MovementKindTransferOut, MovementKindTransferIn,
		MovementKindShrinkage, MovementKindReversal:
		return true
	}
	return false
}

// MovementRecord es un hecho inmutable del libro de inventario: un evento que
// afectó el stock de un producto en una bodega. Nunca se actualiza ni se borra;
// las correcciones son nuevos registros REVERSAL enlazados por CorrelationID.
type MovementRecord struct {
	ID          string
	ProductID   string
	WarehouseID string
	Kind        string
	Delta       decimal.Decimal // positivo entrada, negativo salida
	Reason      string
	ActorID     string
	// CorrelationID enlaza un TRANSFER_OUT con su transferencia, un TRANSFER_IN
	// con su TRANSFER_OUT correspondiente, una merma con su solicitud y un
	// REVERSAL con el movimiento que anula.
	CorrelationID string
	// BatchID agrupa los movimientos de una carga masiva. Vacío si no aplica.
	BatchID   string
	CreatedAt time.Time
}
