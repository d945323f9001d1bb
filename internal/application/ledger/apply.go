package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// MovementInput entrada para Apply: un evento que afecta el stock de un
// producto en una bodega.
type MovementInput struct {
	ProductID     string
	WarehouseID   string
	Delta         decimal.Decimal
	Kind          string
	Reason        string
	ActorID       string
	CorrelationID string
	BatchID       string
	// AllowNegative permite que el resultado quede por debajo de cero
	// (solo ajustes de reconciliación configurados; nunca transferencias ni mermas).
	AllowNegative bool
}

// Apply es la primitiva única de mutación del libro: bloquea la fila de stock
// (GetForUpdate), verifica que el resultado no quede negativo salvo excepción
// configurada, actualiza la proyección y agrega exactamente un MovementRecord.
// Debe invocarse dentro de una transacción (TxRunner); ambas escrituras se
// confirman o descartan juntas.
//
// Los llamadores que tocan varias parejas (producto, bodega) en una misma
// transacción deben ordenar sus claves (producto, luego bodega) antes de
// llamar a Apply para evitar interbloqueos.
func Apply(movements repository.MovementRepository, stock repository.StockRepository, in MovementInput) (*entity.MovementRecord, error) {
	if in.Delta.IsZero() {
		return nil, fmt.Errorf("delta cero: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidMovementKind(in.Kind) {
		return nil, fmt.Errorf("tipo de movimiento %q: %w", in.Kind, domain.ErrInvalidInput)
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, fmt.Errorf("producto y bodega requeridos: %w", domain.ErrInvalidInput)
	}
	if in.ActorID == "" {
		return nil, fmt.Errorf("actor requerido: %w", domain.ErrInvalidInput)
	}

	// Bloquea la fila de stock para serializar por (producto, bodega)
	level, err := stock.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	newQty := level.Quantity.Add(in.Delta)
	if newQty.IsNegative() && !in.AllowNegative {
		return nil, fmt.Errorf("producto %s en bodega %s (actual %s, delta %s): %w",
			in.ProductID, in.WarehouseID, level.Quantity, in.Delta, domain.ErrInsufficientStock)
	}

	now := time.Now()
	level.Quantity = newQty
	level.UpdatedAt = now
	if err := stock.Upsert(level); err != nil {
		return nil, err
	}

	mov := &entity.MovementRecord{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Kind:          in.Kind,
		Delta:         in.Delta,
		Reason:        in.Reason,
		ActorID:       in.ActorID,
		CorrelationID: in.CorrelationID,
		BatchID:       in.BatchID,
		CreatedAt:     now,
	}
	if err := movements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
