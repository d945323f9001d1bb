package adjustment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/application/ledger"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// Engine valida y confirma correcciones manuales de stock, individuales o en
// carga, y soporta su anulación. Toda mutación pasa por ledger.Apply dentro
// de una transacción del TxRunner.
type Engine struct {
	tx         ledger.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	batches    repository.BatchRepository
	// allowNegative permite que un ajuste deje stock negativo (flag de
	// configuración para reconciliar conteos históricos).
	allowNegative bool
}

// NewEngine construye el motor de ajustes.
func NewEngine(
	tx ledger.TxRunner,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	batches repository.BatchRepository,
	allowNegative bool,
) *Engine {
	return &Engine{
		tx:            tx,
		products:      products,
		warehouses:    warehouses,
		batches:       batches,
		allowNegative: allowNegative,
	}
}

// AdjustInput entrada para un ajuste manual.
type AdjustInput struct {
	ProductID   string
	WarehouseID string
	Delta       decimal.Decimal
	Reason      string
	ActorID     string
}

// BatchEntry una fila de una carga de ajustes masivos.
type BatchEntry struct {
	ProductID   string
	WarehouseID string
	Delta       decimal.Decimal
	Reason      string
}

// Adjust registra un ajuste manual (kind ADJUSTMENT) sobre un producto/bodega.
func (e *Engine) Adjust(ctx context.Context, in AdjustInput) (*entity.MovementRecord, error) {
	if in.Delta.IsZero() {
		return nil, fmt.Errorf("delta cero: %w", domain.ErrInvalidInput)
	}
	if err := e.checkRefs(in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}

	var mov *entity.MovementRecord
	err := e.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		mov, err = ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Delta:         in.Delta,
			Kind:          entity.MovementKindAdjustment,
			Reason:        in.Reason,
			ActorID:       in.ActorID,
			AllowNegative: e.allowNegative,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyBatch aplica una carga de ajustes como unidad todo-o-nada: si cualquier
// entrada falla la validación, se rechaza la carga completa antes de escribir
// movimiento alguno. Las entradas se aplican en orden de clave (producto,
// bodega) para adquirir bloqueos de forma determinista.
func (e *Engine) ApplyBatch(ctx context.Context, entries []BatchEntry, sourceFileRef, actorID string) (*entity.AdjustmentBatch, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("carga vacía: %w", domain.ErrInvalidInput)
	}
	// Validación completa antes de cualquier escritura
	for i, en := range entries {
		if en.Delta.IsZero() {
			return nil, fmt.Errorf("entrada %d: delta cero: %w", i+1, domain.ErrInvalidInput)
		}
		if err := e.checkRefs(en.ProductID, en.WarehouseID); err != nil {
			return nil, fmt.Errorf("entrada %d: %w", i+1, err)
		}
	}

	sorted := make([]BatchEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].WarehouseID < sorted[j].WarehouseID
	})

	batch := &entity.AdjustmentBatch{
		ID:            uuid.New().String(),
		SourceFileRef: sourceFileRef,
		Status:        entity.BatchStatusApplied,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	}
	err := e.tx.Run(ctx, func(r ledger.Repos) error {
		for _, en := range sorted {
			mov, err := ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
				ProductID:     en.ProductID,
				WarehouseID:   en.WarehouseID,
				Delta:         en.Delta,
				Kind:          entity.MovementKindBulkAdjustment,
				Reason:        en.Reason,
				ActorID:       actorID,
				BatchID:       batch.ID,
				AllowNegative: e.allowNegative,
			})
			if err != nil {
				return err
			}
			batch.MovementIDs = append(batch.MovementIDs, mov.ID)
		}
		return r.Batches.Create(batch)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// RevertBatch revierte una carga en estado APPLIED: un REVERSAL por movimiento
// original con delta negado y CorrelationID apuntando al original. Una carga
// se revierte exactamente una vez; las filas ya anuladas individualmente se
// omiten para no compensarlas dos veces.
func (e *Engine) RevertBatch(ctx context.Context, batchID, actorID string) (*entity.AdjustmentBatch, error) {
	var batch *entity.AdjustmentBatch
	err := e.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		batch, err = r.Batches.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("carga %s: %w", batchID, domain.ErrNotFound)
		}
		if batch.Status != entity.BatchStatusApplied {
			return fmt.Errorf("carga %s: %w", batchID, domain.ErrAlreadyReverted)
		}

		movs, err := r.Movements.ListByBatch(batchID)
		if err != nil {
			return err
		}
		sort.Slice(movs, func(i, j int) bool {
			if movs[i].ProductID != movs[j].ProductID {
				return movs[i].ProductID < movs[j].ProductID
			}
			return movs[i].WarehouseID < movs[j].WarehouseID
		})
		for _, m := range movs {
			reversed, err := r.Movements.HasReversal(m.ID)
			if err != nil {
				return err
			}
			if reversed {
				continue
			}
			if _, err := ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
				ProductID:     m.ProductID,
				WarehouseID:   m.WarehouseID,
				Delta:         m.Delta.Neg(),
				Kind:          entity.MovementKindReversal,
				Reason:        fmt.Sprintf("reversión de carga %s", batchID),
				ActorID:       actorID,
				CorrelationID: m.ID,
				BatchID:       batchID,
				AllowNegative: e.allowNegative,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		batch.Status = entity.BatchStatusReverted
		batch.RevertedBy = actorID
		batch.RevertedAt = &now
		return r.Batches.Update(batch)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// RevertSingle emite un REVERSAL para un movimiento previo de ajuste o merma.
// No se anulan reversiones, movimientos de transferencia (se corrigen
// cancelando o con un ajuste nuevo) ni movimientos ya anulados.
func (e *Engine) RevertSingle(ctx context.Context, movementID, actorID string) (*entity.MovementRecord, error) {
	var rev *entity.MovementRecord
	err := e.tx.Run(ctx, func(r ledger.Repos) error {
		m, err := r.Movements.GetByID(movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("movimiento %s: %w", movementID, domain.ErrNotFound)
		}
		switch m.Kind {
		case entity.MovementKindAdjustment, entity.MovementKindBulkAdjustment, entity.MovementKindShrinkage:
			// anulables
		default:
			return fmt.Errorf("movimiento %s (%s): %w", movementID, m.Kind, domain.ErrNotReversible)
		}
		reversed, err := r.Movements.HasReversal(movementID)
		if err != nil {
			return err
		}
		if reversed {
			return fmt.Errorf("movimiento %s ya anulado: %w", movementID, domain.ErrNotReversible)
		}

		rev, err = ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
			ProductID:     m.ProductID,
			WarehouseID:   m.WarehouseID,
			Delta:         m.Delta.Neg(),
			Kind:          entity.MovementKindReversal,
			Reason:        fmt.Sprintf("anulación de movimiento %s", movementID),
			ActorID:       actorID,
			CorrelationID: m.ID,
			AllowNegative: e.allowNegative,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// checkRefs valida que producto y bodega existan.
func (e *Engine) checkRefs(productID, warehouseID string) error {
	p, err := e.products.GetByID(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	w, err := e.warehouses.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	return nil
}
