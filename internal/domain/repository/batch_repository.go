package repository

import "github.com/invorya/inventario-ledger/internal/domain/entity"

// BatchRepository define el puerto de persistencia para cargas de ajustes masivos.
type BatchRepository interface {
	Create(batch *entity.AdjustmentBatch) error
	GetByID(id string) (*entity.AdjustmentBatch, error)
	// GetForUpdate bloquea la carga para revertirla (evita doble reversión concurrente).
	GetForUpdate(id string) (*entity.AdjustmentBatch, error)
	Update(batch *entity.AdjustmentBatch) error
	List(limit, offset int) ([]*entity.AdjustmentBatch, error)
}
