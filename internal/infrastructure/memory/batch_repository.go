package memory

import (
	"fmt"
	"sort"

	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación en memoria de BatchRepository.
type BatchRepo struct {
	db accessor
}

// NewBatchRepository construye el adaptador. Pasar el Store o la tx.
func NewBatchRepository(db accessor) *BatchRepo {
	return &BatchRepo{db: db}
}

// Create persiste una carga.
func (r *BatchRepo) Create(batch *entity.AdjustmentBatch) error {
	return r.db.update(func(t *tables) error {
		if _, ok := t.batches[batch.ID]; ok {
			return fmt.Errorf("carga %s: %w", batch.ID, domain.ErrDuplicate)
		}
		bc := *batch
		bc.MovementIDs = append([]string(nil), batch.MovementIDs...)
		t.batches[bc.ID] = &bc
		return nil
	})
}

// GetByID obtiene una carga por ID. Devuelve nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.AdjustmentBatch, error) {
	var out *entity.AdjustmentBatch
	err := r.db.view(func(t *tables) error {
		if b, ok := t.batches[id]; ok {
			bc := *b
			bc.MovementIDs = append([]string(nil), b.MovementIDs...)
			out = &bc
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: el semáforo del TxRunner ya
// serializa a los escritores.
func (r *BatchRepo) GetForUpdate(id string) (*entity.AdjustmentBatch, error) {
	return r.GetByID(id)
}

// Update persiste el estado de la carga.
func (r *BatchRepo) Update(batch *entity.AdjustmentBatch) error {
	return r.db.update(func(t *tables) error {
		if _, ok := t.batches[batch.ID]; !ok {
			return fmt.Errorf("carga %s: %w", batch.ID, domain.ErrNotFound)
		}
		bc := *batch
		bc.MovementIDs = append([]string(nil), batch.MovementIDs...)
		t.batches[bc.ID] = &bc
		return nil
	})
}

// List lista cargas, más recientes primero.
func (r *BatchRepo) List(limit, offset int) ([]*entity.AdjustmentBatch, error) {
	var list []*entity.AdjustmentBatch
	err := r.db.view(func(t *tables) error {
		for _, b := range t.batches {
			bc := *b
			bc.MovementIDs = append([]string(nil), b.MovementIDs...)
			list = append(list, &bc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit <= 0 {
		limit = 50
	}
	return paginate(list, limit, offset), nil
}
