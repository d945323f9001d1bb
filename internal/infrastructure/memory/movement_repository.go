package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository. El libro es
// append-only: solo agrega al slice y al índice por ID.
type MovementRepo struct {
	db accessor
}

// NewMovementRepository construye el adaptador. Pasar el Store o la tx.
func NewMovementRepository(db accessor) *MovementRepo {
	return &MovementRepo{db: db}
}

// Create agrega un movimiento al libro.
func (r *MovementRepo) Create(movement *entity.MovementRecord) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	return r.db.update(func(t *tables) error {
		m := *movement
		t.movements = append(t.movements, &m)
		t.movementsByID[m.ID] = &m
		return nil
	})
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.MovementRecord, error) {
	var out *entity.MovementRecord
	err := r.db.view(func(t *tables) error {
		if m, ok := t.movementsByID[id]; ok {
			mc := *m
			out = &mc
		}
		return nil
	})
	return out, err
}

// List lista movimientos según filtro, más recientes primero.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	var list []*entity.MovementRecord
	err := r.db.view(func(t *tables) error {
		for _, m := range t.movements {
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
				continue
			}
			if filter.Kind != "" && m.Kind != filter.Kind {
				continue
			}
			if filter.From != nil && m.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.CreatedAt.After(*filter.To) {
				continue
			}
			mc := *m
			list = append(list, &mc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, filter.Limit, filter.Offset), nil
}

// ListByBatch devuelve los movimientos de una carga, en orden de creación.
func (r *MovementRepo) ListByBatch(batchID string) ([]*entity.MovementRecord, error) {
	return r.collect(func(m *entity.MovementRecord) bool { return m.BatchID == batchID })
}

// ListByCorrelation devuelve los movimientos con el CorrelationID dado.
func (r *MovementRepo) ListByCorrelation(correlationID string) ([]*entity.MovementRecord, error) {
	return r.collect(func(m *entity.MovementRecord) bool { return m.CorrelationID == correlationID })
}

// HasReversal indica si ya existe un REVERSAL apuntando al movimiento.
func (r *MovementRepo) HasReversal(movementID string) (bool, error) {
	var found bool
	err := r.db.view(func(t *tables) error {
		for _, m := range t.movements {
			if m.Kind == entity.MovementKindReversal && m.CorrelationID == movementID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// SumDeltas suma los deltas del par (producto, bodega).
func (r *MovementRepo) SumDeltas(productID, warehouseID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.db.view(func(t *tables) error {
		for _, m := range t.movements {
			if m.ProductID == productID && m.WarehouseID == warehouseID {
				sum = sum.Add(m.Delta)
			}
		}
		return nil
	})
	return sum, err
}

func (r *MovementRepo) collect(match func(*entity.MovementRecord) bool) ([]*entity.MovementRecord, error) {
	var list []*entity.MovementRecord
	err := r.db.view(func(t *tables) error {
		for _, m := range t.movements {
			if match(m) {
				mc := *m
				list = append(list, &mc)
			}
		}
		return nil
	})
	return list, err
}
