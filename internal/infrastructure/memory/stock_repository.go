package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación en memoria de StockRepository.
type StockRepo struct {
	db accessor
}

// NewStockRepository construye el adaptador. Pasar el Store o la tx.
func NewStockRepository(db accessor) *StockRepo {
	return &StockRepo{db: db}
}

// Get obtiene el stock actual; fila base en cero si nunca hubo movimientos.
func (r *StockRepo) Get(productID, warehouseID string) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.db.view(func(t *tables) error {
		if s, ok := t.stock[stockKey(productID, warehouseID)]; ok {
			sc := *s
			out = &sc
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
	}
	return out, nil
}

// GetForUpdate en memoria equivale a Get: el semáforo del TxRunner ya
// serializa a los escritores, por lo que no hay fila que bloquear.
func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error) {
	return r.Get(productID, warehouseID)
}

// Upsert inserta o actualiza la cantidad en stock (por producto y bodega).
func (r *StockRepo) Upsert(stock *entity.StockLevel) error {
	return r.db.update(func(t *tables) error {
		s := *stock
		s.UpdatedAt = time.Now()
		t.stock[stockKey(s.ProductID, s.WarehouseID)] = &s
		return nil
	})
}

// List devuelve los niveles de stock; warehouseID vacío lista todas las bodegas.
func (r *StockRepo) List(warehouseID string, limit, offset int) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	err := r.db.view(func(t *tables) error {
		for _, s := range t.stock {
			if warehouseID != "" && s.WarehouseID != warehouseID {
				continue
			}
			sc := *s
			list = append(list, &sc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].WarehouseID != list[j].WarehouseID {
			return list[i].WarehouseID < list[j].WarehouseID
		}
		return list[i].ProductID < list[j].ProductID
	})
	return paginate(list, limit, offset), nil
}
