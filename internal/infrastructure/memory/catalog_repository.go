package memory

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ProductRepo implementación en memoria de ProductRepository (seed y pruebas).
type ProductRepo struct {
	db accessor
}

// NewProductRepository construye el adaptador.
func NewProductRepository(db accessor) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create registra un producto.
func (r *ProductRepo) Create(p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.db.update(func(t *tables) error {
		for _, existing := range t.products {
			if existing.SKU == p.SKU {
				return fmt.Errorf("producto %s: %w", p.SKU, domain.ErrDuplicate)
			}
		}
		pc := *p
		t.products[pc.ID] = &pc
		return nil
	})
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.view(func(t *tables) error {
		if p, ok := t.products[id]; ok {
			pc := *p
			out = &pc
		}
		return nil
	})
	return out, err
}

// List lista productos por SKU.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.db.view(func(t *tables) error {
		for _, p := range t.products {
			pc := *p
			list = append(list, &pc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return paginate(list, limit, offset), nil
}

// WarehouseRepo implementación en memoria de WarehouseRepository.
type WarehouseRepo struct {
	db accessor
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(db accessor) *WarehouseRepo {
	return &WarehouseRepo{db: db}
}

// Create registra una bodega.
func (r *WarehouseRepo) Create(w *entity.Warehouse) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return r.db.update(func(t *tables) error {
		if _, ok := t.warehouses[w.ID]; ok {
			return fmt.Errorf("bodega %s: %w", w.ID, domain.ErrDuplicate)
		}
		wc := *w
		t.warehouses[wc.ID] = &wc
		return nil
	})
}

// GetByID obtiene una bodega por ID. Devuelve nil si no existe.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.db.view(func(t *tables) error {
		if w, ok := t.warehouses[id]; ok {
			wc := *w
			out = &wc
		}
		return nil
	})
	return out, err
}

// List lista bodegas por nombre.
func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	err := r.db.view(func(t *tables) error {
		for _, w := range t.warehouses {
			wc := *w
			list = append(list, &wc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}
