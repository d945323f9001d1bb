package repository

import "github.com/invorya/inventario-ledger/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// El mantenimiento del catálogo es externo; el motor solo valida referencias.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
