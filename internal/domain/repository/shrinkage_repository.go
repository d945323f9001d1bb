package repository

import "github.com/invorya/inventario-ledger/internal/domain/entity"

// ShrinkageRepository define el puerto de persistencia para solicitudes de merma.
type ShrinkageRepository interface {
	Create(request *entity.ShrinkageRequest) error
	GetByID(id string) (*entity.ShrinkageRequest, error)
	// GetForUpdate bloquea la solicitud para aprobarla o rechazarla.
	GetForUpdate(id string) (*entity.ShrinkageRequest, error)
	Update(request *entity.ShrinkageRequest) error
	// List filtra por estado; status vacío lista todas.
	List(status string, limit, offset int) ([]*entity.ShrinkageRequest, error)
}
