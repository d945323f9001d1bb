package repository

import "github.com/invorya/inventario-ledger/internal/domain/entity"

// TransferRepository define el puerto de persistencia para transferencias
// entre bodegas (cabecera + líneas).
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// GetForUpdate bloquea la transferencia para una transición de estado.
	GetForUpdate(id string) (*entity.Transfer, error)
	Update(transfer *entity.Transfer) error
	// List filtra por estado; status vacío lista todas.
	List(status string, limit, offset int) ([]*entity.Transfer, error)
}
