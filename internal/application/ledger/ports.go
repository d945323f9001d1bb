package ledger

import (
	"context"

	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Movements  repository.MovementRepository
	Stock      repository.StockRepository
	Transfers  repository.TransferRepository
	Shrinkages repository.ShrinkageRepository
	Batches    repository.BatchRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: si fn
// devuelve error no queda ninguna escritura visible (rollback), y las esperas
// por bloqueos de fila están acotadas (domain.ErrContentionTimeout).
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
