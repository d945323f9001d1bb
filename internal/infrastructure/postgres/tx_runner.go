package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/inventario-ledger/internal/application/ledger"
	"github.com/invorya/inventario-ledger/internal/domain"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con espera
// acotada por bloqueos de fila (lock_timeout). Es la realización relacional
// de la serialización por (producto, bodega): los SELECT ... FOR UPDATE de los
// repositorios serializan a los escritores por clave, y el lock_timeout
// convierte la contención excesiva en domain.ErrContentionTimeout sin dejar
// escrituras parciales.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool y el límite de espera por bloqueo.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 3000
	}
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Si fn falla por lock_timeout, devuelve
// domain.ErrContentionTimeout para que el llamador pueda reintentar.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	repos := ledger.Repos{
		Movements:  NewMovementRepository(tx),
		Stock:      NewStockRepository(tx),
		Transfers:  NewTransferRepository(tx),
		Shrinkages: NewShrinkageRepository(tx),
		Batches:    NewBatchRepository(tx),
	}

	if err := fn(repos); err != nil {
		if isLockNotAvailable(err) {
			return fmt.Errorf("%v: %w", err, domain.ErrContentionTimeout)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
