package memory

import (
	"context"
	"time"

	"github.com/invorya/inventario-ledger/internal/application/ledger"
	"github.com/invorya/inventario-ledger/internal/domain"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner realización en memoria de ledger.TxRunner. Un semáforo de escritor
// único cumple el mismo papel que los SELECT ... FOR UPDATE relacionales: las
// transacciones se serializan y la espera por el semáforo está acotada; si se
// agota devuelve domain.ErrContentionTimeout sin tocar el estado.
type TxRunner struct {
	store         *Store
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el límite de espera por el semáforo.
func NewTxRunner(store *Store, lockTimeoutMS int) *TxRunner {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 3000
	}
	return &TxRunner{store: store, lockTimeoutMS: lockTimeoutMS}
}

// Run ejecuta fn sobre una copia privada del estado y publica la copia solo si
// fn no devuelve error. Un error descarta la copia: rollback sin escrituras
// parciales.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	timer := time.NewTimer(time.Duration(r.lockTimeoutMS) * time.Millisecond)
	defer timer.Stop()
	select {
	case r.store.writeSem <- struct{}{}:
	case <-timer.C:
		return domain.ErrContentionTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-r.store.writeSem }()

	r.store.mu.RLock()
	work := r.store.data.clone()
	r.store.mu.RUnlock()

	tx := &txView{t: work}
	repos := ledger.Repos{
		Movements:  NewMovementRepository(tx),
		Stock:      NewStockRepository(tx),
		Transfers:  NewTransferRepository(tx),
		Shrinkages: NewShrinkageRepository(tx),
		Batches:    NewBatchRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}

	r.store.mu.Lock()
	r.store.data = work
	r.store.mu.Unlock()
	return nil
}
