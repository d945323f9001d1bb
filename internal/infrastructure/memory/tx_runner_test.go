package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/inventario-ledger/internal/application/ledger"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/infrastructure/memory"
)

func TestRun_CommitPublicaEscrituras(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store, 1000)

	err := runner.Run(context.Background(), func(r ledger.Repos) error {
		return r.Stock.Upsert(&entity.StockLevel{
			ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(5),
		})
	})
	require.NoError(t, err)

	s, err := memory.NewStockRepository(store).Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(s.Quantity))
}

func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store, 1000)
	boom := errors.New("boom")

	err := runner.Run(context.Background(), func(r ledger.Repos) error {
		if err := r.Stock.Upsert(&entity.StockLevel{
			ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(5),
		}); err != nil {
			return err
		}
		if err := r.Movements.Create(&entity.MovementRecord{
			ProductID: "p1", WarehouseID: "w1",
			Kind: entity.MovementKindAdjustment, Delta: decimal.NewFromInt(5),
			ActorID: "u1", CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// rollback: ni stock ni movimientos visibles
	s, err := memory.NewStockRepository(store).Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, s.Quantity.IsZero())
	sum, err := memory.NewMovementRepository(store).SumDeltas("p1", "w1")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestRun_ContencionAgotaTiempo(t *testing.T) {
	store := memory.NewStore()
	slow := memory.NewTxRunner(store, 5000)
	fast := memory.NewTxRunner(store, 50)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- slow.Run(context.Background(), func(r ledger.Repos) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	// la segunda transacción no obtiene el turno dentro de su límite
	err := fast.Run(context.Background(), func(r ledger.Repos) error { return nil })
	assert.ErrorIs(t, err, domain.ErrContentionTimeout)

	close(release)
	require.NoError(t, <-done)
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store, 5000)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), func(r ledger.Repos) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runner.Run(ctx, func(r ledger.Repos) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-done)
}
