package adjustment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/inventario-ledger/internal/application/adjustment"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
	"github.com/invorya/inventario-ledger/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fixture arma un motor sobre el almacén en memoria con producto p1/p2 y
// bodegas w1/w2 sembrados.
type fixture struct {
	store     *memory.Store
	engine    *adjustment.Engine
	movements *memory.MovementRepo
	stock     *memory.StockRepo
	batches   *memory.BatchRepo
}

func newFixture(t *testing.T, allowNegative bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	warehouses := memory.NewWarehouseRepository(store)
	for _, p := range []string{"p1", "p2"} {
		require.NoError(t, products.Create(&entity.Product{ID: p, SKU: "SKU-" + p, Name: p, CreatedAt: time.Now()}))
	}
	for _, w := range []string{"w1", "w2"} {
		require.NoError(t, warehouses.Create(&entity.Warehouse{ID: w, Name: "Bodega " + w, CreatedAt: time.Now()}))
	}
	batches := memory.NewBatchRepository(store)
	engine := adjustment.NewEngine(
		memory.NewTxRunner(store, 1000), products, warehouses, batches, allowNegative,
	)
	return &fixture{
		store:     store,
		engine:    engine,
		movements: memory.NewMovementRepository(store),
		stock:     memory.NewStockRepository(store),
		batches:   batches,
	}
}

func (f *fixture) quantity(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	s, err := f.stock.Get(productID, warehouseID)
	require.NoError(t, err)
	return s.Quantity
}

func TestAdjust_Positivo(t *testing.T) {
	f := newFixture(t, false)

	mov, err := f.engine.Adjust(context.Background(), adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("15"), Reason: "conteo", ActorID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindAdjustment, mov.Kind)
	assert.True(t, dec("15").Equal(f.quantity(t, "p1", "w1")))
}

func TestAdjust_NegativoSinFlagRechazado(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.engine.Adjust(context.Background(), adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("-5"), ActorID: "u1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.quantity(t, "p1", "w1").IsZero(), "el rechazo no debe dejar escrituras")
}

func TestAdjust_NegativoConFlagPermitido(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.engine.Adjust(context.Background(), adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("-5"), Reason: "reconciliación", ActorID: "u1",
	})
	require.NoError(t, err)
	assert.True(t, dec("-5").Equal(f.quantity(t, "p1", "w1")))
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.engine.Adjust(context.Background(), adjustment.AdjustInput{
		ProductID: "nope", WarehouseID: "w1", Delta: dec("1"), ActorID: "u1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyBatch_TodoONada(t *testing.T) {
	f := newFixture(t, false)

	// la segunda entrada dejaría p2 en negativo: la carga completa debe rechazarse
	_, err := f.engine.ApplyBatch(context.Background(), []adjustment.BatchEntry{
		{ProductID: "p1", WarehouseID: "w1", Delta: dec("10"), Reason: "ok"},
		{ProductID: "p2", WarehouseID: "w1", Delta: dec("-3"), Reason: "imposible"},
	}, "carga.csv", "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.quantity(t, "p1", "w1").IsZero(), "ninguna entrada debe aplicarse")
	movs, err := f.movements.List(repository.MovementFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestApplyBatch_AplicaYRegistraCarga(t *testing.T) {
	f := newFixture(t, false)

	batch, err := f.engine.ApplyBatch(context.Background(), []adjustment.BatchEntry{
		{ProductID: "p1", WarehouseID: "w1", Delta: dec("10"), Reason: "conteo"},
		{ProductID: "p2", WarehouseID: "w2", Delta: dec("4"), Reason: "conteo"},
	}, "carga.csv", "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusApplied, batch.Status)
	assert.Len(t, batch.MovementIDs, 2)

	assert.True(t, dec("10").Equal(f.quantity(t, "p1", "w1")))
	assert.True(t, dec("4").Equal(f.quantity(t, "p2", "w2")))

	movs, err := f.movements.ListByBatch(batch.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementKindBulkAdjustment, m.Kind)
		assert.Equal(t, batch.ID, m.BatchID)
	}
}

func TestRevertBatch_RestauraYEsUnicaVez(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	batch, err := f.engine.ApplyBatch(ctx, []adjustment.BatchEntry{
		{ProductID: "p1", WarehouseID: "w1", Delta: dec("10")},
		{ProductID: "p2", WarehouseID: "w1", Delta: dec("7")},
	}, "carga.csv", "u1")
	require.NoError(t, err)

	reverted, err := f.engine.RevertBatch(ctx, batch.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusReverted, reverted.Status)
	assert.Equal(t, "u2", reverted.RevertedBy)

	// el stock volvió a cero pero la historia quedó: 2 originales + 2 reversiones
	assert.True(t, f.quantity(t, "p1", "w1").IsZero())
	assert.True(t, f.quantity(t, "p2", "w1").IsZero())
	movs, err := f.movements.ListByBatch(batch.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 4)

	// segunda reversión: rechazada
	_, err = f.engine.RevertBatch(ctx, batch.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrAlreadyReverted)
}

func TestRevertBatch_OmiteFilaYaAnulada(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	// ajuste base que debe sobrevivir a la reversión de la carga
	_, err := f.engine.Adjust(ctx, adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("10"), Reason: "base", ActorID: "u1",
	})
	require.NoError(t, err)

	batch, err := f.engine.ApplyBatch(ctx, []adjustment.BatchEntry{
		{ProductID: "p1", WarehouseID: "w1", Delta: dec("10")},
		{ProductID: "p2", WarehouseID: "w1", Delta: dec("7")},
	}, "carga.csv", "u1")
	require.NoError(t, err)

	// anulación individual de la fila de p1 de la carga
	movs, err := f.movements.ListByBatch(batch.ID)
	require.NoError(t, err)
	var rowP1 *entity.MovementRecord
	for _, m := range movs {
		if m.ProductID == "p1" {
			rowP1 = m
		}
	}
	require.NotNil(t, rowP1)
	_, err = f.engine.RevertSingle(ctx, rowP1.ID, "u2")
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(f.quantity(t, "p1", "w1")))

	// la reversión de la carga no debe compensar p1 por segunda vez
	reverted, err := f.engine.RevertBatch(ctx, batch.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusReverted, reverted.Status)

	assert.True(t, dec("10").Equal(f.quantity(t, "p1", "w1")), "debe quedar solo el ajuste base")
	assert.True(t, f.quantity(t, "p2", "w1").IsZero())

	// una única reversión correlacionada a la fila de p1
	revs, err := f.movements.ListByCorrelation(rowP1.ID)
	require.NoError(t, err)
	assert.Len(t, revs, 1)
}

func TestRevertBatch_Inexistente(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.engine.RevertBatch(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRevertSingle_AnulaAjuste(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	mov, err := f.engine.Adjust(ctx, adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("8"), ActorID: "u1",
	})
	require.NoError(t, err)

	rev, err := f.engine.RevertSingle(ctx, mov.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindReversal, rev.Kind)
	assert.Equal(t, mov.ID, rev.CorrelationID)
	assert.True(t, mov.Delta.Neg().Equal(rev.Delta))
	assert.True(t, f.quantity(t, "p1", "w1").IsZero())
}

func TestRevertSingle_NoAnulaDosVeces(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	mov, err := f.engine.Adjust(ctx, adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("8"), ActorID: "u1",
	})
	require.NoError(t, err)

	_, err = f.engine.RevertSingle(ctx, mov.ID, "u2")
	require.NoError(t, err)

	_, err = f.engine.RevertSingle(ctx, mov.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrNotReversible)
}

func TestRevertSingle_NoAnulaReversiones(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	mov, err := f.engine.Adjust(ctx, adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("8"), ActorID: "u1",
	})
	require.NoError(t, err)
	rev, err := f.engine.RevertSingle(ctx, mov.ID, "u2")
	require.NoError(t, err)

	_, err = f.engine.RevertSingle(ctx, rev.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrNotReversible)
}
