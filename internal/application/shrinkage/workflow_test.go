package shrinkage_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/inventario-ledger/internal/application/adjustment"
	"github.com/invorya/inventario-ledger/internal/application/shrinkage"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	workflow  *shrinkage.Workflow
	movements *memory.MovementRepo
	stock     *memory.StockRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	warehouses := memory.NewWarehouseRepository(store)
	require.NoError(t, products.Create(&entity.Product{ID: "p1", SKU: "SKU-p1", Name: "p1", CreatedAt: time.Now()}))
	require.NoError(t, warehouses.Create(&entity.Warehouse{ID: "w1", Name: "Bodega w1", CreatedAt: time.Now()}))
	tx := memory.NewTxRunner(store, 1000)

	// stock inicial: 10 unidades de p1 en w1
	engine := adjustment.NewEngine(tx, products, warehouses, memory.NewBatchRepository(store), false)
	_, err := engine.Adjust(context.Background(), adjustment.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("10"), Reason: "seed", ActorID: "seed",
	})
	require.NoError(t, err)

	return &fixture{
		workflow:  shrinkage.NewWorkflow(tx, memory.NewShrinkageRepository(store), products, warehouses),
		movements: memory.NewMovementRepository(store),
		stock:     memory.NewStockRepository(store),
	}
}

func (f *fixture) quantity(t *testing.T) decimal.Decimal {
	t.Helper()
	s, err := f.stock.Get("p1", "w1")
	require.NoError(t, err)
	return s.Quantity
}

func (f *fixture) pending(t *testing.T, qty string) *entity.ShrinkageRequest {
	t.Helper()
	req, err := f.workflow.Request(context.Background(), shrinkage.RequestInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: dec(qty), Reason: "daño en bodega", ActorID: "u1",
	})
	require.NoError(t, err)
	require.Equal(t, entity.ShrinkageStatusPending, req.Status)
	return req
}

func TestRequest_PendingSinEfectoEnStock(t *testing.T) {
	f := newFixture(t)
	f.pending(t, "3")
	assert.True(t, dec("10").Equal(f.quantity(t)))
}

func TestRequest_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.Request(ctx, shrinkage.RequestInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: dec("0"), Reason: "x", ActorID: "u1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.workflow.Request(ctx, shrinkage.RequestInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: dec("1"), ActorID: "u1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin motivo")

	_, err = f.workflow.Request(ctx, shrinkage.RequestInput{
		ProductID: "nope", WarehouseID: "w1", Quantity: dec("1"), Reason: "x", ActorID: "u1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprove_DescuentaStock(t *testing.T) {
	f := newFixture(t)
	req := f.pending(t, "3")

	approved, err := f.workflow.Approve(context.Background(), req.ID, "supervisor1")
	require.NoError(t, err)
	assert.Equal(t, entity.ShrinkageStatusApproved, approved.Status)
	assert.Equal(t, "supervisor1", approved.ResolvedBy)
	assert.True(t, dec("7").Equal(f.quantity(t)))

	// el movimiento SHRINKAGE correlaciona con la solicitud
	movs, err := f.movements.ListByCorrelation(req.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindShrinkage, movs[0].Kind)
	assert.True(t, dec("-3").Equal(movs[0].Delta))
}

func TestApprove_StockInsuficienteMantienePending(t *testing.T) {
	f := newFixture(t)
	req := f.pending(t, "50")

	_, err := f.workflow.Approve(context.Background(), req.ID, "supervisor1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// la solicitud sigue PENDING y el stock intacto
	got, err := f.workflow.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShrinkageStatusPending, got.Status)
	assert.True(t, dec("10").Equal(f.quantity(t)))
}

func TestApprove_SoloUnaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.pending(t, "3")

	_, err := f.workflow.Approve(ctx, req.ID, "supervisor1")
	require.NoError(t, err)
	_, err = f.workflow.Approve(ctx, req.ID, "supervisor1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReject_SinEfectoYConNota(t *testing.T) {
	f := newFixture(t)
	req := f.pending(t, "3")

	rejected, err := f.workflow.Reject(context.Background(), req.ID, "supervisor1", "sin evidencia del daño")
	require.NoError(t, err)
	assert.Equal(t, entity.ShrinkageStatusRejected, rejected.Status)
	assert.Equal(t, "sin evidencia del daño", rejected.ResolutionNote)
	assert.True(t, dec("10").Equal(f.quantity(t)))

	// una solicitud resuelta no puede aprobarse después
	_, err = f.workflow.Approve(context.Background(), req.ID, "supervisor1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.pending(t, "1")
	f.pending(t, "2")
	_, err := f.workflow.Approve(ctx, a.ID, "supervisor1")
	require.NoError(t, err)

	pendings, err := f.workflow.List(ctx, entity.ShrinkageStatusPending, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pendings, 1)

	all, err := f.workflow.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
