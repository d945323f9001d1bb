package bulkcharge_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/inventario-ledger/internal/application/adjustment"
	"github.com/invorya/inventario-ledger/internal/application/bulkcharge"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/infrastructure/memory"
)

type fixture struct {
	processor *bulkcharge.Processor
	stock     *memory.StockRepo
	movements *memory.MovementRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	warehouses := memory.NewWarehouseRepository(store)
	for _, p := range []string{"p1", "p2"} {
		require.NoError(t, products.Create(&entity.Product{ID: p, SKU: "SKU-" + p, Name: p, CreatedAt: time.Now()}))
	}
	require.NoError(t, warehouses.Create(&entity.Warehouse{ID: "w1", Name: "Bodega w1", CreatedAt: time.Now()}))

	engine := adjustment.NewEngine(
		memory.NewTxRunner(store, 1000), products, warehouses, memory.NewBatchRepository(store), false,
	)
	return &fixture{
		processor: bulkcharge.NewProcessor(engine),
		stock:     memory.NewStockRepository(store),
		movements: memory.NewMovementRepository(store),
	}
}

func TestProcess_AplicaCargaCompleta(t *testing.T) {
	f := newFixture(t)
	csv := "product_id,warehouse_id,delta,reason\n" +
		"p1,w1,10,conteo inicial\n" +
		"p2,w1,4,conteo inicial\n"

	batch, err := f.processor.Process(context.Background(), "carga.csv", strings.NewReader(csv), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusApplied, batch.Status)
	assert.Equal(t, "carga.csv", batch.SourceFileRef)
	assert.Len(t, batch.MovementIDs, 2)

	s, err := f.stock.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(s.Quantity))
}

func TestProcess_ArchivoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.processor.Process(context.Background(), "vacio.csv", strings.NewReader(""), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_EncabezadoInvalido(t *testing.T) {
	f := newFixture(t)
	csv := "sku,bodega,cantidad\np1,w1,10\n"
	_, err := f.processor.Process(context.Background(), "malo.csv", strings.NewReader(csv), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_DeltaNoNumericoNombraLinea(t *testing.T) {
	f := newFixture(t)
	csv := "product_id,warehouse_id,delta,reason\n" +
		"p1,w1,10,ok\n" +
		"p2,w1,abc,malo\n"
	_, err := f.processor.Process(context.Background(), "malo.csv", strings.NewReader(csv), "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 3", "el error debe nombrar la línea ofensora")

	// nada se escribió
	movs, err := f.movements.ListByBatch("")
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestProcess_DeltaCeroRechazado(t *testing.T) {
	f := newFixture(t)
	csv := "product_id,warehouse_id,delta,reason\np1,w1,0,nada\n"
	_, err := f.processor.Process(context.Background(), "malo.csv", strings.NewReader(csv), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_SoloEncabezado(t *testing.T) {
	f := newFixture(t)
	csv := "product_id,warehouse_id,delta,reason\n"
	_, err := f.processor.Process(context.Background(), "malo.csv", strings.NewReader(csv), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_FilaInvalidaRechazaTodo(t *testing.T) {
	f := newFixture(t)
	// p2 quedaría negativo: la carga completa se rechaza en el motor
	csv := "product_id,warehouse_id,delta,reason\n" +
		"p1,w1,10,ok\n" +
		"p2,w1,-3,imposible\n"
	_, err := f.processor.Process(context.Background(), "malo.csv", strings.NewReader(csv), "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	s, err := f.stock.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, s.Quantity.IsZero())
}
