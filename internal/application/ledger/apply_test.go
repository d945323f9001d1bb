package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/inventario-ledger/internal/application/ledger"
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

func newRepos() (*memory.MovementRepo, *memory.StockRepo) {
	store := memory.NewStore()
	return memory.NewMovementRepository(store), memory.NewStockRepository(store)
}

func listAll() repository.MovementFilter {
	return repository.MovementFilter{Limit: 100}
}

func TestApply_RegistraMovimientoYActualizaStock(t *testing.T) {
	movements, stock := newRepos()

	mov, err := ledger.Apply(movements, stock, ledger.MovementInput{
		ProductID:   "p1",
		WarehouseID: "w1",
		Delta:       dec("10"),
		Kind:        entity.MovementKindAdjustment,
		Reason:      "conteo inicial",
		ActorID:     "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, mov.ID)
	assert.Equal(t, entity.MovementKindAdjustment, mov.Kind)

	s, err := stock.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(s.Quantity), "el stock debe reflejar el delta aplicado")

	// la proyección coincide con la suma de deltas del libro
	sum, err := movements.SumDeltas("p1", "w1")
	require.NoError(t, err)
	assert.True(t, s.Quantity.Equal(sum))
}

func TestApply_AcumulaDeltas(t *testing.T) {
	movements, stock := newRepos()

	for _, d := range []string{"10", "-3", "2.5"} {
		_, err := ledger.Apply(movements, stock, ledger.MovementInput{
			ProductID: "p1", WarehouseID: "w1", Delta: dec(d),
			Kind: entity.MovementKindAdjustment, ActorID: "u1",
		})
		require.NoError(t, err)
	}

	s, err := stock.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, dec("9.5").Equal(s.Quantity))

	sum, err := movements.SumDeltas("p1", "w1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(s.Quantity))
}

func TestApply_RechazaStockNegativo(t *testing.T) {
	movements, stock := newRepos()

	_, err := ledger.Apply(movements, stock, ledger.MovementInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("-1"),
		Kind: entity.MovementKindAdjustment, ActorID: "u1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// nada quedó escrito
	movs, err := movements.List(listAll())
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestApply_PermiteNegativoConFlag(t *testing.T) {
	movements, stock := newRepos()

	_, err := ledger.Apply(movements, stock, ledger.MovementInput{
		ProductID: "p1", WarehouseID: "w1", Delta: dec("-4"),
		Kind: entity.MovementKindAdjustment, ActorID: "u1",
		AllowNegative: true,
	})
	require.NoError(t, err)

	s, err := stock.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, dec("-4").Equal(s.Quantity))
}

func TestApply_ValidaEntrada(t *testing.T) {
	movements, stock := newRepos()

	cases := []struct {
		name string
		in   ledger.MovementInput
	}{
		{"delta cero", ledger.MovementInput{ProductID: "p1", WarehouseID: "w1", Delta: decimal.Zero, Kind: entity.MovementKindAdjustment, ActorID: "u1"}},
		{"tipo inválido", ledger.MovementInput{ProductID: "p1", WarehouseID: "w1", Delta: dec("1"), Kind: "VENTA", ActorID: "u1"}},
		{"sin producto", ledger.MovementInput{WarehouseID: "w1", Delta: dec("1"), Kind: entity.MovementKindAdjustment, ActorID: "u1"}},
		{"sin actor", ledger.MovementInput{ProductID: "p1", WarehouseID: "w1", Delta: dec("1"), Kind: entity.MovementKindAdjustment}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Apply(movements, stock, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
