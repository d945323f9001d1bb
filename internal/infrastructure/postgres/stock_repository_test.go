package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/inventario-ledger/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// recordingQuerier captura las sentencias que emite el repositorio, en orden.
type recordingQuerier struct {
	stmts []string
	row   func(dest ...any) error
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.stmts = append(q.stmts, sql)
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.stmts = append(q.stmts, sql)
	return nil, nil
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.stmts = append(q.stmts, sql)
	return rowFunc(q.row)
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

// ──────────────────────────────────────────────────────────────────────────────
// Tests StockRepo
// ──────────────────────────────────────────────────────────────────────────────

// GetForUpdate debe asegurar la fila base antes del SELECT FOR UPDATE: sin
// ella, dos primeros movimientos concurrentes sobre la misma clave leerían
// cero sin bloqueo y el segundo pisaría al primero, dejando el stock
// desalineado con la suma del libro.
func TestGetForUpdate_AseguraFilaAntesDeBloquear(t *testing.T) {
	q := &recordingQuerier{
		row: func(dest ...any) error {
			*(dest[0].(*string)) = "p1"
			*(dest[1].(*string)) = "w1"
			*(dest[2].(*decimal.Decimal)) = decimal.Zero
			*(dest[3].(*time.Time)) = time.Now()
			return nil
		},
	}
	repo := postgres.NewStockRepository(q)

	s, err := repo.GetForUpdate("p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, "p1", s.ProductID)
	assert.True(t, s.Quantity.IsZero())

	require.Len(t, q.stmts, 2, "debe emitir exactamente insert-si-falta y luego select")
	assert.Contains(t, q.stmts[0], "INSERT INTO stock")
	assert.Contains(t, q.stmts[0], "DO NOTHING")
	assert.Contains(t, q.stmts[1], "FOR UPDATE")
}

// Get (sin bloqueo) mantiene el contrato de fila base en cero cuando el par
// (producto, bodega) nunca tuvo movimientos.
func TestGet_SinMovimientosDevuelveCero(t *testing.T) {
	q := &recordingQuerier{
		row: func(_ ...any) error { return pgx.ErrNoRows },
	}
	repo := postgres.NewStockRepository(q)

	s, err := repo.Get("p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, "p1", s.ProductID)
	assert.Equal(t, "w1", s.WarehouseID)
	assert.True(t, s.Quantity.IsZero())

	require.Len(t, q.stmts, 1)
	assert.NotContains(t, q.stmts[0], "FOR UPDATE")
}
