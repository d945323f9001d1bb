package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, warehouse_id, kind, delta, reason, actor_id, correlation_id, batch_id, created_at`

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
// El libro es append-only: este repositorio no tiene UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *MovementRepo) Create(movement *entity.MovementRecord) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.WarehouseID, movement.Kind,
		movement.Delta, movement.Reason, movement.ActorID,
		movement.CorrelationID, movement.BatchID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos según filtro, más recientes primero.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, val any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if filter.ProductID != "" {
		add("product_id = $%d", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		add("warehouse_id = $%d", filter.WarehouseID)
	}
	if filter.Kind != "" {
		add("kind = $%d", filter.Kind)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	return r.queryMovements(query, args...)
}

// ListByBatch devuelve los movimientos de una carga, en orden de creación.
func (r *MovementRepo) ListByBatch(batchID string) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE batch_id = $1 ORDER BY created_at ASC`
	return r.queryMovements(query, batchID)
}

// ListByCorrelation devuelve los movimientos con el CorrelationID dado.
func (r *MovementRepo) ListByCorrelation(correlationID string) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE correlation_id = $1 ORDER BY created_at ASC`
	return r.queryMovements(query, correlationID)
}

// HasReversal indica si ya existe un REVERSAL apuntando al movimiento.
func (r *MovementRepo) HasReversal(movementID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM movements WHERE kind = $1 AND correlation_id = $2)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, entity.MovementKindReversal, movementID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has reversal: %w", err)
	}
	return exists, nil
}

// SumDeltas suma los deltas del par (producto, bodega).
func (r *MovementRepo) SumDeltas(productID, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM movements WHERE product_id = $1 AND warehouse_id = $2`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.MovementRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	var correlationID, batchID *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Kind, &m.Delta,
		&m.Reason, &m.ActorID, &correlationID, &batchID, &m.CreatedAt); err != nil {
		return nil, err
	}
	if correlationID != nil {
		m.CorrelationID = *correlationID
	}
	if batchID != nil {
		m.BatchID = *batchID
	}
	return &m, nil
}
