package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, source_file_ref, movement_ids, status, created_by, created_at, reverted_by, reverted_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste una carga.
func (r *BatchRepo) Create(b *entity.AdjustmentBatch) error {
	query := `
		INSERT INTO adjustment_batches (id, source_file_ref, movement_ids, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.SourceFileRef, b.MovementIDs, b.Status, b.CreatedBy, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene una carga por ID. Devuelve nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.AdjustmentBatch, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la carga bloqueando la fila; evita la doble reversión concurrente.
func (r *BatchRepo) GetForUpdate(id string) (*entity.AdjustmentBatch, error) {
	return r.get(id, true)
}

func (r *BatchRepo) get(id string, forUpdate bool) (*entity.AdjustmentBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM adjustment_batches WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// Update persiste el estado de la carga.
func (r *BatchRepo) Update(b *entity.AdjustmentBatch) error {
	query := `
		UPDATE adjustment_batches
		SET status = $2, reverted_by = NULLIF($3, ''), reverted_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, b.ID, b.Status, b.RevertedBy, b.RevertedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// List lista cargas, más recientes primero.
func (r *BatchRepo) List(limit, offset int) ([]*entity.AdjustmentBatch, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + batchColumns + ` FROM adjustment_batches ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.AdjustmentBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.AdjustmentBatch, error) {
	var b entity.AdjustmentBatch
	var revertedBy *string
	if err := row.Scan(&b.ID, &b.SourceFileRef, &b.MovementIDs, &b.Status,
		&b.CreatedBy, &b.CreatedAt, &revertedBy, &b.RevertedAt); err != nil {
		return nil, err
	}
	if revertedBy != nil {
		b.RevertedBy = *revertedBy
	}
	return &b, nil
}
