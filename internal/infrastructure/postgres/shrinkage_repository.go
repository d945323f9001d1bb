package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.ShrinkageRepository = (*ShrinkageRepo)(nil)

const shrinkageColumns = `id, product_id, warehouse_id, quantity, reason, status,
	requested_by, created_at, resolved_by, resolved_at, resolution_note`

// ShrinkageRepo implementación de ShrinkageRepository sobre PostgreSQL.
type ShrinkageRepo struct {
	q Querier
}

// NewShrinkageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShrinkageRepository(q Querier) *ShrinkageRepo {
	return &ShrinkageRepo{q: q}
}

// Create persiste una solicitud de merma.
func (r *ShrinkageRepo) Create(s *entity.ShrinkageRequest) error {
	query := `
		INSERT INTO shrinkage_requests (id, product_id, warehouse_id, quantity, reason, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ProductID, s.WarehouseID, s.Quantity, s.Reason, s.Status, s.RequestedBy, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create shrinkage request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. Devuelve nil si no existe.
func (r *ShrinkageRepo) GetByID(id string) (*entity.ShrinkageRequest, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la solicitud bloqueando la fila (SELECT FOR UPDATE).
func (r *ShrinkageRepo) GetForUpdate(id string) (*entity.ShrinkageRequest, error) {
	return r.get(id, true)
}

func (r *ShrinkageRepo) get(id string, forUpdate bool) (*entity.ShrinkageRequest, error) {
	query := `SELECT ` + shrinkageColumns + ` FROM shrinkage_requests WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	s, err := scanShrinkage(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shrinkage request: %w", err)
	}
	return s, nil
}

// Update persiste la resolución de la solicitud.
func (r *ShrinkageRepo) Update(s *entity.ShrinkageRequest) error {
	query := `
		UPDATE shrinkage_requests
		SET status = $2, resolved_by = NULLIF($3, ''), resolved_at = $4, resolution_note = NULLIF($5, '')
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Status, s.ResolvedBy, s.ResolvedAt, s.ResolutionNote)
	if err != nil {
		return fmt.Errorf("update shrinkage request: %w", err)
	}
	return nil
}

// List filtra por estado; status vacío lista todas, más recientes primero.
func (r *ShrinkageRepo) List(status string, limit, offset int) ([]*entity.ShrinkageRequest, error) {
	query := `SELECT ` + shrinkageColumns + ` FROM shrinkage_requests`
	var args []any
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shrinkage requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.ShrinkageRequest
	for rows.Next() {
		s, err := scanShrinkage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shrinkage request: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanShrinkage(row pgx.Row) (*entity.ShrinkageRequest, error) {
	var s entity.ShrinkageRequest
	var resolvedBy, resolutionNote *string
	if err := row.Scan(&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.Reason, &s.Status,
		&s.RequestedBy, &s.CreatedAt, &resolvedBy, &s.ResolvedAt, &resolutionNote); err != nil {
		return nil, err
	}
	if resolvedBy != nil {
		s.ResolvedBy = *resolvedBy
	}
	if resolutionNote != nil {
		s.ResolutionNote = *resolutionNote
	}
	return &s, nil
}
