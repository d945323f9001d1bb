package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, source_warehouse_id, dest_warehouse_id, status, created_by, created_at,
	sent_by, sent_at, received_by, received_at, cancelled_by, cancelled_at`

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (cabecera en transfers, líneas en transfer_lines).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste la cabecera y sus líneas.
func (r *TransferRepo) Create(t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, source_warehouse_id, dest_warehouse_id, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.SourceWarehouseID, t.DestWarehouseID, t.Status, t.CreatedBy, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create transfer %s: duplicado", t.ID)
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	return r.insertLines(t.ID, t.Lines)
}

// GetByID obtiene la transferencia con sus líneas. Devuelve nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la transferencia bloqueando la cabecera (SELECT FOR UPDATE).
func (r *TransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id string, forUpdate bool) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadLines(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update persiste el estado de la cabecera y reemplaza las líneas.
// El historial de stock vive en el libro de movimientos, no aquí.
func (r *TransferRepo) Update(t *entity.Transfer) error {
	query := `
		UPDATE transfers SET status = $2, sent_by = NULLIF($3, ''), sent_at = $4,
			received_by = NULLIF($5, ''), received_at = $6,
			cancelled_by = NULLIF($7, ''), cancelled_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.Status, t.SentBy, t.SentAt, t.ReceivedBy, t.ReceivedAt, t.CancelledBy, t.CancelledAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM transfer_lines WHERE transfer_id = $1`, t.ID); err != nil {
		return fmt.Errorf("replace transfer lines: %w", err)
	}
	return r.insertLines(t.ID, t.Lines)
}

// List filtra por estado; status vacío lista todas, más recientes primero.
func (r *TransferRepo) List(status string, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers`
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
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadLines(t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *TransferRepo) insertLines(transferID string, lines []entity.TransferLine) error {
	for _, l := range lines {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO transfer_lines (transfer_id, product_id, quantity) VALUES ($1, $2, $3)`,
			transferID, l.ProductID, l.Quantity)
		if err != nil {
			return fmt.Errorf("insert transfer line: %w", err)
		}
	}
	return nil
}

func (r *TransferRepo) loadLines(t *entity.Transfer) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT product_id, quantity FROM transfer_lines WHERE transfer_id = $1 ORDER BY product_id`, t.ID)
	if err != nil {
		return fmt.Errorf("load transfer lines: %w", err)
	}
	defer rows.Close()
	t.Lines = nil
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var sentBy, receivedBy, cancelledBy *string
	if err := row.Scan(&t.ID, &t.SourceWarehouseID, &t.DestWarehouseID, &t.Status,
		&t.CreatedBy, &t.CreatedAt,
		&sentBy, &t.SentAt, &receivedBy, &t.ReceivedAt, &cancelledBy, &t.CancelledAt); err != nil {
		return nil, err
	}
	if sentBy != nil {
		t.SentBy = *sentBy
	}
	if receivedBy != nil {
		t.ReceivedBy = *receivedBy
	}
	if cancelledBy != nil {
		t.CancelledBy = *cancelledBy
	}
	return &t, nil
}
