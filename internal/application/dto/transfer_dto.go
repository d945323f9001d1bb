package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
)

// TransferLineDTO una línea (producto, cantidad) de transferencia.
type TransferLineDTO struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/inventario/transferencias.
type CreateTransferRequest struct {
	SourceWarehouseID string            `json:"source_warehouse_id" validate:"required"`
	DestWarehouseID   string            `json:"dest_warehouse_id" validate:"required"`
	Lines             []TransferLineDTO `json:"lines" validate:"required,min=1,dive"`
}

// UpdateTransferRequest body para PUT /api/inventario/transferencias/:id (solo DRAFT).
type UpdateTransferRequest struct {
	Lines []TransferLineDTO `json:"lines" validate:"required,min=1,dive"`
}

// ToLines convierte las líneas del DTO a entidades.
func ToLines(lines []TransferLineDTO) []entity.TransferLine {
	out := make([]entity.TransferLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.TransferLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID                string            `json:"id"`
	SourceWarehouseID string            `json:"source_warehouse_id"`
	DestWarehouseID   string            `json:"dest_warehouse_id"`
	Lines             []TransferLineDTO `json:"lines"`
	Status            string            `json:"status"`
	CreatedBy         string            `json:"created_by"`
	CreatedAt         time.Time         `json:"created_at"`
	SentBy            string            `json:"sent_by,omitempty"`
	SentAt            *time.Time        `json:"sent_at,omitempty"`
	ReceivedBy        string            `json:"received_by,omitempty"`
	ReceivedAt        *time.Time        `json:"received_at,omitempty"`
	CancelledBy       string            `json:"cancelled_by,omitempty"`
	CancelledAt       *time.Time        `json:"cancelled_at,omitempty"`
}

// FromTransfer mapea la entidad a su DTO de salida.
func FromTransfer(t *entity.Transfer) TransferResponse {
	lines := make([]TransferLineDTO, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, TransferLineDTO{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return TransferResponse{
		ID:                t.ID,
		SourceWarehouseID: t.SourceWarehouseID,
		DestWarehouseID:   t.DestWarehouseID,
		Lines:             lines,
		Status:            t.Status,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		SentBy:            t.SentBy,
		SentAt:            t.SentAt,
		ReceivedBy:        t.ReceivedBy,
		ReceivedAt:        t.ReceivedAt,
		CancelledBy:       t.CancelledBy,
		CancelledAt:       t.CancelledAt,
	}
}

// FromTransfers mapea una lista de transferencias.
func FromTransfers(ts []*entity.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, FromTransfer(t))
	}
	return out
}
