package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
)

// CreateShrinkageRequest body para POST /api/inventario/mermas.
type CreateShrinkageRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason" validate:"required,max=500"`
}

// RejectShrinkageRequest body para POST /api/inventario/mermas/:id/rechazar.
type RejectShrinkageRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// ShrinkageResponse salida de una solicitud de merma.
type ShrinkageResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason"`
	Status         string          `json:"status"`
	RequestedBy    string          `json:"requested_by"`
	CreatedAt      time.Time       `json:"created_at"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	ResolutionNote string          `json:"resolution_note,omitempty"`
}

// FromShrinkage mapea la entidad a su DTO de salida.
func FromShrinkage(s *entity.ShrinkageRequest) ShrinkageResponse {
	return ShrinkageResponse{
		ID:             s.ID,
		ProductID:      s.ProductID,
		WarehouseID:    s.WarehouseID,
		Quantity:       s.Quantity,
		Reason:         s.Reason,
		Status:         s.Status,
		RequestedBy:    s.RequestedBy,
		CreatedAt:      s.CreatedAt,
		ResolvedBy:     s.ResolvedBy,
		ResolvedAt:     s.ResolvedAt,
		ResolutionNote: s.ResolutionNote,
	}
}

// FromShrinkages mapea una lista de solicitudes.
func FromShrinkages(list []*entity.ShrinkageRequest) []ShrinkageResponse {
	out := make([]ShrinkageResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromShrinkage(s))
	}
	return out
}
