package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
)

// AdjustRequest body para POST /api/inventario/ajuste.
type AdjustRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Delta       decimal.Decimal `json:"delta"`
	Reason      string          `json:"reason" validate:"max=500"`
}

// MovementQuery filtros para GET /api/inventario/movimientos.
type MovementQuery struct {
	ProductID   string `query:"product_id"`
	WarehouseID string `query:"warehouse_id"`
	Kind        string `query:"kind"`
	From        string `query:"from"` // RFC 3339
	To          string `query:"to"`
	PageRequest
}

// MovementResponse un registro del libro de movimientos.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Kind          string          `json:"kind"`
	Delta         decimal.Decimal `json:"delta"`
	Reason        string          `json:"reason,omitempty"`
	ActorID       string          `json:"actor_id"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	BatchID       string          `json:"batch_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FromMovement mapea la entidad a su DTO de salida.
func FromMovement(m *entity.MovementRecord) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Kind:          m.Kind,
		Delta:         m.Delta,
		Reason:        m.Reason,
		ActorID:       m.ActorID,
		CorrelationID: m.CorrelationID,
		BatchID:       m.BatchID,
		CreatedAt:     m.CreatedAt,
	}
}

// FromMovements mapea una lista de movimientos.
func FromMovements(movs []*entity.MovementRecord) []MovementResponse {
	out := make([]MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, FromMovement(m))
	}
	return out
}

// StockResponse nivel de stock de un producto en una bodega.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromStock mapea la entidad a su DTO de salida.
func FromStock(s *entity.StockLevel) StockResponse {
	return StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Quantity:    s.Quantity,
		UpdatedAt:   s.UpdatedAt,
	}
}

// BatchResponse una carga de ajustes masivos.
type BatchResponse struct {
	ID            string     `json:"id"`
	SourceFileRef string     `json:"source_file_ref"`
	MovementIDs   []string   `json:"movement_ids"`
	Status        string     `json:"status"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	RevertedBy    string     `json:"reverted_by,omitempty"`
	RevertedAt    *time.Time `json:"reverted_at,omitempty"`
}

// FromBatch mapea la entidad a su DTO de salida.
func FromBatch(b *entity.AdjustmentBatch) BatchResponse {
	return BatchResponse{
		ID:            b.ID,
		SourceFileRef: b.SourceFileRef,
		MovementIDs:   b.MovementIDs,
		Status:        b.Status,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		RevertedBy:    b.RevertedBy,
		RevertedAt:    b.RevertedAt,
	}
}
