package shrinkage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/application/ledger"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// Workflow máquina de estados de mermas:
//
//	PENDING → APPROVED (descuenta stock)
//	PENDING → REJECTED (sin efecto)
//
// Solo la aprobación toca el libro; si el stock no alcanza para absorber la
// pérdida, la aprobación falla y la solicitud permanece PENDING para
// reintentarse o rechazarse. La verificación de que el aprobador tenga el rol
// adecuado corresponde al colaborador de autorización (middleware HTTP).
type Workflow struct {
	tx         ledger.TxRunner
	shrinkages repository.ShrinkageRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// NewWorkflow construye el flujo de mermas.
func NewWorkflow(
	tx ledger.TxRunner,
	shrinkages repository.ShrinkageRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
) *Workflow {
	return &Workflow{tx: tx, shrinkages: shrinkages, products: products, warehouses: warehouses}
}

// RequestInput entrada para registrar una merma.
type RequestInput struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Reason      string
	ActorID     string
}

// Request registra una solicitud de merma en PENDING. Sin efecto en stock.
func (w *Workflow) Request(ctx context.Context, in RequestInput) (*entity.ShrinkageRequest, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("cantidad debe ser > 0: %w", domain.ErrInvalidInput)
	}
	if in.Reason == "" {
		return nil, fmt.Errorf("motivo requerido: %w", domain.ErrInvalidInput)
	}
	p, err := w.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}
	wh, err := w.warehouses.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("bodega %s: %w", in.WarehouseID, domain.ErrNotFound)
	}

	req := &entity.ShrinkageRequest{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		Status:      entity.ShrinkageStatusPending,
		RequestedBy: in.ActorID,
		CreatedAt:   time.Now(),
	}
	if err := w.shrinkages.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve transiciona PENDING→APPROVED y descuenta el stock (movimiento
// SHRINKAGE con -cantidad). Una merma nunca deja stock negativo: si no
// alcanza, devuelve ErrInsufficientStock y la solicitud sigue PENDING.
func (w *Workflow) Approve(ctx context.Context, requestID, approverID string) (*entity.ShrinkageRequest, error) {
	var req *entity.ShrinkageRequest
	err := w.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		req, err = w.lockPending(r, requestID)
		if err != nil {
			return err
		}

		if _, err := ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
			ProductID:     req.ProductID,
			WarehouseID:   req.WarehouseID,
			Delta:         req.Quantity.Neg(),
			Kind:          entity.MovementKindShrinkage,
			Reason:        req.Reason,
			ActorID:       approverID,
			CorrelationID: req.ID,
		}); err != nil {
			return err
		}

		now := time.Now()
		req.Status = entity.ShrinkageStatusApproved
		req.ResolvedBy = approverID
		req.ResolvedAt = &now
		return r.Shrinkages.Update(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Reject transiciona PENDING→REJECTED sin tocar stock; el motivo queda para auditoría.
func (w *Workflow) Reject(ctx context.Context, requestID, approverID, note string) (*entity.ShrinkageRequest, error) {
	var req *entity.ShrinkageRequest
	err := w.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		req, err = w.lockPending(r, requestID)
		if err != nil {
			return err
		}
		now := time.Now()
		req.Status = entity.ShrinkageStatusRejected
		req.ResolvedBy = approverID
		req.ResolvedAt = &now
		req.ResolutionNote = note
		return r.Shrinkages.Update(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Get devuelve una solicitud por id.
func (w *Workflow) Get(ctx context.Context, requestID string) (*entity.ShrinkageRequest, error) {
	req, err := w.shrinkages.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("merma %s: %w", requestID, domain.ErrNotFound)
	}
	return req, nil
}

// List devuelve solicitudes filtradas por estado (vacío = todas).
func (w *Workflow) List(ctx context.Context, status string, limit, offset int) ([]*entity.ShrinkageRequest, error) {
	return w.shrinkages.List(status, limit, offset)
}

// lockPending bloquea la solicitud y verifica que siga PENDING.
func (w *Workflow) lockPending(r ledger.Repos, requestID string) (*entity.ShrinkageRequest, error) {
	req, err := r.Shrinkages.GetForUpdate(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("merma %s: %w", requestID, domain.ErrNotFound)
	}
	if req.Status != entity.ShrinkageStatusPending {
		return nil, fmt.Errorf("merma %s en estado %s: %w", requestID, req.Status, domain.ErrInvalidState)
	}
	return req, nil
}
