package transfer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/inventario-ledger/internal/application/ledger"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// Workflow máquina de estados de transferencias entre bodegas:
//
//	DRAFT → SENT → RECEIVED
//	DRAFT → CANCELLED
//	SENT  → CANCELLED (compensa el origen)
//
// El stock de origen solo se descuenta al enviar y el de destino solo se
// acredita al recibir; ambas transiciones usan ledger.Apply en una sola
// transacción (todas las líneas o ninguna).
type Workflow struct {
	tx         ledger.TxRunner
	transfers  repository.TransferRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// NewWorkflow construye el flujo de transferencias.
func NewWorkflow(
	tx ledger.TxRunner,
	transfers repository.TransferRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
) *Workflow {
	return &Workflow{tx: tx, transfers: transfers, products: products, warehouses: warehouses}
}

// CreateInput entrada para crear una transferencia en borrador.
type CreateInput struct {
	SourceWarehouseID string
	DestWarehouseID   string
	Lines             []entity.TransferLine
	ActorID           string
}

// Create crea una transferencia en DRAFT. Sin efecto en stock.
func (w *Workflow) Create(ctx context.Context, in CreateInput) (*entity.Transfer, error) {
	if in.SourceWarehouseID == in.DestWarehouseID {
		return nil, fmt.Errorf("bodega origen y destino iguales: %w", domain.ErrInvalidInput)
	}
	if err := w.checkWarehouse(in.SourceWarehouseID); err != nil {
		return nil, err
	}
	if err := w.checkWarehouse(in.DestWarehouseID); err != nil {
		return nil, err
	}
	if err := w.checkLines(in.Lines); err != nil {
		return nil, err
	}

	t := &entity.Transfer{
		ID:                uuid.New().String(),
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Lines:             in.Lines,
		Status:            entity.TransferStatusDraft,
		CreatedBy:         in.ActorID,
		CreatedAt:         time.Now(),
	}
	if err := w.transfers.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update reemplaza las líneas de una transferencia. Solo permitido en DRAFT.
func (w *Workflow) Update(ctx context.Context, transferID string, lines []entity.TransferLine, actorID string) (*entity.Transfer, error) {
	if err := w.checkLines(lines); err != nil {
		return nil, err
	}
	var t *entity.Transfer
	err := w.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		t, err = w.lockInStatus(r, transferID, entity.TransferStatusDraft)
		if err != nil {
			return err
		}
		t.Lines = lines
		return r.Transfers.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Send transiciona DRAFT→SENT descontando el stock de la bodega origen, una
// línea TRANSFER_OUT por producto. Si alguna línea dejaría el origen en
// negativo, ninguna se aplica y el error nombra el primer producto ofensor.
func (w *Workflow) Send(ctx context.Context, transferID, actorID string) (*entity.Transfer, error) {
	var t *entity.Transfer
	err := w.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		t, err = w.lockInStatus(r, transferID, entity.TransferStatusDraft)
		if err != nil {
			return err
		}

		for _, line := range sortedLines(t.Lines) {
			if _, err := ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
				ProductID:     line.ProductID,
				WarehouseID:   t.SourceWarehouseID,
				Delta:         line.Quantity.Neg(),
				Kind:          entity.MovementKindTransferOut,
				Reason:        fmt.Sprintf("transferencia %s", t.ID),
				ActorID:       actorID,
				CorrelationID: t.ID,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		t.Status = entity.TransferStatusSent
		t.SentBy = actorID
		t.SentAt = &now
		return r.Transfers.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Receive transiciona SENT→RECEIVED acreditando el stock en destino, un
// TRANSFER_IN por línea correlacionado con su TRANSFER_OUT. Una transferencia
// ya recibida no puede recibirse de nuevo.
func (w *Workflow) Receive(ctx context.Context, transferID, actorID string) (*entity.Transfer, error) {
	var t *entity.Transfer
	err := w.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		t, err = w.lockInStatus(r, transferID, entity.TransferStatusSent)
		if err != nil {
			return err
		}

		outs, err := w.outMovements(r, t.ID)
		if err != nil {
			return err
		}
		for _, line := range sortedLines(t.Lines) {
			out, ok := outs[line.ProductID]
			if !ok {
				return fmt.Errorf("transferencia %s sin salida registrada para producto %s: %w",
					t.ID, line.ProductID, domain.ErrInvalidState)
			}
			if _, err := ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
				ProductID:     line.ProductID,
				WarehouseID:   t.DestWarehouseID,
				Delta:         line.Quantity,
				Kind:          entity.MovementKindTransferIn,
				Reason:        fmt.Sprintf("transferencia %s", t.ID),
				ActorID:       actorID,
				CorrelationID: out.ID,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		t.Status = entity.TransferStatusReceived
		t.ReceivedBy = actorID
		t.ReceivedAt = &now
		return r.Transfers.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Cancel cancela una transferencia. En DRAFT no toca stock; en SENT emite un
// REVERSAL por cada TRANSFER_OUT restaurando las cantidades del origen. Una
// transferencia RECIBIDA no se cancela: se corrige con un ajuste nuevo.
func (w *Workflow) Cancel(ctx context.Context, transferID, actorID string) (*entity.Transfer, error) {
	var t *entity.Transfer
	err := w.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		t, err = r.Transfers.GetForUpdate(transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("transferencia %s: %w", transferID, domain.ErrNotFound)
		}

		switch t.Status {
		case entity.TransferStatusDraft:
			// sin efecto en stock
		case entity.TransferStatusSent:
			outs, err := w.outMovements(r, t.ID)
			if err != nil {
				return err
			}
			for _, line := range sortedLines(t.Lines) {
				out, ok := outs[line.ProductID]
				if !ok {
					return fmt.Errorf("transferencia %s sin salida registrada para producto %s: %w",
						t.ID, line.ProductID, domain.ErrInvalidState)
				}
				if _, err := ledger.Apply(r.Movements, r.Stock, ledger.MovementInput{
					ProductID:     out.ProductID,
					WarehouseID:   t.SourceWarehouseID,
					Delta:         out.Delta.Neg(), // restaura lo descontado
					Kind:          entity.MovementKindReversal,
					Reason:        fmt.Sprintf("cancelación de transferencia %s", t.ID),
					ActorID:       actorID,
					CorrelationID: out.ID,
				}); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("transferencia %s en estado %s: %w", transferID, t.Status, domain.ErrInvalidState)
		}

		now := time.Now()
		t.Status = entity.TransferStatusCancelled
		t.CancelledBy = actorID
		t.CancelledAt = &now
		return r.Transfers.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Get devuelve una transferencia por id (lectura sin bloqueo).
func (w *Workflow) Get(ctx context.Context, transferID string) (*entity.Transfer, error) {
	t, err := w.transfers.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("transferencia %s: %w", transferID, domain.ErrNotFound)
	}
	return t, nil
}

// List devuelve transferencias filtradas por estado (vacío = todas).
func (w *Workflow) List(ctx context.Context, status string, limit, offset int) ([]*entity.Transfer, error) {
	return w.transfers.List(status, limit, offset)
}

// lockInStatus bloquea la transferencia y verifica el estado esperado.
func (w *Workflow) lockInStatus(r ledger.Repos, transferID, want string) (*entity.Transfer, error) {
	t, err := r.Transfers.GetForUpdate(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("transferencia %s: %w", transferID, domain.ErrNotFound)
	}
	if t.Status != want {
		return nil, fmt.Errorf("transferencia %s en estado %s: %w", transferID, t.Status, domain.ErrInvalidState)
	}
	return t, nil
}

// outMovements indexa los TRANSFER_OUT de la transferencia por producto.
func (w *Workflow) outMovements(r ledger.Repos, transferID string) (map[string]*entity.MovementRecord, error) {
	movs, err := r.Movements.ListByCorrelation(transferID)
	if err != nil {
		return nil, err
	}
	outs := make(map[string]*entity.MovementRecord, len(movs))
	for _, m := range movs {
		if m.Kind == entity.MovementKindTransferOut {
			outs[m.ProductID] = m
		}
	}
	return outs, nil
}

func (w *Workflow) checkWarehouse(id string) error {
	wh, err := w.warehouses.GetByID(id)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (w *Workflow) checkLines(lines []entity.TransferLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("transferencia sin líneas: %w", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(lines))
	for i, l := range lines {
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("línea %d: cantidad debe ser > 0: %w", i+1, domain.ErrInvalidInput)
		}
		if seen[l.ProductID] {
			return fmt.Errorf("línea %d: producto %s repetido: %w", i+1, l.ProductID, domain.ErrInvalidInput)
		}
		seen[l.ProductID] = true
		p, err := w.products.GetByID(l.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("línea %d: producto %s: %w", i+1, l.ProductID, domain.ErrNotFound)
		}
	}
	return nil
}

// sortedLines copia y ordena las líneas por producto para adquirir los
// bloqueos de stock siempre en el mismo orden.
func sortedLines(lines []entity.TransferLine) []entity.TransferLine {
	out := make([]entity.TransferLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
