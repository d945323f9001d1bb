package memory

import (
	"fmt"
	"sort"

	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación en memoria de TransferRepository.
type TransferRepo struct {
	db accessor
}

// NewTransferRepository construye el adaptador. Pasar el Store o la tx.
func NewTransferRepository(db accessor) *TransferRepo {
	return &TransferRepo{db: db}
}

// Create persiste una transferencia.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	return r.db.update(func(t *tables) error {
		if _, ok := t.transfers[transfer.ID]; ok {
			return fmt.Errorf("transferencia %s: %w", transfer.ID, domain.ErrDuplicate)
		}
		tc := *transfer
		tc.Lines = append([]entity.TransferLine(nil), transfer.Lines...)
		t.transfers[tc.ID] = &tc
		return nil
	})
}

// GetByID obtiene una transferencia por ID. Devuelve nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.db.view(func(t *tables) error {
		if tr, ok := t.transfers[id]; ok {
			tc := *tr
			tc.Lines = append([]entity.TransferLine(nil), tr.Lines...)
			out = &tc
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: el semáforo del TxRunner ya
// serializa a los escritores.
func (r *TransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	return r.GetByID(id)
}

// Update persiste el estado y las líneas de la transferencia.
func (r *TransferRepo) Update(transfer *entity.Transfer) error {
	return r.db.update(func(t *tables) error {
		if _, ok := t.transfers[transfer.ID]; !ok {
			return fmt.Errorf("transferencia %s: %w", transfer.ID, domain.ErrNotFound)
		}
		tc := *transfer
		tc.Lines = append([]entity.TransferLine(nil), transfer.Lines...)
		t.transfers[tc.ID] = &tc
		return nil
	})
}

// List filtra por estado; status vacío lista todas, más recientes primero.
func (r *TransferRepo) List(status string, limit, offset int) ([]*entity.Transfer, error) {
	var list []*entity.Transfer
	err := r.db.view(func(t *tables) error {
		for _, tr := range t.transfers {
			if status != "" && tr.Status != status {
				continue
			}
			tc := *tr
			tc.Lines = append([]entity.TransferLine(nil), tr.Lines...)
			list = append(list, &tc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit <= 0 {
		limit = 50
	}
	return paginate(list, limit, offset), nil
}
