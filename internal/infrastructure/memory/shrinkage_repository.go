package memory

import (
	"fmt"
	"sort"

	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

var _ repository.ShrinkageRepository = (*ShrinkageRepo)(nil)

// ShrinkageRepo implementación en memoria de ShrinkageRepository.
type ShrinkageRepo struct {
	db accessor
}

// NewShrinkageRepository construye el adaptador. Pasar el Store o la tx.
func NewShrinkageRepository(db accessor) *ShrinkageRepo {
	return &ShrinkageRepo{db: db}
}

// Create persiste una solicitud de merma.
func (r *ShrinkageRepo) Create(request *entity.ShrinkageRequest) error {
	return r.db.update(func(t *tables) error {
		if _, ok := t.shrinkages[request.ID]; ok {
			return fmt.Errorf("solicitud %s: %w", request.ID, domain.ErrDuplicate)
		}
		sc := *request
		t.shrinkages[sc.ID] = &sc
		return nil
	})
}

// GetByID obtiene una solicitud por ID. Devuelve nil si no existe.
func (r *ShrinkageRepo) GetByID(id string) (*entity.ShrinkageRequest, error) {
	var out *entity.ShrinkageRequest
	err := r.db.view(func(t *tables) error {
		if s, ok := t.shrinkages[id]; ok {
			sc := *s
			out = &sc
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: el semáforo del TxRunner ya
// serializa a los escritores.
func (r *ShrinkageRepo) GetForUpdate(id string) (*entity.ShrinkageRequest, error) {
	return r.GetByID(id)
}

// Update persiste la resolución de la solicitud.
func (r *ShrinkageRepo) Update(request *entity.ShrinkageRequest) error {
	return r.db.update(func(t *tables) error {
		if _, ok := t.shrinkages[request.ID]; !ok {
			return fmt.Errorf("solicitud %s: %w", request.ID, domain.ErrNotFound)
		}
		sc := *request
		t.shrinkages[sc.ID] = &sc
		return nil
	})
}

// List filtra por estado; status vacío lista todas, más recientes primero.
func (r *ShrinkageRepo) List(status string, limit, offset int) ([]*entity.ShrinkageRequest, error) {
	var list []*entity.ShrinkageRequest
	err := r.db.view(func(t *tables) error {
		for _, s := range t.shrinkages {
			if status != "" && s.Status != status {
				continue
			}
			sc := *s
			list = append(list, &sc)
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
