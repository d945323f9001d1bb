package memory

import (
	"sync"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
)

// tables es el estado completo del almacén en memoria. Los movimientos se
// guardan además como slice para preservar el orden de inserción (el libro
// es append-only).
type tables struct {
	movements     []*entity.MovementRecord
	movementsByID map[string]*entity.MovementRecord
	stock         map[string]*entity.StockLevel // clave productID|warehouseID
	transfers     map[string]*entity.Transfer
	shrinkages    map[string]*entity.ShrinkageRequest
	batches       map[string]*entity.AdjustmentBatch
	products      map[string]*entity.Product
	warehouses    map[string]*entity.Warehouse
}

func newTables() *tables {
	return &tables{
		movementsByID: make(map[string]*entity.MovementRecord),
		stock:         make(map[string]*entity.StockLevel),
		transfers:     make(map[string]*entity.Transfer),
		shrinkages:    make(map[string]*entity.ShrinkageRequest),
		batches:       make(map[string]*entity.AdjustmentBatch),
		products:      make(map[string]*entity.Product),
		warehouses:    make(map[string]*entity.Warehouse),
	}
}

// clone copia el estado completo. Las transacciones trabajan sobre la copia y
// el commit la publica de una vez, así un rollback nunca deja escrituras
// parciales visibles.
func (t *tables) clone() *tables {
	c := &tables{
		movements:     make([]*entity.MovementRecord, len(t.movements)),
		movementsByID: make(map[string]*entity.MovementRecord, len(t.movementsByID)),
		stock:         make(map[string]*entity.StockLevel, len(t.stock)),
		transfers:     make(map[string]*entity.Transfer, len(t.transfers)),
		shrinkages:    make(map[string]*entity.ShrinkageRequest, len(t.shrinkages)),
		batches:       make(map[string]*entity.AdjustmentBatch, len(t.batches)),
		products:      make(map[string]*entity.Product, len(t.products)),
		warehouses:    make(map[string]*entity.Warehouse, len(t.warehouses)),
	}
	for i, m := range t.movements {
		mc := *m
		c.movements[i] = &mc
		c.movementsByID[mc.ID] = &mc
	}
	for k, s := range t.stock {
		sc := *s
		c.stock[k] = &sc
	}
	for k, tr := range t.transfers {
		tc := *tr
		tc.Lines = append([]entity.TransferLine(nil), tr.Lines...)
		c.transfers[k] = &tc
	}
	for k, s := range t.shrinkages {
		sc := *s
		c.shrinkages[k] = &sc
	}
	for k, b := range t.batches {
		bc := *b
		bc.MovementIDs = append([]string(nil), b.MovementIDs...)
		c.batches[k] = &bc
	}
	for k, p := range t.products {
		pc := *p
		c.products[k] = &pc
	}
	for k, w := range t.warehouses {
		wc := *w
		c.warehouses[k] = &wc
	}
	return c
}

// accessor abstrae si un repositorio lee el estado publicado (con locking) o
// la copia privada de una transacción (sin locking, el escritor es único).
type accessor interface {
	view(fn func(t *tables) error) error
	update(fn func(t *tables) error) error
}

// Store almacén en memoria para desarrollo y pruebas. Un semáforo de escritor
// único serializa las transacciones; mu protege las lecturas concurrentes del
// estado publicado.
type Store struct {
	mu       sync.RWMutex
	data     *tables
	writeSem chan struct{}
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		data:     newTables(),
		writeSem: make(chan struct{}, 1),
	}
}

func (s *Store) view(fn func(t *tables) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// update aplica una escritura directa (fuera de transacción). Se usa para el
// catálogo; las escrituras del motor pasan siempre por el TxRunner.
func (s *Store) update(fn func(t *tables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// txView es el accessor de una transacción: opera sobre la copia privada.
type txView struct {
	t *tables
}

func (v *txView) view(fn func(t *tables) error) error   { return fn(v.t) }
func (v *txView) update(fn func(t *tables) error) error { return fn(v.t) }

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func paginate[T any](list []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 100
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}
