package repository

import "github.com/invorya/inventario-ledger/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Upsert solo debe invocarse dentro de la transacción que registra el movimiento
// correspondiente (el libro es la fuente de verdad; el stock es proyección).
type StockRepository interface {
	Get(productID, warehouseID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE o equivalente).
	// Si la espera por el bloqueo supera el límite configurado devuelve
	// domain.ErrContentionTimeout.
	GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error)
	Upsert(stock *entity.StockLevel) error
	// List devuelve los niveles de stock; warehouseID vacío lista todas las bodegas.
	List(warehouseID string, limit, offset int) ([]*entity.StockLevel, error)
}
