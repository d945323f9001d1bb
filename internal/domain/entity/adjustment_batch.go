package entity

import "time"

// Estados de una carga de ajustes masivos.
const (
	BatchStatusApplied  = "APPLIED"  // aplicada: todos sus movimientos fueron confirmados
	BatchStatusReverted = "REVERTED" // revertida: existe un REVERSAL por cada movimiento original
)

// AdjustmentBatch ("carga") agrupa los ajustes masivos aplicados desde un
// archivo bajo un identificador reversible. Revertir una carga crea un
// REVERSAL por movimiento original; nunca borra historia, y solo puede
// hacerse una vez.
type AdjustmentBatch struct {
	ID            string
	SourceFileRef string
	MovementIDs   []string
	Status        string
	CreatedBy     string
	CreatedAt     time.Time
	RevertedBy    string
	RevertedAt    *time.Time
}
