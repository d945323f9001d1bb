package bulkcharge

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invorya/inventario-ledger/internal/application/adjustment"
	"github.com/invorya/inventario-ledger/internal/domain"
	"github.com/invorya/inventario-ledger/internal/domain/entity"
)

// Columnas esperadas del CSV de carga masiva.
var expectedHeader = []string{"product_id", "warehouse_id", "delta", "reason"}

// Processor convierte un archivo de carga ("carga") en una llamada
// todo-o-nada a AdjustmentEngine.ApplyBatch bajo un identificador de carga
// reversible. Los errores estructurales del archivo nombran la línea
// ofensora; nada se confirma si alguna fila es inválida.
type Processor struct {
	engine *adjustment.Engine
}

// NewProcessor construye el procesador de cargas.
func NewProcessor(engine *adjustment.Engine) *Processor {
	return &Processor{engine: engine}
}

// Process parsea el CSV (product_id,warehouse_id,delta,reason) y aplica la
// carga como una unidad. fileRef identifica el archivo de origen para auditoría.
func (p *Processor) Process(ctx context.Context, fileRef string, file io.Reader, actorID string) (*entity.AdjustmentBatch, error) {
	entries, err := parse(file)
	if err != nil {
		return nil, err
	}
	return p.engine.ApplyBatch(ctx, entries, fileRef, actorID)
}

// parse valida estructura y tipos del archivo; no toca el libro.
func parse(file io.Reader) ([]adjustment.BatchEntry, error) {
	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("archivo vacío: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %v: %w", err, domain.ErrInvalidInput)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var entries []adjustment.BatchEntry
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %v: %w", line, err, domain.ErrInvalidInput)
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("línea %d: faltan columnas: %w", line, domain.ErrInvalidInput)
		}

		productID := strings.TrimSpace(record[0])
		warehouseID := strings.TrimSpace(record[1])
		if productID == "" || warehouseID == "" {
			return nil, fmt.Errorf("línea %d: product_id y warehouse_id requeridos: %w", line, domain.ErrInvalidInput)
		}
		delta, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: delta %q no numérico: %w", line, record[2], domain.ErrInvalidInput)
		}
		if delta.IsZero() {
			return nil, fmt.Errorf("línea %d: delta cero: %w", line, domain.ErrInvalidInput)
		}
		reason := ""
		if len(record) > 3 {
			reason = strings.TrimSpace(record[3])
		}

		entries = append(entries, adjustment.BatchEntry{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Delta:       delta,
			Reason:      reason,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("carga sin filas de datos: %w", domain.ErrInvalidInput)
	}
	return entries, nil
}

func checkHeader(header []string) error {
	if len(header) < 3 {
		return fmt.Errorf("encabezado incompleto (se espera %s): %w",
			strings.Join(expectedHeader, ","), domain.ErrInvalidInput)
	}
	for i, want := range expectedHeader[:3] {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		if got != want {
			return fmt.Errorf("columna %d: se espera %q, llegó %q: %w", i+1, want, header[i], domain.ErrInvalidInput)
		}
	}
	return nil
}
