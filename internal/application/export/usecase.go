package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// MovementPDFGenerator puerto para la representación PDF del historial (kárdex).
type MovementPDFGenerator interface {
	GenerateMovementsPDF(ctx context.Context, title string, movements []*entity.MovementRecord) ([]byte, error)
}

// UseCase exporta historial de movimientos y stock. Solo lectura: consume
// MovementRecords y StockLevels confirmados, nunca los modifica.
type UseCase struct {
	movements repository.MovementRepository
	stock     repository.StockRepository
	pdf       MovementPDFGenerator
}

// NewUseCase construye el caso de uso de exportación.
func NewUseCase(movements repository.MovementRepository, stock repository.StockRepository, pdf MovementPDFGenerator) *UseCase {
	return &UseCase{movements: movements, stock: stock, pdf: pdf}
}

// MovementsExcel genera un libro xlsx con el historial filtrado.
func (uc *UseCase) MovementsExcel(ctx context.Context, filter repository.MovementFilter) (*excelize.File, error) {
	movs, err := uc.movements.List(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Movimientos"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	// Encabezados
	headers := []string{"Fecha", "Tipo", "Producto", "Bodega", "Delta", "Motivo", "Actor", "Correlación", "Carga"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	// Datos
	for row, m := range movs {
		values := []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.Kind,
			m.ProductID,
			m.WarehouseID,
			m.Delta.String(),
			m.Reason,
			m.ActorID,
			m.CorrelationID,
			m.BatchID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}

// MovementsPDF genera el kárdex en PDF con el historial filtrado.
func (uc *UseCase) MovementsPDF(ctx context.Context, filter repository.MovementFilter) ([]byte, error) {
	movs, err := uc.movements.List(filter)
	if err != nil {
		return nil, err
	}
	title := "Kárdex de movimientos"
	if filter.WarehouseID != "" {
		title = fmt.Sprintf("%s — bodega %s", title, filter.WarehouseID)
	}
	return uc.pdf.GenerateMovementsPDF(ctx, title, movs)
}
