// Package pdf implementa la generación del kárdex de movimientos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte │ Fecha de generación            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Producto | Bodega | Delta | Motivo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: total de movimientos                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/invorya/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoMovementsGenerator implementa export.MovementPDFGenerator usando Maroto v2.
type MarotoMovementsGenerator struct{}

// NewMarotoMovementsGenerator construye el generador.
func NewMarotoMovementsGenerator() *MarotoMovementsGenerator { return &MarotoMovementsGenerator{} }

// GenerateMovementsPDF genera el kárdex y devuelve sus bytes.
func (g *MarotoMovementsGenerator) GenerateMovementsPDF(
	_ context.Context,
	title string,
	movements []*entity.MovementRecord,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(movements) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(movements)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del reporte (izq) y fecha de generación (der).
func headerRow(title string) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Producto", 2, align.Left),
		h("Bodega", 2, align.Left),
		h("Delta", 1, align.Right),
		h("Motivo", 3, align.Left),
	)
}

// tableRows: una fila por movimiento.
func tableRows(movements []*entity.MovementRecord) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				mv.CreatedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 7, Top: 1},
			)),
			col.New(2).Add(text.New(mv.Kind, props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(mv.ProductID, props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(mv.WarehouseID, props.Text{Size: 7, Top: 1})),
			col.New(1).Add(text.New(
				mv.Delta.String(),
				props.Text{Size: 7, Align: align.Right, Top: 1},
			)),
			col.New(3).Add(text.New(mv.Reason, props.Text{Size: 7, Top: 1, Color: colorGray})),
		))
	}
	return result
}

// footerRow: total de movimientos listados.
func footerRow(count int) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Total de movimientos: %d", count), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		),
	)
}
