package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/inventario-ledger/internal/application/dto"
	"github.com/invorya/inventario-ledger/internal/application/export"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// MovementHandler consultas de solo lectura: historial, stock y exportaciones.
type MovementHandler struct {
	movements repository.MovementRepository
	stock     repository.StockRepository
	exporter  *export.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(movements repository.MovementRepository, stock repository.StockRepository, exporter *export.UseCase) *MovementHandler {
	return &MovementHandler{movements: movements, stock: stock, exporter: exporter}
}

// movementFilter arma el filtro del repositorio desde la query.
func movementFilter(c *fiber.Ctx) (repository.MovementFilter, error) {
	page := parsePage(c)
	filter := repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Kind:        c.Query("kind"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}
	return filter, nil
}

// ListMovements godoc
// @Summary      Historial de movimientos (kárdex)
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        kind          query  string  false  "ADJUSTMENT | BULK_ADJUSTMENT | TRANSFER_OUT | TRANSFER_IN | SHRINKAGE | REVERSAL"
// @Param        from          query  string  false  "Desde (RFC 3339)"
// @Param        to            query  string  false  "Hasta (RFC 3339)"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos [get]
func (h *MovementHandler) ListMovements(c *fiber.Ctx) error {
	filter, err := movementFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas en formato RFC 3339"})
	}
	movs, err := h.movements.List(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.FromMovements(movs),
		"page":  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	})
}

// GetMovement godoc
// @Summary      Consultar un movimiento por ID
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/{id} [get]
func (h *MovementHandler) GetMovement(c *fiber.Ctx) error {
	m, err := h.movements.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if m == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(dto.FromMovement(m))
}

// ListStock godoc
// @Summary      Stock actual por bodega y producto
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (vacío = todas)"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventario/stock [get]
func (h *MovementHandler) ListStock(c *fiber.Ctx) error {
	page := parsePage(c)
	list, err := h.stock.List(c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.FromStock(s))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// ExportMovements godoc
// @Summary      Exportar el historial de movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      application/octet-stream
// @Param        formato       query  string  false  "xlsx (default) | pdf"
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        kind          query  string  false  "Filtrar por tipo"
// @Param        from          query  string  false  "Desde (RFC 3339)"
// @Param        to            query  string  false  "Hasta (RFC 3339)"
// @Success      200  {file}  file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/export [get]
func (h *MovementHandler) ExportMovements(c *fiber.Ctx) error {
	filter, err := movementFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas en formato RFC 3339"})
	}

	switch c.Query("formato", "xlsx") {
	case "pdf":
		pdf, err := h.exporter.MovementsPDF(c.Context(), filter)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.pdf"`)
		return c.Send(pdf)
	case "xlsx":
		f, err := h.exporter.MovementsExcel(c.Context(), filter)
		if err != nil {
			return respondError(c, err)
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.xlsx"`)
		return c.Send(buf.Bytes())
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato: xlsx o pdf"})
	}
}
