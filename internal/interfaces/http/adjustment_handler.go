package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/inventario-ledger/internal/application/adjustment"
	"github.com/invorya/inventario-ledger/internal/application/bulkcharge"
	"github.com/invorya/inventario-ledger/internal/application/dto"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// AdjustmentHandler maneja ajustes manuales, cargas masivas y anulaciones (protegido).
type AdjustmentHandler struct {
	engine    *adjustment.Engine
	processor *bulkcharge.Processor
	batches   repository.BatchRepository
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(engine *adjustment.Engine, processor *bulkcharge.Processor, batches repository.BatchRepository) *AdjustmentHandler {
	return &AdjustmentHandler{engine: engine, processor: processor, batches: batches}
}

// Adjust godoc
// @Summary      Registrar un ajuste manual de stock
// @Tags         ajustes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "product_id, warehouse_id, delta (≠0), reason"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/ajuste [post]
func (h *AdjustmentHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if !parseBody(c, &in) {
		return nil
	}
	mov, err := h.engine.Adjust(c.Context(), adjustment.AdjustInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Delta:       in.Delta,
		Reason:      in.Reason,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(mov))
}

// BulkUpload godoc
// @Summary      Aplicar una carga de ajustes masivos (CSV)
// @Description  Archivo multipart "archivo" con columnas product_id,warehouse_id,delta,reason.
//
//	La carga es todo-o-nada: una fila inválida rechaza el archivo completo.
//
// @Tags         ajustes
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "CSV de ajustes"
// @Success      201  {object}  dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/ajustes-masivos [post]
func (h *AdjustmentHandler) BulkUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo CSV requerido (campo 'archivo')"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	batch, err := h.processor.Process(c.Context(), fh.Filename, f, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromBatch(batch))
}

// RevertBatch godoc
// @Summary      Revertir una carga de ajustes masivos
// @Description  Emite un REVERSAL por cada movimiento original. Exactamente una vez por carga.
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la carga"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/cargas/{id}/revertir [post]
func (h *AdjustmentHandler) RevertBatch(c *fiber.Ctx) error {
	batch, err := h.engine.RevertBatch(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromBatch(batch))
}

// RevertMovement godoc
// @Summary      Anular un movimiento individual
// @Description  Solo ajustes y mermas; transferencias se corrigen cancelando.
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/{id}/anular [post]
func (h *AdjustmentHandler) RevertMovement(c *fiber.Ctx) error {
	rev, err := h.engine.RevertSingle(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(rev))
}

// GetBatch godoc
// @Summary      Consultar una carga por ID
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la carga"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/cargas/{id} [get]
func (h *AdjustmentHandler) GetBatch(c *fiber.Ctx) error {
	b, err := h.batches.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if b == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "carga no encontrada"})
	}
	return c.JSON(dto.FromBatch(b))
}

// ListBatches godoc
// @Summary      Listar cargas de ajustes masivos
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventario/cargas [get]
func (h *AdjustmentHandler) ListBatches(c *fiber.Ctx) error {
	page := parsePage(c)
	list, err := h.batches.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, dto.FromBatch(b))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
