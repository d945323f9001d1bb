package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/inventario-ledger/internal/application/dto"
	"github.com/invorya/inventario-ledger/internal/application/shrinkage"
)

// ShrinkageHandler maneja solicitudes de merma (protegido). La aprobación y el
// rechazo requieren rol supervisor o admin (RequireRole en el router).
type ShrinkageHandler struct {
	workflow *shrinkage.Workflow
}

// NewShrinkageHandler construye el handler.
func NewShrinkageHandler(workflow *shrinkage.Workflow) *ShrinkageHandler {
	return &ShrinkageHandler{workflow: workflow}
}

// Create godoc
// @Summary      Registrar solicitud de merma (PENDING, sin efecto en stock)
// @Tags         mermas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShrinkageRequest  true  "product_id, warehouse_id, quantity (>0), reason"
// @Success      201  {object}  dto.ShrinkageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/mermas [post]
func (h *ShrinkageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShrinkageRequest
	if !parseBody(c, &in) {
		return nil
	}
	req, err := h.workflow.Request(c.Context(), shrinkage.RequestInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromShrinkage(req))
}

// Approve godoc
// @Summary      Aprobar merma (PENDING→APPROVED, descuenta stock)
// @Tags         mermas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ShrinkageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/mermas/{id}/aprobar [post]
func (h *ShrinkageHandler) Approve(c *fiber.Ctx) error {
	req, err := h.workflow.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShrinkage(req))
}

// Reject godoc
// @Summary      Rechazar merma (PENDING→REJECTED, sin efecto en stock)
// @Tags         mermas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RejectShrinkageRequest  false  "motivo del rechazo"
// @Success      200  {object}  dto.ShrinkageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/mermas/{id}/rechazar [post]
func (h *ShrinkageHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectShrinkageRequest
	// body opcional
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	req, err := h.workflow.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShrinkage(req))
}

// GetByID godoc
// @Summary      Consultar solicitud de merma por ID
// @Tags         mermas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ShrinkageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/mermas/{id} [get]
func (h *ShrinkageHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.workflow.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShrinkage(req))
}

// List godoc
// @Summary      Listar solicitudes de merma
// @Tags         mermas
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPROVED | REJECTED"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventario/mermas [get]
func (h *ShrinkageHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	list, err := h.workflow.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.FromShrinkages(list),
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
