package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/inventario-ledger/internal/application/dto"
	"github.com/invorya/inventario-ledger/internal/application/transfer"
)

// TransferHandler maneja transferencias entre bodegas (protegido).
type TransferHandler struct {
	workflow *transfer.Workflow
}

// NewTransferHandler construye el handler.
func NewTransferHandler(workflow *transfer.Workflow) *TransferHandler {
	return &TransferHandler{workflow: workflow}
}

// Create godoc
// @Summary      Crear transferencia en borrador
// @Tags         transferencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "bodegas origen/destino y líneas"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/transferencias [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if !parseBody(c, &in) {
		return nil
	}
	t, err := h.workflow.Create(c.Context(), transfer.CreateInput{
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Lines:             dto.ToLines(in.Lines),
		ActorID:           GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransfer(t))
}

// Update godoc
// @Summary      Reemplazar líneas de una transferencia (solo DRAFT)
// @Tags         transferencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transferencia"
// @Param        body  body  dto.UpdateTransferRequest  true  "líneas nuevas"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/transferencias/{id} [put]
func (h *TransferHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTransferRequest
	if !parseBody(c, &in) {
		return nil
	}
	t, err := h.workflow.Update(c.Context(), c.Params("id"), dto.ToLines(in.Lines), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Send godoc
// @Summary      Enviar transferencia (DRAFT→SENT, descuenta origen)
// @Tags         transferencias
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/transferencias/{id}/enviar [post]
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	t, err := h.workflow.Send(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Receive godoc
// @Summary      Recibir transferencia (SENT→RECEIVED, acredita destino)
// @Tags         transferencias
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/transferencias/{id}/recibir [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	t, err := h.workflow.Receive(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Cancel godoc
// @Summary      Cancelar transferencia (DRAFT o SENT; en SENT compensa el origen)
// @Tags         transferencias
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/transferencias/{id}/cancelar [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	t, err := h.workflow.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// GetByID godoc
// @Summary      Consultar transferencia por ID
// @Tags         transferencias
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/transferencias/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.workflow.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// List godoc
// @Summary      Listar transferencias
// @Tags         transferencias
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT | SENT | RECEIVED | CANCELLED"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventario/transferencias [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	list, err := h.workflow.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.FromTransfers(list),
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
