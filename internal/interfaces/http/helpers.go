package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/inventario-ledger/internal/application/dto"
	"github.com/invorya/inventario-ledger/internal/domain"
)

var validate = validator.New()

// parseBody parsea y valida el body JSON. Devuelve false si ya respondió error.
func parseBody(c *fiber.Ctx, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		return false
	}
	return true
}

// respondError mapea errores de dominio a códigos HTTP.
//
//	ErrInvalidInput       → 400
//	ErrNotFound           → 404
//	conflictos de estado  → 409
//	ErrContentionTimeout  → 503 (reintentable)
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotReversible):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_REVERSIBLE", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyReverted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_REVERTED", Message: err.Error()})
	case errors.Is(err, domain.ErrContentionTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONTENTION_TIMEOUT", Message: "recurso ocupado, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// parsePage lee limit/offset de la query con defaults.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	var p dto.PageRequest
	p.Limit = c.QueryInt("limit")
	p.Offset = c.QueryInt("offset")
	p.DefaultPage()
	return p
}
