package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrInvalidState operación no válida para el estado actual de la entidad
	// (p.ej. recibir una transferencia ya recibida, aprobar una merma resuelta).
	ErrInvalidState = errors.New("operación no válida para el estado actual")

	// ErrNotReversible el movimiento no admite anulación (es una reversión,
	// pertenece a una transferencia, o ya fue anulado).
	ErrNotReversible = errors.New("movimiento no reversible")

	// ErrAlreadyReverted la carga ya fue revertida; una carga se revierte exactamente una vez.
	ErrAlreadyReverted = errors.New("carga ya revertida")

	// ErrContentionTimeout no se obtuvo el bloqueo de la fila de stock dentro del
	// tiempo configurado. No hubo escritura parcial; el llamador puede reintentar.
	ErrContentionTimeout = errors.New("tiempo de espera por bloqueo agotado")
)
