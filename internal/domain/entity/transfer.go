package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transferencia entre bodegas.
const (
	TransferStatusDraft     = "DRAFT"     // borrador, editable, sin efecto en stock
	TransferStatusSent      = "SENT"      // enviada: stock descontado en origen
	TransferStatusReceived  = "RECEIVED"  // recibida: stock acreditado en destino (terminal)
	TransferStatusCancelled = "CANCELLED" // cancelada (terminal; compensa origen si estaba enviada)
)

// TransferLine una línea (producto, cantidad) de la transferencia.
type TransferLine struct {
	ProductID string
	Quantity  decimal.Decimal // siempre > 0
}

// Transfer representa una transferencia de stock entre dos bodegas.
// El stock de origen solo cambia en la transición a SENT y el de destino solo
// en la transición a RECEIVED; cancelar en SENT emite reversiones que
// restauran el origen.
type Transfer struct {
	ID                string
	SourceWarehouseID string
	DestWarehouseID   string
	Lines             []TransferLine
	Status            string
	CreatedBy         string
	CreatedAt         time.Time
	SentBy            string
	SentAt            *time.Time
	ReceivedBy        string
	ReceivedAt        *time.Time
	CancelledBy       string
	CancelledAt       *time.Time
}
