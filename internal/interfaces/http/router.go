package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/inventario-ledger/internal/application/adjustment"
	"github.com/invorya/inventario-ledger/internal/application/bulkcharge"
	"github.com/invorya/inventario-ledger/internal/application/export"
	"github.com/invorya/inventario-ledger/internal/application/shrinkage"
	"github.com/invorya/inventario-ledger/internal/application/transfer"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AdjustmentEngine  *adjustment.Engine
	BulkProcessor     *bulkcharge.Processor
	TransferWorkflow  *transfer.Workflow
	ShrinkageWorkflow *shrinkage.Workflow
	Exporter          *export.UseCase
	Movements         repository.MovementRepository
	Stock             repository.StockRepository
	Batches           repository.BatchRepository
	JWTSecret         string
}

// Router registra las rutas de la API. Toda la API es protegida (Bearer Token);
// las operaciones que corrigen historia (revertir, anular, aprobar/rechazar
// mermas) exigen además rol supervisor o admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/inventario", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(RoleAdmin, RoleSupervisor, RoleBodeguero)
	supervisorUp := RequireRole(RoleAdmin, RoleSupervisor)

	// Ajustes y cargas masivas
	adjHandler := NewAdjustmentHandler(deps.AdjustmentEngine, deps.BulkProcessor, deps.Batches)
	protected.Post("/ajuste", anyRole, adjHandler.Adjust)
	protected.Post("/ajustes-masivos", anyRole, adjHandler.BulkUpload)
	protected.Get("/cargas", anyRole, adjHandler.ListBatches)
	protected.Get("/cargas/:id", anyRole, adjHandler.GetBatch)
	protected.Post("/cargas/:id/revertir", supervisorUp, adjHandler.RevertBatch)

	// Historial, stock y exportaciones
	movHandler := NewMovementHandler(deps.Movements, deps.Stock, deps.Exporter)
	protected.Get("/stock", anyRole, movHandler.ListStock)
	protected.Get("/movimientos", anyRole, movHandler.ListMovements)
	protected.Get("/movimientos/export", anyRole, movHandler.ExportMovements)
	protected.Get("/movimientos/:id", anyRole, movHandler.GetMovement)
	protected.Post("/movimientos/:id/anular", supervisorUp, adjHandler.RevertMovement)

	// Transferencias entre bodegas
	trHandler := NewTransferHandler(deps.TransferWorkflow)
	protected.Post("/transferencias", anyRole, trHandler.Create)
	protected.Get("/transferencias", anyRole, trHandler.List)
	protected.Get("/transferencias/:id", anyRole, trHandler.GetByID)
	protected.Put("/transferencias/:id", anyRole, trHandler.Update)
	protected.Post("/transferencias/:id/enviar", anyRole, trHandler.Send)
	protected.Post("/transferencias/:id/recibir", anyRole, trHandler.Receive)
	protected.Post("/transferencias/:id/cancelar", supervisorUp, trHandler.Cancel)

	// Mermas
	shHandler := NewShrinkageHandler(deps.ShrinkageWorkflow)
	protected.Post("/mermas", anyRole, shHandler.Create)
	protected.Get("/mermas", anyRole, shHandler.List)
	protected.Get("/mermas/:id", anyRole, shHandler.GetByID)
	protected.Post("/mermas/:id/aprobar", supervisorUp, shHandler.Approve)
	protected.Post("/mermas/:id/rechazar", supervisorUp, shHandler.Reject)
}
