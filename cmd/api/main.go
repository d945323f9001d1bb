package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/invorya/inventario-ledger/internal/application/adjustment"
	"github.com/invorya/inventario-ledger/internal/application/bulkcharge"
	"github.com/invorya/inventario-ledger/internal/application/export"
	"github.com/invorya/inventario-ledger/internal/application/ledger"
	"github.com/invorya/inventario-ledger/internal/application/shrinkage"
	"github.com/invorya/inventario-ledger/internal/application/transfer"
	"github.com/invorya/inventario-ledger/internal/domain/repository"
	"github.com/invorya/inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/invorya/inventario-ledger/internal/infrastructure/pdf"
	"github.com/invorya/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/inventario-ledger/internal/interfaces/http"
	"github.com/invorya/inventario-ledger/pkg/config"
	"github.com/invorya/inventario-ledger/pkg/logger"
)

// stores agrupa los adaptadores de persistencia seleccionados por STORE_DRIVER.
type stores struct {
	tx         ledger.TxRunner
	movements  repository.MovementRepository
	stock      repository.StockRepository
	transfers  repository.TransferRepository
	shrinkages repository.ShrinkageRepository
	batches    repository.BatchRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st stores
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		st = stores{
			tx:         memory.NewTxRunner(store, cfg.Ledger.LockTimeoutMS),
			movements:  memory.NewMovementRepository(store),
			stock:      memory.NewStockRepository(store),
			transfers:  memory.NewTransferRepository(store),
			shrinkages: memory.NewShrinkageRepository(store),
			batches:    memory.NewBatchRepository(store),
			products:   memory.NewProductRepository(store),
			warehouses: memory.NewWarehouseRepository(store),
			close:      func() {},
		}
		log.Warn().Msg("almacén en memoria: sin durabilidad, solo desarrollo/demos")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		st = stores{
			tx:         postgres.NewTxRunner(pool, cfg.Ledger.LockTimeoutMS),
			movements:  postgres.NewMovementRepository(pool),
			stock:      postgres.NewStockRepository(pool),
			transfers:  postgres.NewTransferRepository(pool),
			shrinkages: postgres.NewShrinkageRepository(pool),
			batches:    postgres.NewBatchRepository(pool),
			products:   postgres.NewProductRepository(pool),
			warehouses: postgres.NewWarehouseRepository(pool),
			close:      pool.Close,
		}
	}
	defer st.close()

	adjustmentEngine := adjustment.NewEngine(
		st.tx, st.products, st.warehouses, st.batches,
		cfg.Ledger.AllowNegativeAdjustment,
	)
	bulkProcessor := bulkcharge.NewProcessor(adjustmentEngine)
	transferWorkflow := transfer.NewWorkflow(st.tx, st.transfers, st.products, st.warehouses)
	shrinkageWorkflow := shrinkage.NewWorkflow(st.tx, st.shrinkages, st.products, st.warehouses)
	exporter := export.NewUseCase(st.movements, st.stock, infrapdf.NewMarotoMovementsGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AdjustmentEngine:  adjustmentEngine,
		BulkProcessor:     bulkProcessor,
		TransferWorkflow:  transferWorkflow,
		ShrinkageWorkflow: shrinkageWorkflow,
		Exporter:          exporter,
		Movements:         st.movements,
		Stock:             st.stock,
		Batches:           st.batches,
		JWTSecret:         cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
