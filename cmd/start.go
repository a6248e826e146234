package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"odf-core/core/config"
	"odf-core/core/database"
	"odf-core/core/loader"
	"odf-core/core/logger"
	"odf-core/core/middleware/rayid"
	"odf-core/core/storage"
	"odf-core/feature/odf"
	"odf-core/feature/odf/models"
	"odf-core/feature/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingestion and read API server",
	Long:  `Starts the HTTP server, migrates the schema and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database and migrate the entity tables
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}
		if err := database.Migrate(db, models.All()...); err != nil {
			logg.Fatal("Schema migration failed", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

		// 4. Initialize Storage (optional; flags resolve to empty without it)
		var store storage.Client
		if s, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			store = s
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/healthz", func(c *fiber.Ctx) error {
			if err := database.Ping(c.Context(), db); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "degraded", "error": err.Error(),
				})
			}
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 6. Initialize Feature Loader
		var notifier odf.Notifier
		if cfg.Ingest.NotifyURL != "" {
			notifier = odf.NewWebhookNotifier(cfg.Ingest.NotifyURL, logg)
		}

		mgr := loader.NewManager()
		mgr.Register(odf.NewFeature(db, logg, notifier))
		mgr.Register(snapshot.NewFeature(db, logg, store, cfg.Storage))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
