package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"fakeout/core/config"
	"fakeout/core/database"
	"fakeout/core/datasets"
	"fakeout/core/loader"
	"fakeout/core/logger"
	"fakeout/core/middleware/auth"
	"fakeout/core/middleware/rayid"
	"fakeout/core/storage"

	"fakeout/feature/deck"
	"fakeout/feature/scores"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the game backend server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
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

		// 3. Connect to Database (Optional)
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, scores disabled", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to score database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Dataset API Client
		dsClient := datasets.NewClient(cfg.Datasets)

		// 6. Curated Image Storage (Optional)
		var store storage.Client
		if cfg.Storage.Enabled {
			if client, err := storage.NewClient(cfg.Storage); err != nil {
				logg.Warn("Optional storage connection failed, curated source disabled", zap.Error(err))
			} else {
				store = client
			}
		}

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(deck.NewFeature(cfg.Deck, dsClient, store, cfg.Storage, logg))
		mgr.Register(scores.NewFeature(db, logg))

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

		// Score mutations are protected when an API key is configured; deck
		// assembly stays public for the game client.
		if cfg.Server.RequiresAuth() {
			app.Use("/scores", auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		}

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
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
