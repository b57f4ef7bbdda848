package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scribey-companion/core/client"
	"scribey-companion/core/config"
	"scribey-companion/core/journal"
	"scribey-companion/core/loader"
	"scribey-companion/core/logger"
	"scribey-companion/core/middleware/auth"
	"scribey-companion/core/middleware/rayid"
	"scribey-companion/core/queue"
	"scribey-companion/core/settings"
	"scribey-companion/core/storage"

	"scribey-companion/feature/companion"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the companion agent",
	Long:  `Starts the SavedVariables watcher, the upload queue and the local HTTP API.`,
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

		// 3. User Settings (holds the device identity)
		prov, err := settings.NewFileProvider(cfg.Settings.Path)
		if err != nil {
			logg.Fatal("Failed to load user settings", zap.Error(err))
		}
		// Seed the install path from the environment on first run.
		if prov.WowPath() == "" && cfg.Wow.InstallPath != "" {
			if err := prov.SetWowPath(cfg.Wow.InstallPath); err != nil {
				logg.Warn("Could not persist install path", zap.Error(err))
			}
		}

		// 4. Upload Client
		uploadCfg := cfg.Upload
		if url := prov.ServerURL(); url != "" {
			uploadCfg.ServerURL = url
		}
		cli := client.New(uploadCfg, prov.DeviceID(), logg)

		// 5. Queue Journal (Optional)
		var store *journal.Store
		var jour queue.Journal
		if cfg.Journal.Enabled {
			if st, err := journal.Open(cfg.Journal); err != nil {
				logg.Warn("Queue journal unavailable, running memory-only", zap.Error(err))
			} else {
				store = st
				jour = st
			}
		}

		// 6. Upload Queue
		q := queue.New(queue.DefaultConfig(), cli, prov, jour, logg)

		// 7. Raw-Capture Archive (Optional)
		if cfg.Archive.Enabled {
			storeClient, err := storage.NewClient(cfg.Archive)
			if err != nil {
				logg.Fatal("Failed to create archive client", zap.Error(err))
			}
			archiver, err := storage.NewArchiver(context.Background(), storeClient, cfg.Archive.Bucket, logg)
			if err != nil {
				logg.Fatal("Failed to initialize archive", zap.Error(err))
			}
			q.OnDelivered = func(item *queue.Item) {
				data, err := os.ReadFile(item.SourcePath)
				if err != nil {
					logg.Warn("Cannot read capture for archival", zap.Error(err))
					return
				}
				if err := archiver.Store(context.Background(), item.SourcePath, data); err != nil {
					logg.Warn("Archive failed", zap.Error(err))
				}
			}
		}

		// Restore snapshots left over from the previous run.
		if store != nil {
			if items, err := store.LoadPending(); err != nil {
				logg.Warn("Could not restore journaled snapshots", zap.Error(err))
			} else {
				q.Restore(items)
			}
		}

		// 8. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 9. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		feat := companion.NewFeature(prov, cli, q, cfg.Wow.AddonFile, cfg.Wow.TableName, logg)
		mgr.Register(feat)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 10. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 11. Start Watching
		if err := feat.Service().StartWatching(); err != nil {
			if prov.WowPath() == "" {
				logg.Warn("No installation path configured; watcher idle until one is set")
			} else {
				logg.Fatal("Cannot watch SavedVariables", zap.Error(err))
			}
		}

		// 12. Start Server
		go func() {
			logg.Info("Starting local API", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Local API failed to start", zap.Error(err))
			}
		}()

		// 13. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		feat.Service().Stop()
		if store != nil {
			_ = store.Close()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
