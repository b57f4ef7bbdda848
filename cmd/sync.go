package cmd

import (
	"context"
	"log"
	"time"

	"scribey-companion/core/client"
	"scribey-companion/core/config"
	"scribey-companion/core/logger"
	"scribey-companion/core/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Force a server-side sync of all data",
	Long: `Probes the Scribey web service and requests a full sync for this
device. The upload queue is not involved.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		prov, err := settings.NewFileProvider(cfg.Settings.Path)
		if err != nil {
			logg.Fatal("Failed to load user settings", zap.Error(err))
		}

		uploadCfg := cfg.Upload
		if url := prov.ServerURL(); url != "" {
			uploadCfg.ServerURL = url
		}
		cli := client.New(uploadCfg, prov.DeviceID(), logg)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(uploadCfg.TimeoutSeconds)*time.Second)
		defer cancel()

		status, err := cli.Status(ctx)
		if err != nil {
			logg.Fatal("Server unreachable", zap.Error(err))
		}
		logg.Info("Server reachable",
			zap.String("version", status.Version),
			zap.Duration("latency", status.Latency),
		)

		if err := cli.ForceSync(ctx); err != nil {
			logg.Fatal("Sync request failed", zap.Error(err))
		}
		logg.Info("Sync requested", zap.String("device", prov.DeviceID()))
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
