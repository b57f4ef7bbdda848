package cmd

import (
	"fmt"
	"log"

	"scribey-companion/core/config"
	"scribey-companion/core/paths"

	"github.com/spf13/cobra"
)

// commonInstallRoots are the locations the detector probes when no candidate
// is given explicitly.
var commonInstallRoots = []string{
	`C:\Program Files (x86)\World of Warcraft`,
	`C:\Program Files\World of Warcraft`,
	`C:\World of Warcraft`,
	`D:\World of Warcraft`,
	"/Applications/World of Warcraft",
}

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Check candidate World of Warcraft installation paths",
	Long: `Validates the given path as a World of Warcraft installation root.
Without an argument, common install locations and the configured path
are probed.`,
	Run: func(cmd *cobra.Command, args []string) {
		candidates := args
		if len(candidates) == 0 {
			cfg, err := config.LoadConfig(".")
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if cfg.Wow.InstallPath != "" {
				candidates = append(candidates, cfg.Wow.InstallPath)
			}
			candidates = append(candidates, commonInstallRoots...)
		}

		found := false
		for _, candidate := range candidates {
			if err := paths.ValidateRoot(candidate); err != nil {
				fmt.Printf("✗ %s\n", candidate)
				continue
			}
			fmt.Printf("✓ %s\n", candidate)
			found = true
		}
		if !found {
			fmt.Println("No valid installation found. Pass the root directory explicitly.")
		}
	},
}

func init() {
	RootCmd.AddCommand(detectCmd)
}
