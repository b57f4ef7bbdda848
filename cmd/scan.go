package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"scribey-companion/core/config"
	"scribey-companion/core/extract"
	"scribey-companion/core/luatable"
	"scribey-companion/core/paths"
	"scribey-companion/core/settings"

	"github.com/spf13/cobra"
)

var scanRoot string

// scanResult is the per-file output of a one-shot scan.
type scanResult struct {
	Path     string                 `json:"path"`
	Snapshot *extract.AddonSnapshot `json:"snapshot,omitempty"`
	Ledger   *extract.Ledger        `json:"ledger,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Decode the SavedVariables files once and print the snapshots",
	Long: `Resolves the SavedVariables paths, decodes each file and prints the
extracted snapshots as JSON. Nothing is uploaded.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		root := scanRoot
		if root == "" {
			root = cfg.Wow.InstallPath
		}
		if root == "" {
			prov, err := settings.NewFileProvider(cfg.Settings.Path)
			if err != nil {
				log.Fatalf("Failed to load user settings: %v", err)
			}
			root = prov.WowPath()
		}
		if root == "" {
			log.Fatal("No installation path configured; pass --root or set WOW_INSTALL_PATH")
		}

		files, err := paths.Resolve(root, cfg.Wow.AddonFile)
		if err != nil {
			log.Fatalf("Path resolution failed: %v", err)
		}

		results := make([]scanResult, 0, len(files))
		for _, file := range files {
			results = append(results, scanFile(file, cfg.Wow.TableName))
		}

		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode results: %v", err)
		}
		fmt.Println(string(out))
	},
}

// scanFile decodes one file. Failures are reported per file, never fatally.
func scanFile(path, tableName string) scanResult {
	result := scanResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	value, err := luatable.DecodeGlobal(data, tableName)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	snapshot, ledger, err := extract.Extract(value, data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Snapshot = snapshot
	result.Ledger = ledger
	return result
}

func init() {
	scanCmd.Flags().StringVar(&scanRoot, "root", "", "World of Warcraft installation root")
	RootCmd.AddCommand(scanCmd)
}
