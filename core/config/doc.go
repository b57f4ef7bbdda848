// Package config provides configuration management for the companion.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: local HTTP API settings (port, API key)
//   - Wow: game installation path and SavedVariables naming
//   - Upload: Scribey web service endpoint and timeouts
//   - Journal: durable queue storage
//   - Archive: optional raw-capture object storage
//   - Settings: user-editable settings file location
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
