// Package server holds the local HTTP API configuration.
//
// While the main application entry point handles the server startup, this
// package defines the configuration structure for the companion's local
// control API, which the desktop UI talks to.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key protecting the
// local endpoints.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings.
package server
