package server

// Config holds configuration for the local HTTP API.
type Config struct {
	// Port is the port where the local API will listen.
	Port string `mapstructure:"port" default:"8089"`
	// ApiKey is the secret key required to access the API.
	// Empty disables authentication, which is the default for a
	// loopback-only agent.
	ApiKey string `mapstructure:"api_key" default:""`
}
