package storage

// Config holds configuration for the archive storage backend.
type Config struct {
	// Enabled toggles raw-capture archival.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the storage service address, without scheme.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the bucket receiving archived captures.
	Bucket string `mapstructure:"bucket" default:"scribey-archive"`
	// Region is the bucket location (e.g. us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
