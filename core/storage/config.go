package storage

// Config holds configuration for the object storage holding metadata snapshots.
type Config struct {
	// Endpoint is the host:port of the S3-compatible service; a scheme is stripped.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`

	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the archived part metadata.
	Bucket string `mapstructure:"bucket" default:"parts-metadata" validate:"required"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS handshake and the first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30" validate:"min=0"`
}
