package cache

// Config holds configuration for the Redis connection.
type Config struct {
	// Enabled turns the reconciled-result cache on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the logical database index.
	DB int `mapstructure:"db" default:"0" validate:"min=0"`
	// TimeoutSeconds bounds dialing and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5" validate:"min=0"`
}
