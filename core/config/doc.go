// Package config provides configuration management for the parts manager.
//
// It uses Viper to read environment variables (optionally from a .env file).
// Every field carries a `mapstructure` key and a `default` tag; bindValues
// registers them so that AutomaticEnv resolves SECTION_KEY variables.
//
// # Configuration Structure
//
//   - Log: level and format
//   - Database: part type store (mysql or sqlite)
//   - Storage: MinIO/S3 archive of reconciled metadata
//   - Redis: reconciled-result cache
//   - Suppliers: DigiKey, Mouser and Octopart switches
//   - Reconcile: cost policy, fetch timeout, cache lifetimes, archiving
//
// LoadConfig validates the result with the `validate` tags.
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.Reconcile.Options()
package config
