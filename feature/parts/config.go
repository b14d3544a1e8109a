package parts

import (
	"time"

	"parts-manager/core/reconcile"
)

// Config holds the reconciliation settings of the parts service.
type Config struct {
	// CostPolicy decides whether a supplier is named when neither side has a price.
	CostPolicy string `mapstructure:"cost_policy" default:"none_without_price" validate:"oneof=none_without_price prefer_primary"`
	// FetchTimeoutSeconds bounds the concurrent supplier fetches; 0 disables the bound.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"20" validate:"min=0"`
	TaxonomyTTLSeconds  int `mapstructure:"taxonomy_ttl_seconds" default:"300" validate:"min=0"`
	ResultTTLSeconds    int `mapstructure:"result_ttl_seconds" default:"3600" validate:"min=0"`
	// Archive stores a snapshot of every reconciled record in object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// AutoMigrate creates or updates the part_types table on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}

// Options converts the configuration into service options.
func (c Config) Options() (Options, error) {
	policy, err := reconcile.ParseCostPolicy(c.CostPolicy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		CostPolicy:   policy,
		FetchTimeout: time.Duration(c.FetchTimeoutSeconds) * time.Second,
		TaxonomyTTL:  time.Duration(c.TaxonomyTTLSeconds) * time.Second,
	}, nil
}

// ResultTTL is the expiry of cached records.
func (c Config) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLSeconds) * time.Second
}
