package supplier

import (
	"context"
	"errors"

	"parts-manager/core/reconcile"
)

// ErrNotConfigured is returned by a source that has no credentials or is disabled.
// It is distinct from a configured source that found nothing (nil error, no listings).
var ErrNotConfigured = errors.New("supplier not configured")

// Query is a part lookup forwarded to every listing source.
type Query struct {
	PartNumber string
	// PartType and Package are optional hints for the distributor search.
	PartType string
	Package  string
}

// ListingSource returns normalized listings for a part number.
type ListingSource interface {
	Supplier() reconcile.Supplier
	Fetch(ctx context.Context, q Query) ([]reconcile.Candidate, error)
}

// DatasheetSource returns datasheet URLs for a part number.
type DatasheetSource interface {
	Supplier() reconcile.Supplier
	FetchDatasheets(ctx context.Context, partNumber string) ([]string, error)
}

// Set is the group of configured sources. A nil member counts as not configured.
type Set struct {
	Primary    ListingSource
	Secondary  ListingSource
	Datasheets DatasheetSource
}
