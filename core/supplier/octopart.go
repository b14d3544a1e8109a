package supplier

import (
	"context"
	"fmt"

	"parts-manager/core/reconcile"
)

// OctopartAPI returns datasheet URLs for a part number.
type OctopartAPI interface {
	GetDatasheets(ctx context.Context, partNumber string) ([]string, error)
}

// Octopart adapts an OctopartAPI into a DatasheetSource.
type Octopart struct {
	api OctopartAPI
}

// NewOctopart creates the Octopart source. A nil api yields an unconfigured source.
func NewOctopart(api OctopartAPI) *Octopart {
	return &Octopart{api: api}
}

// Supplier returns reconcile.SupplierOctopart.
func (o *Octopart) Supplier() reconcile.Supplier {
	return reconcile.SupplierOctopart
}

// FetchDatasheets returns the datasheet URLs Octopart knows for partNumber.
func (o *Octopart) FetchDatasheets(ctx context.Context, partNumber string) ([]string, error) {
	if o == nil || o.api == nil {
		return nil, ErrNotConfigured
	}
	urls, err := o.api.GetDatasheets(ctx, partNumber)
	if err != nil {
		return nil, fmt.Errorf("octopart get datasheets: %w", err)
	}
	return urls, nil
}
