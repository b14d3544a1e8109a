package supplier

import (
	"context"
	"fmt"
	"strings"

	"parts-manager/core/reconcile"
	"parts-manager/core/utils"
)

// MouserPriceBreak is a quantity price tier; Price is display text such as "$0.45".
type MouserPriceBreak struct {
	Quantity int    `json:"Quantity"`
	Price    string `json:"Price"`
	Currency string `json:"Currency"`
}

// MouserPart is one part of a Mouser search.
type MouserPart struct {
	MouserPartNumber       string             `json:"MouserPartNumber"`
	ManufacturerPartNumber string             `json:"ManufacturerPartNumber"`
	Manufacturer           string             `json:"Manufacturer"`
	Description            string             `json:"Description"`
	DataSheetURL           string             `json:"DataSheetUrl"`
	ImagePath              string             `json:"ImagePath"`
	ProductDetailURL       string             `json:"ProductDetailUrl"`
	LifecycleStatus        string             `json:"LifecycleStatus"`
	Availability           string             `json:"Availability"`
	PriceBreaks            []MouserPriceBreak `json:"PriceBreaks"`
}

// MouserAPI performs the part search.
type MouserAPI interface {
	GetParts(ctx context.Context, partNumber, partType, packageType string) ([]MouserPart, error)
}

// Mouser adapts a MouserAPI into a ListingSource.
type Mouser struct {
	api MouserAPI
}

// NewMouser creates the Mouser source. A nil api yields an unconfigured source.
func NewMouser(api MouserAPI) *Mouser {
	return &Mouser{api: api}
}

// Supplier returns reconcile.SupplierMouser.
func (m *Mouser) Supplier() reconcile.Supplier {
	return reconcile.SupplierMouser
}

// Fetch queries Mouser and translates the parts into candidates.
func (m *Mouser) Fetch(ctx context.Context, q Query) ([]reconcile.Candidate, error) {
	if m == nil || m.api == nil {
		return nil, ErrNotConfigured
	}
	parts, err := m.api.GetParts(ctx, q.PartNumber, q.PartType, q.Package)
	if err != nil {
		return nil, fmt.Errorf("mouser get parts: %w", err)
	}
	return TranslateMouser(parts), nil
}

// TranslateMouser converts Mouser parts into candidates, in response order.
// Availability text without digits leaves AvailableQuantity nil. Price breaks
// whose price text cannot be parsed or that carry no currency are dropped.
func TranslateMouser(parts []MouserPart) []reconcile.Candidate {
	out := make([]reconcile.Candidate, 0, len(parts))
	for _, p := range parts {
		c := reconcile.Candidate{
			Supplier:               reconcile.SupplierMouser,
			SupplierPartNumber:     p.MouserPartNumber,
			ManufacturerPartNumber: p.ManufacturerPartNumber,
			Manufacturer:           p.Manufacturer,
			DatasheetURL:           strings.TrimSpace(p.DataSheetURL),
			Description:            p.Description,
			ProductURL:             p.ProductDetailURL,
			ImageURL:               p.ImagePath,
			Status:                 p.LifecycleStatus,
		}
		if n, ok := utils.ParseQuantity(p.Availability); ok {
			c.AvailableQuantity = &n
		}
		for _, b := range p.PriceBreaks {
			price, ok := utils.ParsePrice(b.Price)
			if !ok || b.Currency == "" {
				continue
			}
			c.PriceBreaks = append(c.PriceBreaks, reconcile.PriceBreak{
				Quantity: b.Quantity,
				Price:    price,
				Currency: b.Currency,
			})
		}
		out = append(out, c)
	}
	return out
}
