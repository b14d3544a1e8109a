package supplier

import (
	"context"
	"fmt"
	"strings"

	"parts-manager/core/reconcile"

	"github.com/shopspring/decimal"
)

// DigiKeyParameter is a named product parameter, e.g. "Package / Case".
type DigiKeyParameter struct {
	Parameter string `json:"Parameter"`
	Value     string `json:"Value"`
}

// DigiKeyManufacturer names the product's manufacturer.
type DigiKeyManufacturer struct {
	Value string `json:"Value"`
}

// DigiKeyProduct is one product of a DigiKey keyword search.
type DigiKeyProduct struct {
	DigiKeyPartNumber      string              `json:"DigiKeyPartNumber"`
	ManufacturerPartNumber string              `json:"ManufacturerPartNumber"`
	Manufacturer           DigiKeyManufacturer `json:"Manufacturer"`
	ProductDescription     string              `json:"ProductDescription"`
	DetailedDescription    string              `json:"DetailedDescription"`
	PrimaryDatasheet       string              `json:"PrimaryDatasheet"`
	PrimaryPhoto           string              `json:"PrimaryPhoto"`
	ProductURL             string              `json:"ProductUrl"`
	ProductStatus          string              `json:"ProductStatus"`
	QuantityAvailable      int64               `json:"QuantityAvailable"`
	UnitPrice              decimal.NullDecimal `json:"UnitPrice"`
	Parameters             []DigiKeyParameter  `json:"Parameters"`
}

// DigiKeySearchResponse is the body of a DigiKey keyword search.
type DigiKeySearchResponse struct {
	Products         []DigiKeyProduct `json:"Products"`
	SearchLocaleUsed struct {
		Currency string `json:"Currency"`
	} `json:"SearchLocaleUsed"`
}

// DigiKeyAPI performs the keyword search. Authentication, retries and
// pagination belong to the implementation.
type DigiKeyAPI interface {
	KeywordSearch(ctx context.Context, keywords, partType, packageType string) (*DigiKeySearchResponse, error)
}

// DigiKey adapts a DigiKeyAPI into a ListingSource.
type DigiKey struct {
	api DigiKeyAPI
}

// NewDigiKey creates the DigiKey source. A nil api yields an unconfigured source.
func NewDigiKey(api DigiKeyAPI) *DigiKey {
	return &DigiKey{api: api}
}

// Supplier returns reconcile.SupplierDigiKey.
func (d *DigiKey) Supplier() reconcile.Supplier {
	return reconcile.SupplierDigiKey
}

// Fetch searches DigiKey and translates the products into candidates.
func (d *DigiKey) Fetch(ctx context.Context, q Query) ([]reconcile.Candidate, error) {
	if d == nil || d.api == nil {
		return nil, ErrNotConfigured
	}
	resp, err := d.api.KeywordSearch(ctx, q.PartNumber, q.PartType, q.Package)
	if err != nil {
		return nil, fmt.Errorf("digikey keyword search: %w", err)
	}
	return TranslateDigiKey(resp), nil
}

// TranslateDigiKey converts a search response into candidates, in response order.
// Unit prices are dropped when the response names no currency.
func TranslateDigiKey(resp *DigiKeySearchResponse) []reconcile.Candidate {
	if resp == nil {
		return nil
	}
	out := make([]reconcile.Candidate, 0, len(resp.Products))
	for _, p := range resp.Products {
		available := p.QuantityAvailable
		c := reconcile.Candidate{
			Supplier:               reconcile.SupplierDigiKey,
			SupplierPartNumber:     p.DigiKeyPartNumber,
			ManufacturerPartNumber: p.ManufacturerPartNumber,
			Manufacturer:           p.Manufacturer.Value,
			UnitPrice:              p.UnitPrice,
			AvailableQuantity:      &available,
			DatasheetURL:           strings.TrimSpace(p.PrimaryDatasheet),
			Description:            p.ProductDescription,
			DetailedDescription:    p.DetailedDescription,
			ProductURL:             p.ProductURL,
			ImageURL:               p.PrimaryPhoto,
			Status:                 p.ProductStatus,
			Attributes:             translateParameters(p.Parameters),
		}
		switch {
		case !c.UnitPrice.Valid:
		case resp.SearchLocaleUsed.Currency == "":
			c.UnitPrice = decimal.NullDecimal{}
		default:
			c.Currency = resp.SearchLocaleUsed.Currency
		}
		out = append(out, c)
	}
	return out
}

var recognizedAttributes = []reconcile.Attribute{
	reconcile.AttrPackageCase,
	reconcile.AttrMountingType,
	reconcile.AttrBasePartNumber,
}

// translateParameters maps free-text parameter names onto reconcile.Attribute.
// Names compare case-insensitively; the first occurrence of a name wins.
func translateParameters(params []DigiKeyParameter) reconcile.Attributes {
	attrs := make(reconcile.Attributes)
	for _, p := range params {
		name := strings.TrimSpace(p.Parameter)
		for _, attr := range recognizedAttributes {
			if !strings.EqualFold(name, attr.String()) {
				continue
			}
			if _, set := attrs[attr]; !set && p.Value != "" {
				attrs[attr] = p.Value
			}
		}
	}
	return attrs
}
