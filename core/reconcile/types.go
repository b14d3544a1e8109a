package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Supplier identifies the distributor or aggregator a listing came from.
type Supplier string

const (
	// SupplierDigiKey is the datasheet-rich primary distributor.
	SupplierDigiKey Supplier = "DigiKey"
	// SupplierMouser is the secondary distributor.
	SupplierMouser Supplier = "Mouser"
	// SupplierOctopart is the datasheet-only aggregator. It never produces candidates.
	SupplierOctopart Supplier = "Octopart"
)

// Attribute is a recognized named parameter of a listing.
// Source adapters translate free-text parameter names into these keys so the
// reconciliation code never looks values up by string.
type Attribute int

const (
	// AttrPackageCase is the "Package / Case" parameter.
	AttrPackageCase Attribute = iota + 1
	// AttrMountingType is the "Mounting Type" parameter.
	AttrMountingType
	// AttrBasePartNumber is the "Base Part Number" parameter.
	AttrBasePartNumber
)

// String returns the parameter name as distributors publish it.
func (a Attribute) String() string {
	switch a {
	case AttrPackageCase:
		return "Package / Case"
	case AttrMountingType:
		return "Mounting Type"
	case AttrBasePartNumber:
		return "Base Part Number"
	default:
		return "unknown"
	}
}

// Attributes maps recognized attribute keys to their values.
type Attributes map[Attribute]string

// Get returns the value for key, or "" if absent. Safe on a nil map.
func (a Attributes) Get(key Attribute) string {
	if a == nil {
		return ""
	}
	return a[key]
}

// PriceBreak is a quantity-dependent unit price.
type PriceBreak struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// Candidate is the normalized view of one supplier listing.
// Candidates are built per request by source adapters and never persisted.
type Candidate struct {
	Supplier               Supplier            `json:"supplier"`
	SupplierPartNumber     string              `json:"supplier_part_number"`
	ManufacturerPartNumber string              `json:"manufacturer_part_number"`
	Manufacturer           string              `json:"manufacturer"`
	UnitPrice              decimal.NullDecimal `json:"unit_price"`
	Currency               string              `json:"currency"`
	PriceBreaks            []PriceBreak        `json:"price_breaks,omitempty"`
	// AvailableQuantity is nil when the supplier did not report stock.
	AvailableQuantity   *int64     `json:"available_quantity"`
	DatasheetURL        string     `json:"datasheet_url"`
	Description         string     `json:"description"`
	DetailedDescription string     `json:"detailed_description"`
	ProductURL          string     `json:"product_url"`
	ImageURL            string     `json:"image_url"`
	Status              string     `json:"status"`
	Attributes          Attributes `json:"-"`
}

// QuotedPrice returns the price used for cost comparison.
// When price breaks exist the lowest-quantity break wins (first one on equal
// quantities); otherwise the unit price is used. Prices without a currency
// are ignored.
func (c Candidate) QuotedPrice() (decimal.NullDecimal, string) {
	breaks := make([]PriceBreak, 0, len(c.PriceBreaks))
	for _, b := range c.PriceBreaks {
		if b.Currency != "" {
			breaks = append(breaks, b)
		}
	}
	if len(breaks) == 0 {
		if !c.UnitPrice.Valid || c.Currency == "" {
			return decimal.NullDecimal{}, ""
		}
		return c.UnitPrice, c.Currency
	}
	sort.SliceStable(breaks, func(i, j int) bool {
		return breaks[i].Quantity < breaks[j].Quantity
	})
	return decimal.NewNullDecimal(breaks[0].Price), breaks[0].Currency
}

// Selection is the outcome of candidate selection for one supplier:
// either a candidate is present or there is none.
type Selection struct {
	candidate Candidate
	present   bool
}

// Selected wraps a chosen candidate.
func Selected(c Candidate) Selection {
	return Selection{candidate: c, present: true}
}

// NoCandidate is the empty selection.
func NoCandidate() Selection {
	return Selection{}
}

// Get returns the candidate and whether one is present.
func (s Selection) Get() (Candidate, bool) {
	return s.candidate, s.present
}

// Present reports whether a candidate was selected.
func (s Selection) Present() bool {
	return s.present
}

// PartMetadata is the single canonical record for a requested part number.
type PartMetadata struct {
	// PartNumber is always the identifier the caller asked for.
	PartNumber             string              `json:"part_number"`
	SupplierPartNumbers    map[Supplier]string `json:"supplier_part_numbers"`
	ManufacturerPartNumber string              `json:"manufacturer_part_number"`
	Manufacturer           string              `json:"manufacturer"`
	Description            string              `json:"description"`
	DetailedDescription    string              `json:"detailed_description"`
	Cost                   decimal.NullDecimal `json:"cost"`
	Currency               string              `json:"currency"`
	LowestCostSupplier     Supplier            `json:"lowest_cost_supplier"`
	LowestCostSupplierURL  string              `json:"lowest_cost_supplier_url"`
	DatasheetURL           string              `json:"datasheet_url"`
	AdditionalDatasheets   []string            `json:"additional_datasheets"`
	Package                string              `json:"package"`
	MountingType           string              `json:"mounting_type"`
	ProductStatus          string              `json:"product_status"`
	ProductURL             string              `json:"product_url"`
	ImageURL               string              `json:"image_url"`
	AdditionalPartNumbers  []string            `json:"additional_part_numbers,omitempty"`
	PartType               string              `json:"part_type"`
	Keywords               []string            `json:"keywords"`
	Integrations           Integrations        `json:"integrations"`
}

// Integrations keeps the candidates that contributed to a PartMetadata.
type Integrations struct {
	DigiKey *Candidate `json:"digikey,omitempty"`
	Mouser  *Candidate `json:"mouser,omitempty"`
}

// CommonPart is the list-oriented record: one per supplier listing.
type CommonPart struct {
	PartNumber             string              `json:"part_number"`
	Supplier               Supplier            `json:"supplier"`
	SupplierPartNumber     string              `json:"supplier_part_number"`
	BasePartNumber         string              `json:"base_part_number"`
	AdditionalPartNumbers  []string            `json:"additional_part_numbers"`
	Manufacturer           string              `json:"manufacturer"`
	ManufacturerPartNumber string              `json:"manufacturer_part_number"`
	Cost                   decimal.NullDecimal `json:"cost"`
	Currency               string              `json:"currency"`
	DatasheetURLs          []string            `json:"datasheet_urls"`
	Description            string              `json:"description"`
	ImageURL               string              `json:"image_url"`
	Package                string              `json:"package"`
	MountingType           string              `json:"mounting_type"`
	PartType               string              `json:"part_type"`
	ProductURL             string              `json:"product_url"`
	Status                 string              `json:"status"`
	Keywords               []string            `json:"keywords"`
}
