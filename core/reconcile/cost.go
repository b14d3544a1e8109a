package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CostPolicy decides what is reported when neither selected candidate has a price.
type CostPolicy string

const (
	// CostPolicyNoneWithoutPrice reports no lowest-cost supplier at all when
	// neither side is priced, keeping cost, currency and supplier absent together.
	CostPolicyNoneWithoutPrice CostPolicy = "none_without_price"
	// CostPolicyPreferPrimary records the primary supplier with a zero cost when
	// neither side is priced, as the legacy service did.
	CostPolicyPreferPrimary CostPolicy = "prefer_primary"
)

// ParseCostPolicy converts a configuration value into a CostPolicy.
// An empty value selects CostPolicyNoneWithoutPrice.
func ParseCostPolicy(s string) (CostPolicy, error) {
	switch CostPolicy(s) {
	case "", CostPolicyNoneWithoutPrice:
		return CostPolicyNoneWithoutPrice, nil
	case CostPolicyPreferPrimary:
		return CostPolicyPreferPrimary, nil
	default:
		return "", fmt.Errorf("unknown cost policy %q", s)
	}
}

// LowestCost is the cross-supplier price decision.
type LowestCost struct {
	Supplier   Supplier
	Cost       decimal.NullDecimal
	Currency   string
	ProductURL string
}

// ResolveLowestCost compares the primary candidate's quoted price with the
// secondary candidate's quoted price. The primary wins when its price is less
// than or equal to the secondary's, or when the secondary has no price.
// A primary without a price loses to a priced secondary.
// When neither is priced the policy decides; ok is false when no decision is reported.
func ResolveLowestCost(primary, secondary Selection, policy CostPolicy) (LowestCost, bool) {
	p, hasPrimary := primary.Get()
	s, hasSecondary := secondary.Get()

	var (
		pPrice, sPrice       decimal.NullDecimal
		pCurrency, sCurrency string
	)
	if hasPrimary {
		pPrice, pCurrency = p.QuotedPrice()
	}
	if hasSecondary {
		sPrice, sCurrency = s.QuotedPrice()
	}

	switch {
	case pPrice.Valid && (!sPrice.Valid || pPrice.Decimal.LessThanOrEqual(sPrice.Decimal)):
		return LowestCost{Supplier: p.Supplier, Cost: pPrice, Currency: pCurrency, ProductURL: p.ProductURL}, true
	case sPrice.Valid:
		return LowestCost{Supplier: s.Supplier, Cost: sPrice, Currency: sCurrency, ProductURL: s.ProductURL}, true
	}

	if policy != CostPolicyPreferPrimary {
		return LowestCost{}, false
	}
	// Legacy behaviour: the primary supplier is named even though nothing is priced.
	winner := SupplierDigiKey
	url := ""
	if hasPrimary {
		winner, url = p.Supplier, p.ProductURL
	}
	return LowestCost{
		Supplier:   winner,
		Cost:       decimal.NewNullDecimal(decimal.Zero),
		ProductURL: url,
	}, true
}
