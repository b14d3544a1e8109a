package reconcile

import "parts-manager/core/utils"

// Sources carries everything the merge step needs for one part number.
type Sources struct {
	// PartNumber is the identifier the caller requested.
	PartNumber string
	// Primary and Secondary are the full listing arrays of the two distributors.
	Primary   []Candidate
	Secondary []Candidate
	// Datasheets are the aggregator's datasheet URLs.
	Datasheets []string
}

// Merge builds the canonical record for a part number.
// ok is false when no candidate was selected from either distributor and no
// datasheet reference exists at all.
func Merge(src Sources, policy CostPolicy) (PartMetadata, bool) {
	primary := SelectCandidate(src.Primary)
	secondary := SelectCandidate(src.Secondary)

	datasheets := collectDatasheets(src)
	if !primary.Present() && !secondary.Present() && len(datasheets) == 0 {
		return PartMetadata{}, false
	}

	p, hasPrimary := primary.Get()
	s, hasSecondary := secondary.Get()

	m := PartMetadata{
		PartNumber:           src.PartNumber,
		SupplierPartNumbers:  make(map[Supplier]string),
		AdditionalDatasheets: datasheets,
		Keywords:             []string{},
	}

	if hasPrimary {
		m.SupplierPartNumbers[p.Supplier] = p.SupplierPartNumber
		m.DetailedDescription = p.DetailedDescription
		m.Package = p.Attributes.Get(AttrPackageCase)
		m.MountingType = p.Attributes.Get(AttrMountingType)
		if base := p.Attributes.Get(AttrBasePartNumber); base != "" {
			m.AdditionalPartNumbers = []string{base}
		}
		pc := p
		m.Integrations.DigiKey = &pc
	}
	if hasSecondary {
		m.SupplierPartNumbers[s.Supplier] = s.SupplierPartNumber
		sc := s
		m.Integrations.Mouser = &sc
	}

	pick := func(field func(Candidate) string) string {
		var a, b string
		if hasPrimary {
			a = field(p)
		}
		if hasSecondary {
			b = field(s)
		}
		return utils.FirstNonEmpty(a, b)
	}

	var aggregated string
	if len(datasheets) > 0 {
		aggregated = datasheets[0]
	}
	m.DatasheetURL = utils.FirstNonEmpty(pick(func(c Candidate) string { return c.DatasheetURL }), aggregated)
	m.Description = pick(func(c Candidate) string { return c.Description })
	m.ManufacturerPartNumber = pick(func(c Candidate) string { return c.ManufacturerPartNumber })
	m.Manufacturer = pick(func(c Candidate) string { return c.Manufacturer })
	m.ProductStatus = pick(func(c Candidate) string { return c.Status })
	m.ProductURL = pick(func(c Candidate) string { return c.ProductURL })
	m.ImageURL = pick(func(c Candidate) string { return c.ImageURL })

	if lc, ok := ResolveLowestCost(primary, secondary, policy); ok {
		m.Cost = lc.Cost
		m.Currency = lc.Currency
		m.LowestCostSupplier = lc.Supplier
		m.LowestCostSupplierURL = lc.ProductURL
	}

	return m, true
}

// collectDatasheets returns the aggregator URLs followed by every listing's
// datasheet, skipping empty values and exact duplicates.
func collectDatasheets(src Sources) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(src.Datasheets)+len(src.Primary)+len(src.Secondary))
	add := func(url string) {
		if url == "" {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	for _, url := range src.Datasheets {
		add(url)
	}
	for _, c := range src.Primary {
		add(c.DatasheetURL)
	}
	for _, c := range src.Secondary {
		add(c.DatasheetURL)
	}
	return out
}

// ToCommonParts converts every listing into a list-oriented record, primary
// listings first, preserving response order.
func ToCommonParts(src Sources) []CommonPart {
	parts := make([]CommonPart, 0, len(src.Primary)+len(src.Secondary))
	for _, c := range src.Primary {
		parts = append(parts, toCommonPart(src.PartNumber, c))
	}
	for _, c := range src.Secondary {
		parts = append(parts, toCommonPart(src.PartNumber, c))
	}
	return parts
}

func toCommonPart(partNumber string, c Candidate) CommonPart {
	part := CommonPart{
		PartNumber:             partNumber,
		Supplier:               c.Supplier,
		SupplierPartNumber:     c.SupplierPartNumber,
		BasePartNumber:         c.Attributes.Get(AttrBasePartNumber),
		AdditionalPartNumbers:  []string{},
		Manufacturer:           c.Manufacturer,
		ManufacturerPartNumber: c.ManufacturerPartNumber,
		DatasheetURLs:          []string{},
		Description:            c.Description,
		ImageURL:               c.ImageURL,
		Package:                c.Attributes.Get(AttrPackageCase),
		MountingType:           c.Attributes.Get(AttrMountingType),
		ProductURL:             c.ProductURL,
		Status:                 c.Status,
		Keywords:               []string{},
	}
	if c.DetailedDescription != "" {
		part.Description = c.Description + "\r\n" + c.DetailedDescription
	}
	if part.BasePartNumber != "" {
		part.AdditionalPartNumbers = append(part.AdditionalPartNumbers, part.BasePartNumber)
	}
	if c.DatasheetURL != "" {
		part.DatasheetURLs = append(part.DatasheetURLs, c.DatasheetURL)
	}
	if price, currency := c.QuotedPrice(); price.Valid {
		part.Cost = price
		part.Currency = currency
	}
	return part
}
