// Package reconcile merges independently shaped supplier listings for one part
// number into a single canonical record.
//
// Each distributor returns its own listing array. The reconcile package turns
// those arrays into a PartMetadata in three pure, single-threaded steps:
//
//  1. Selection: SelectCandidate picks one representative listing per
//     distributor (datasheet required, highest stock wins, earliest on ties).
//
//  2. Cost: ResolveLowestCost compares the primary candidate's unit price with
//     the secondary candidate's lowest-quantity price break. Ties favour the
//     primary supplier. What happens when neither side is priced is a
//     CostPolicy.
//
//  3. Merge: Merge fills every canonical field through a fixed fallback chain
//     (primary, then secondary, then the aggregator's datasheets) and reports
//     "not found" when nothing at all was returned.
//
// Source adapters translate named parameters ("Package / Case", "Mounting Type",
// "Base Part Number") into the closed Attribute enum before listings reach this
// package, so no string-keyed lookups happen here.
//
// # Usage Example
//
//	meta, ok := reconcile.Merge(reconcile.Sources{
//	    PartNumber: "LM358",
//	    Primary:    digikeyListings,
//	    Secondary:  mouserListings,
//	    Datasheets: octopartDatasheets,
//	}, reconcile.CostPolicyNoneWithoutPrice)
//	if !ok {
//	    // nothing found
//	}
//
// Classification of the merged record lives in core/classify.
package reconcile
