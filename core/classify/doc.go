// Package classify assigns a user-defined part type to a reconciled record and
// derives its search keywords.
//
// Classification is a heuristic text match: every part type name in the
// taxonomy is searched, case-insensitively, in a fixed set of the record's text
// fields. MatchTaxonomy is the single primitive; DeterminePartType ranks its
// result (count descending, then taxonomy order) and DetermineKeywords turns it
// into an ordered, case-insensitively unique keyword list.
//
// Two record shapes are supported through Subject:
//   - MetadataSubject: Description, DetailedDescription, PartNumber, DatasheetURL
//   - CommonPartSubject: Description, ManufacturerPartNumber, every datasheet URL
//
// A Taxonomy is built once from a provider's list with NewTaxonomy, which
// rejects nil entries, and is then shared read-only.
package classify
