// Package parts is the service around the reconciliation core.
//
// Service.ReconcileAndClassify gathers DigiKey, Mouser and Octopart results
// concurrently, merges them into one reconcile.PartMetadata and classifies it
// against the user's part types. ReconcileAndClassifyMany returns one
// classified reconcile.CommonPart per listing instead.
//
// Part types live in the part_types table behind TaxonomyStore and are cached
// per user by TaxonomyCache. Reconciled records may additionally be cached in
// Redis (ResultCache) and snapshotted to object storage (Archive); both are
// best effort and never fail a request.
//
// A source that is unconfigured or returns nothing is skipped. A source that
// errors is logged and skipped, unless every configured source errored, in
// which case the request fails with ErrReconciliationFailed.
package parts
