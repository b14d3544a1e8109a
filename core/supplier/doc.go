// Package supplier adapts distributor and datasheet APIs into normalized
// reconcile.Candidate listings and gathers them concurrently.
//
// DigiKey and Mouser are listing sources; Octopart only contributes datasheet
// URLs. Each adapter wraps a narrow API interface so that the HTTP clients,
// credentials and rate limiting live outside this package. An adapter built
// with a nil API reports ErrNotConfigured, which Gather treats as absent
// rather than failed.
package supplier
