// Package app assembles the parts service from configuration.
//
// New connects the part type database, the optional Redis result cache and
// the optional object storage archive, builds the supplier set from the
// caller's API clients and returns an App whose Close releases the
// connections. Supplier API clients are supplied by the caller because their
// authentication lives outside this module.
package app
