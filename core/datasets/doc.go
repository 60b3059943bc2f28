// Package datasets provides the HTTP client for the public tabular-dataset
// query API that backs the game's image sources.
//
// The API exposes two GET endpoints per dataset: one returning split metadata
// including the example count, and one returning a page of rows for a given
// (dataset, config, split, offset, length). Row schemas are source-specific,
// so rows are surfaced as loose maps and interpreted by the deck feature's
// source adapters.
//
// All failures map onto two sentinel errors, ErrUnavailable and ErrTimeout.
// Both are transient by contract: the assembler counts them against its retry
// budget and never caches them.
package datasets
