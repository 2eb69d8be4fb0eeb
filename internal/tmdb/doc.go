// Package tmdb is the external metadata collaborator: a small client for
// The Movie Database API used to backfill missing movie fields.
//
// The client applies its own timeout, bounded retries with exponential
// backoff on transient and rate-limit failures, and treats an unknown
// identifier as an empty result rather than an error. Callers depend on the
// Fetcher interface so enrichment can be tested without the network.
package tmdb
