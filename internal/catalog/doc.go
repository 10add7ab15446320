// Package catalog keeps a SQLite history of generated flight summaries.
//
// Each Record call stores one summaries row keyed by a random UUID plus one
// batches row per CSV line, so earlier runs can be listed and compared after
// their output folders have been cleaned up. The schema is versioned; a
// database written by a different version is rejected and must be deleted.
package catalog
