// Package services defines shared utilities consumed by the summary generator
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identity (site, date), batch frame ranges,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that tag failures so the
//     CLI can classify them (missing artifact, tool failure, timeout).
//   - The Executor abstraction that makes subprocess-as-RPC calls to GDAL and
//     helper scripts testable without spawning real processes.
//
// Use these helpers when wiring new tool clients so error handling and
// observability stay uniform across the generator.
package services
