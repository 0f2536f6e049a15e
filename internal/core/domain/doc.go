// Package domain defines the core business entities for repostat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RepositoryRef: A repository as seen by the listing query
//   - CacheRecord: One persisted line of per-repository statistics
//   - CacheFile: The header block plus positionally aligned records
//   - AggregateResult: Totals summed over all records after an update
//   - RunReport: Aggregate plus per-endpoint query counts and stage timings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
