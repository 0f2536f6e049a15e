// Package file provides the TOML-backed ConfigStore.
//
// Settings live in ~/.repostat/config.toml by default. Dotted keys such as
// "cache.mode" are stored as nested tables:
//
//	[cache]
//	mode = "exact"
package file
