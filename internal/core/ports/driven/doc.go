// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - StatsAPI: Repository listing, commit history and profile queries (GitHub GraphQL)
//   - CacheStore: Repository statistics cache persistence (text file or SQLite)
//   - ConfigStore: Application configuration (TOML)
//   - TokenProvider: Access token for the statistics API
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
