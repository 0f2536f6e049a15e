// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The line-count pipeline is, leaf to root:
//
//   - Pages: cursor-following pagination over any page fetch function
//   - CommitWalker: bounded walk of one repository's default-branch history
//   - RepositoryCache: change detection and crash-safe cache rewrite
//   - Aggregator: lists repositories and drives the cache update
//
// Services are pure Go with no CGO. All network access goes through
// driven.StatsAPI and all persistence through driven.CacheStore.
package services
