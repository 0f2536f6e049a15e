// Package github implements the statistics API over GitHub's GraphQL endpoint.
//
// # Architecture
//
// The package implements [driven.StatsAPI]. It comprises:
//
//   - Client: posts GraphQL documents through go-github with pacing and retries
//   - StatsAPI: typed queries for accounts, repository listings and commit history
//   - RateLimiter: proactive token-bucket throttling fed by response headers
//
// # Authentication
//
// Personal Access Tokens (classic or fine-grained) are supplied through a
// [driven.TokenProvider]. The token is fetched on first use, so an
// interactive prompt only appears when a query is actually sent. Private
// repositories require the 'repo' scope.
//
// # Rate Limiting
//
// Requests are throttled to approximately 1.2 per second by default. When a
// response reports a primary rate limit (HTTP 403/429 with no remaining
// quota, or a RATE_LIMITED GraphQL error) the client waits until the reset
// time and retries, up to [MaxRateLimitRetries] times. Each wait is capped
// at [MaxRateLimitWait]. Secondary (abuse) limits are reported as
// [AbuseLimitError] and are not retried.
//
// # Error Handling
//
//   - Transport failures and 5xx responses are retried [MaxTransportRetries]
//     times with linear backoff, then returned as [TransportError]
//   - GraphQL errors are returned as [GraphQLError] with the raw payload
//   - A null repository is [ErrRepoNotFound]; a repository without a
//     default branch is [domain.ErrNoDefaultBranch]
//   - Authentication failures map to [domain.ErrAuthInvalid]
//
// # Example Usage
//
//	client := github.NewClient(tokenProvider, github.WithConfig(github.DefaultConfig()))
//	api := github.NewStatsAPI(client)
//
//	page, err := api.ListRepositories(ctx, "octocat", domain.AllAffiliations(), "")
//	if err != nil {
//	    return err
//	}
package github
