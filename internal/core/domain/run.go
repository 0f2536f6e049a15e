package domain

import (
	"sort"
	"time"
)

// Endpoint names used as QueryCounts keys.
const (
	EndpointViewer            = "viewer"
	EndpointFollowers         = "follower_count"
	EndpointRepositoryListing = "repository_listing"
	EndpointCommitHistory     = "commit_history"
	EndpointContributions     = "contributions"
)

// QueryCounts tracks API calls per endpoint for one run.
// It is a plain value owned by the run, not shared process state.
type QueryCounts map[string]int

// Inc records one call to endpoint.
func (q QueryCounts) Inc(endpoint string) {
	q[endpoint]++
}

// Total returns the number of calls across all endpoints.
func (q QueryCounts) Total() int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}

// Endpoints returns endpoint names in sorted order.
func (q QueryCounts) Endpoints() []string {
	names := make([]string, 0, len(q))
	for name := range q {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge adds all counts from other.
func (q QueryCounts) Merge(other QueryCounts) {
	for name, n := range other {
		q[name] += n
	}
}

// StageTiming is the wall time spent in one stage of a run.
type StageTiming struct {
	Name    string
	Elapsed time.Duration
}

// RunReport is everything a run surfaces to the report layer.
type RunReport struct {
	// ID uniquely identifies the run in logs.
	ID string

	Result  AggregateResult
	Queries QueryCounts
	Stages  []StageTiming

	// Repositories is the number of repositories in the listing.
	Repositories int

	// Refreshed is the number of stale records that were updated.
	Refreshed int
}

// TotalElapsed sums all stage timings.
func (r *RunReport) TotalElapsed() time.Duration {
	var total time.Duration
	for _, s := range r.Stages {
		total += s.Elapsed
	}
	return total
}

// Viewer identifies the tracked GitHub account.
type Viewer struct {
	// ID is the account's GraphQL node ID, used as the tracked identity.
	ID        string
	Login     string
	CreatedAt time.Time
}

// Profile is the account-level summary shown alongside line counts.
type Profile struct {
	Viewer

	Followers        int
	Stars            int
	OwnedRepos       int
	ContributedRepos int
	Commits          int
}
