package domain

import (
	"fmt"
	"strings"
	"time"
)

// RepositoryRef is a repository as reported by the listing query.
// It is transient and never persisted directly.
type RepositoryRef struct {
	// QualifiedName is "owner/name".
	QualifiedName string

	// Stargazers is the repository's star count.
	Stargazers int

	// CommitCount is the total commit count of the default branch.
	// Zero when the repository has no default branch.
	CommitCount int64
}

// SplitName returns the owner and repository name parts of QualifiedName.
func (r RepositoryRef) SplitName() (owner, name string, err error) {
	owner, name, ok := strings.Cut(r.QualifiedName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("%w: repository name %q is not owner/name", ErrInvalidInput, r.QualifiedName)
	}
	return owner, name, nil
}

// CommitNode is a single commit on a repository's default branch.
type CommitNode struct {
	CommittedDate time.Time
	Additions     int
	Deletions     int

	// AuthorID is the node ID of the GitHub user the commit is attributed to.
	// Empty when the author email is not linked to an account.
	AuthorID string
}

// Page is one page of a cursor-paginated result set.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// Affiliation filters which repositories the listing query returns.
type Affiliation string

// Available affiliations, named as the GraphQL API names them.
const (
	AffiliationOwner              Affiliation = "OWNER"
	AffiliationCollaborator       Affiliation = "COLLABORATOR"
	AffiliationOrganizationMember Affiliation = "ORGANIZATION_MEMBER"
)

// AllAffiliations returns every affiliation, the set used for line counting.
func AllAffiliations() []Affiliation {
	return []Affiliation{AffiliationOwner, AffiliationCollaborator, AffiliationOrganizationMember}
}

// IsValid returns true if the affiliation is recognised.
func (a Affiliation) IsValid() bool {
	switch a {
	case AffiliationOwner, AffiliationCollaborator, AffiliationOrganizationMember:
		return true
	default:
		return false
	}
}

// ParseAffiliations parses a comma-separated affiliation list.
// Matching is case-insensitive. An empty input yields AllAffiliations.
func ParseAffiliations(s string) ([]Affiliation, error) {
	parts := strings.Split(s, ",")
	out := make([]Affiliation, 0, len(parts))
	for _, part := range parts {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		a := Affiliation(part)
		if !a.IsValid() {
			return nil, fmt.Errorf("%w: unknown affiliation %q", ErrInvalidInput, part)
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return AllAffiliations(), nil
	}
	return out, nil
}
