package github

import "time"

const viewerQuery = `
query($login: String!) {
  user(login: $login) {
    id
    login
    createdAt
  }
}`

const followersQuery = `
query($login: String!) {
  user(login: $login) {
    followers {
      totalCount
    }
  }
}`

const contributionsQuery = `
query($login: String!, $from: DateTime, $to: DateTime) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      totalCommitContributions
    }
  }
}`

const repositoriesQuery = `
query($login: String!, $affiliations: [RepositoryAffiliation], $cursor: String, $first: Int!) {
  user(login: $login) {
    repositories(first: $first, after: $cursor, ownerAffiliations: $affiliations) {
      nodes {
        nameWithOwner
        stargazerCount
        defaultBranchRef {
          target {
            ... on Commit {
              history {
                totalCount
              }
            }
          }
        }
      }
      pageInfo {
        endCursor
        hasNextPage
      }
    }
  }
}`

const historyQuery = `
query($owner: String!, $name: String!, $cursor: String, $first: Int!) {
  repository(owner: $owner, name: $name) {
    defaultBranchRef {
      target {
        ... on Commit {
          history(first: $first, after: $cursor) {
            nodes {
              committedDate
              additions
              deletions
              author {
                user {
                  id
                }
              }
            }
            pageInfo {
              endCursor
              hasNextPage
            }
          }
        }
      }
    }
  }
}`

type pageInfo struct {
	EndCursor   *string `json:"endCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

func (p pageInfo) cursor() string {
	if p.EndCursor == nil {
		return ""
	}
	return *p.EndCursor
}

type viewerResponse struct {
	User *struct {
		ID        string    `json:"id"`
		Login     string    `json:"login"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"user"`
}

type followersResponse struct {
	User *struct {
		Followers struct {
			TotalCount int `json:"totalCount"`
		} `json:"followers"`
	} `json:"user"`
}

type contributionsResponse struct {
	User *struct {
		ContributionsCollection struct {
			TotalCommitContributions int `json:"totalCommitContributions"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

type historyCount struct {
	History *struct {
		TotalCount int64 `json:"totalCount"`
	} `json:"history"`
}

type repositoryNode struct {
	NameWithOwner    string `json:"nameWithOwner"`
	StargazerCount   int    `json:"stargazerCount"`
	DefaultBranchRef *struct {
		Target *historyCount `json:"target"`
	} `json:"defaultBranchRef"`
}

// commitCount is zero for repositories without a default branch.
func (n repositoryNode) commitCount() int64 {
	if n.DefaultBranchRef == nil || n.DefaultBranchRef.Target == nil || n.DefaultBranchRef.Target.History == nil {
		return 0
	}
	return n.DefaultBranchRef.Target.History.TotalCount
}

type repositoriesResponse struct {
	User *struct {
		Repositories struct {
			Nodes    []repositoryNode `json:"nodes"`
			PageInfo pageInfo         `json:"pageInfo"`
		} `json:"repositories"`
	} `json:"user"`
}

type commitNode struct {
	CommittedDate time.Time `json:"committedDate"`
	Additions     int       `json:"additions"`
	Deletions     int       `json:"deletions"`
	Author        *struct {
		User *struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"author"`
}

// authorID is empty when the commit author has no linked account.
func (n commitNode) authorID() string {
	if n.Author == nil || n.Author.User == nil {
		return ""
	}
	return n.Author.User.ID
}

type historyResponse struct {
	Repository *struct {
		DefaultBranchRef *struct {
			Target *struct {
				History *struct {
					Nodes    []commitNode `json:"nodes"`
					PageInfo pageInfo     `json:"pageInfo"`
				} `json:"history"`
			} `json:"target"`
		} `json:"defaultBranchRef"`
	} `json:"repository"`
}
