package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryRef_SplitName(t *testing.T) {
	owner, name, err := RepositoryRef{QualifiedName: "octocat/hello-world"}.SplitName()

	require.NoError(t, err)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "hello-world", name)
}

func TestRepositoryRef_SplitName_Invalid(t *testing.T) {
	for _, qualified := range []string{"", "octocat", "/repo", "octocat/"} {
		t.Run(qualified, func(t *testing.T) {
			_, _, err := RepositoryRef{QualifiedName: qualified}.SplitName()

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseAffiliations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Affiliation
	}{
		{name: "empty yields all", input: "", expected: AllAffiliations()},
		{name: "only separators", input: " , ,", expected: AllAffiliations()},
		{name: "single", input: "owner", expected: []Affiliation{AffiliationOwner}},
		{
			name:     "mixed case with spaces",
			input:    " Collaborator ,ORGANIZATION_MEMBER",
			expected: []Affiliation{AffiliationCollaborator, AffiliationOrganizationMember},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAffiliations(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAffiliations_Unknown(t *testing.T) {
	_, err := ParseAffiliations("OWNER,FRIEND")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "FRIEND")
}

func TestAffiliation_IsValid(t *testing.T) {
	for _, a := range AllAffiliations() {
		assert.True(t, a.IsValid(), string(a))
	}
	assert.False(t, Affiliation("owner").IsValid())
}
