package languages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipList(t *testing.T) {
	skipped := NewSkipList([]string{"Dotfiles", "octo/Hello-World", " ", ""})

	testCases := []struct {
		name     string
		owner    string
		repo     string
		expected bool
	}{
		{name: "Bare name", owner: "someone", repo: "dotfiles", expected: true},
		{name: "Bare name mixed case", owner: "someone", repo: "DOTFILES", expected: true},
		{name: "Slug", owner: "octo", repo: "hello-world", expected: true},
		{name: "Slug mixed case", owner: "OCTO", repo: "Hello-World", expected: true},
		{name: "Same name other owner", owner: "other", repo: "hello-world", expected: false},
		{name: "Unrelated", owner: "octo", repo: "spoon-knife", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, skipped.Matches(tc.owner, tc.repo))
			assert.Equal(t, tc.expected, skipped.MatchesSlug(tc.owner+"/"+tc.repo))
		})
	}

	assert.Len(t, skipped, 2)
	assert.True(t, skipped.MatchesSlug("DotFiles"))
}

func TestEmptySkipList(t *testing.T) {
	assert.False(t, NewSkipList(nil).Matches("x", "y"))
	assert.False(t, NewSkipList([]string{""}).MatchesSlug("x/y"))
}

func TestOutcomes(t *testing.T) {
	outcomes := []Outcome[int]{
		Succeeded(1),
		Failed[int](errors.New("boom")),
		Succeeded(3),
	}

	assert.False(t, outcomes[0].Skipped())
	assert.True(t, outcomes[1].Skipped())
	assert.Equal(t, []int{1, 3}, Successes(outcomes))
	assert.Empty(t, Successes[int](nil))
}
