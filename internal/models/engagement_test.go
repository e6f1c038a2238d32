package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tree() []Comment {
	return []Comment{
		{ID: "c1", Replies: []Comment{
			{ID: "c1-1"},
			{ID: "c1-2", Replies: []Comment{
				{ID: "c1-2-1"},
			}},
		}},
		{ID: "c2"},
	}
}

func TestFindPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		id   string
		path []int
		ok   bool
	}{
		{"root first", "c1", []int{0}, true},
		{"root second", "c2", []int{1}, true},
		{"depth two", "c1-2", []int{0, 1}, true},
		{"depth three", "c1-2-1", []int{0, 1, 0}, true},
		{"missing", "nope", nil, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path, ok := FindPath(tree(), tc.id)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.path, path)
		})
	}
}

func TestFindPath_EmptyTree(t *testing.T) {
	t.Parallel()

	path, ok := FindPath(nil, "c1")
	require.False(t, ok)
	require.Nil(t, path)
}

func TestRepliesPathAndNodePath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "comments.0", NodePath([]int{0}))
	require.Equal(t, "comments.0.replies", RepliesPath([]int{0}))
	require.Equal(t, "comments.0.replies.1.replies.0", NodePath([]int{0, 1, 0}))
	require.Equal(t, "comments.3.replies.12.replies", RepliesPath([]int{3, 12}))
}

func TestNormalize_ReplacesNilReplies(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Comment{}, Normalize(nil))

	out := Normalize([]Comment{{ID: "a", Replies: []Comment{{ID: "b"}}}})
	require.NotNil(t, out[0].Replies)
	require.NotNil(t, out[0].Replies[0].Replies)
	require.Empty(t, out[0].Replies[0].Replies)
}
