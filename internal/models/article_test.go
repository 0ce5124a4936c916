package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArticle_DisplayFallbacks(t *testing.T) {
	t.Parallel()

	a := Article{URL: "u", Title: "t"}
	require.Equal(t, UnknownAuthor, a.DisplayAuthor())
	require.Equal(t, NoDescription, a.DisplayDescription())

	a.Author = "J. Doe"
	a.Description = "history"
	require.Equal(t, "J. Doe", a.DisplayAuthor())
	require.Equal(t, "history", a.DisplayDescription())

	a.Author = "   "
	require.Equal(t, UnknownAuthor, a.DisplayAuthor())
}

func TestArticle_FormattedDate(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want string
	}{
		{"rfc3339", "2024-07-20T20:17:00Z", "Jul 20, 2024 at 8:17 PM"},
		{"fractional", "2024-07-20T08:05:09.123Z", "Jul 20, 2024 at 8:05 AM"},
		{"offset", "2024-07-20T23:17:00+03:00", "Jul 20, 2024 at 8:17 PM"},
		{"garbage", "yesterday", "yesterday"},
		{"empty", "", ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Article{PublishedAt: tc.in}.FormattedDate())
		})
	}
}

func TestArticle_EqualByURL(t *testing.T) {
	t.Parallel()

	a := Article{URL: "https://example.org/a", Title: "v1"}
	b := Article{URL: "https://example.org/a", Title: "v2", Author: "x"}
	c := Article{URL: "https://example.org/c", Title: "v1"}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestArticle_IsRemovedPlaceholder(t *testing.T) {
	t.Parallel()

	require.True(t, Article{Title: "[Removed]"}.IsRemovedPlaceholder())
	require.False(t, Article{Title: "Removed"}.IsRemovedPlaceholder())
}

func TestFetchResult_Stale(t *testing.T) {
	t.Parallel()

	require.False(t, FetchResult{Origin: OriginNetwork}.Stale())
	require.True(t, FetchResult{Origin: OriginCache, Reason: errors.New("offline")}.Stale())
}
