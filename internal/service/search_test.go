package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-reader/internal/models"
)

func TestSearchArticles(t *testing.T) {
	t.Parallel()

	apollo := models.Article{URL: "https://e.org/apollo", Title: "Apollo Landing", Author: "J. Doe", Description: "history"}
	gemini := models.Article{URL: "https://e.org/gemini", Title: "Gemini Program"}
	mars := models.Article{URL: "https://e.org/mars", Title: "Rover update", Description: "Mars dust storm"}

	all := []models.Article{apollo, gemini, mars}

	cases := []struct {
		name  string
		query string
		in    []models.Article
		want  []models.Article
	}{
		{"author_case_insensitive", "doe", []models.Article{apollo}, []models.Article{apollo}},
		{"no_match", "mars", []models.Article{apollo}, []models.Article{}},
		{"empty_query", "", []models.Article{apollo}, []models.Article{apollo}},
		{"whitespace_query", "   ", all, all},
		{"title", "LANDING", all, []models.Article{apollo}},
		{"description", "dust", all, []models.Article{mars}},
		{"author_fallback", "unknown author", all, []models.Article{gemini, mars}},
		{"description_fallback", "no description", all, []models.Article{gemini}},
		{"stable_order", "a", []models.Article{mars, apollo, gemini}, []models.Article{mars, apollo, gemini}},
		{"empty_input", "x", []models.Article{}, []models.Article{}},
	}

	svc := &Service{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, svc.SearchArticles(tc.query, tc.in))
		})
	}
}

// TestSearch_EmptyQueryReturnsSameSlice — пустой запрос не копирует вход.
func TestSearch_EmptyQueryReturnsSameSlice(t *testing.T) {
	t.Parallel()

	in := []models.Article{{URL: "u", Title: "t"}}
	out := Search(" \t", in)

	require.Len(t, out, 1)
	require.Same(t, &in[0], &out[0])
}
