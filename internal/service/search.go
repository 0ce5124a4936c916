package service

import (
	"strings"

	"github.com/pribylovaa/news-reader/internal/models"
)

// SearchArticles фильтрует переданный список по подстроке query без учёта регистра.
// Статья подходит, если query входит в Title, DisplayAuthor или DisplayDescription.
// Порядок сохраняется; пустой query (или только пробелы) возвращает вход как есть.
// Ни хранилище, ни сеть не используются.
func (s *Service) SearchArticles(query string, articles []models.Article) []models.Article {
	return Search(query, articles)
}

// Search — чистая функция поиска, см. SearchArticles.
func Search(query string, articles []models.Article) []models.Article {
	if strings.TrimSpace(query) == "" {
		return articles
	}

	needle := strings.ToLower(query)
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if matches(a, needle) {
			out = append(out, a)
		}
	}

	return out
}

func matches(a models.Article, needle string) bool {
	return strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.DisplayAuthor()), needle) ||
		strings.Contains(strings.ToLower(a.DisplayDescription()), needle)
}
