// models содержит доменные типы news-reader.
package models

import (
	"strings"
	"time"
)

// Заглушки для отображения отсутствующих полей.
const (
	UnknownAuthor        = "Unknown Author"
	NoDescription        = "No description available"
	displayDateLayout    = "Jan 2, 2006 at 3:04 PM"
	placeholderRemovedAt = "[Removed]"
)

// Source — издание, опубликовавшее статью.
// Пустой Name означает, что источник неизвестен.
type Source struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	Name string `json:"name"           yaml:"name"`
}

// Article — статья в том виде, в каком её отдаёт удалённый источник.
// Значение неизменяемое; первичный ключ — URL.
type Article struct {
	// URL — уникальный идентификатор статьи.
	URL string `json:"url" yaml:"url"`
	// Title — обязательный заголовок.
	Title string `json:"title" yaml:"title"`
	// Author — автор; пустая строка означает «не указан».
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
	// Description — краткое описание.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// ImageURL — ссылка на обложку.
	ImageURL string `json:"urlToImage,omitempty" yaml:"image_url,omitempty"`
	// PublishedAt — дата публикации в исходном ISO-8601 виде.
	PublishedAt string `json:"publishedAt,omitempty" yaml:"published_at,omitempty"`
	// Content — фрагмент тела статьи.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
	// Source — издание (может отсутствовать).
	Source Source `json:"source" yaml:"source,omitempty"`
}

// Equal сравнивает статьи по URL.
func (a Article) Equal(other Article) bool {
	return a.URL == other.URL
}

// DisplayAuthor возвращает автора или UnknownAuthor.
func (a Article) DisplayAuthor() string {
	if strings.TrimSpace(a.Author) == "" {
		return UnknownAuthor
	}

	return a.Author
}

// DisplayDescription возвращает описание или NoDescription.
func (a Article) DisplayDescription() string {
	if strings.TrimSpace(a.Description) == "" {
		return NoDescription
	}

	return a.Description
}

// FormattedDate форматирует PublishedAt для показа.
// Если строку не удалось разобрать, возвращается как есть.
func (a Article) FormattedDate() string {
	t, ok := a.PublishedTime()
	if !ok {
		return a.PublishedAt
	}

	return t.Format(displayDateLayout)
}

// PublishedTime разбирает PublishedAt (RFC 3339, с дробными секундами или без).
func (a Article) PublishedTime() (time.Time, bool) {
	raw := strings.TrimSpace(a.PublishedAt)
	if raw == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}

	return t.UTC(), true
}

// IsRemovedPlaceholder сообщает, что запись — заглушка удалённой статьи,
// которую NewsAPI отдаёт вместо контента.
func (a Article) IsRemovedPlaceholder() bool {
	return a.Title == placeholderRemovedAt
}

// CachedArticleRecord — сохранённая запись статьи: одна на каждый URL.
type CachedArticleRecord struct {
	Article
	// Bookmarked — пользовательская закладка; живёт независимо от свежести кэша.
	Bookmarked bool
	// CachedAt — время последней записи; не является временем закладки.
	CachedAt time.Time
}

// FeedPage — ответ удалённого источника на один запрос страницы.
type FeedPage struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// CacheStats — счётчики локального хранилища.
type CacheStats struct {
	Cached     int `json:"cached"     yaml:"cached"`
	Bookmarked int `json:"bookmarked" yaml:"bookmarked"`
}
