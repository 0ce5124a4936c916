package newsapi

import "github.com/pribylovaa/news-reader/internal/models"

// response — тело ответа NewsAPI.
// При ошибке status="error" и заполнены code/message.
type response struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []models.Article `json:"articles"`
	Code         string           `json:"code,omitempty"`
	Message      string           `json:"message,omitempty"`
}

// toFeedPage отбрасывает заглушки удалённых статей.
func (r response) toFeedPage() *models.FeedPage {
	articles := make([]models.Article, 0, len(r.Articles))
	for _, a := range r.Articles {
		if a.IsRemovedPlaceholder() {
			continue
		}
		articles = append(articles, a)
	}

	return &models.FeedPage{
		Status:       r.Status,
		TotalResults: r.TotalResults,
		Articles:     articles,
	}
}
