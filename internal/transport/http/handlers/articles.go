package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/news-reader/internal/errors"
	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/remote"
)

// HeaderDataOrigin — откуда пришли данные: network или cache.
const HeaderDataOrigin = "X-Data-Origin"

type fetchResponse struct {
	Articles     []models.Article `json:"articles"`
	TotalResults int              `json:"total_results"`
	Origin       models.Origin    `json:"origin"`
	StaleReason  string           `json:"stale_reason,omitempty"`
}

type searchRequest struct {
	Query    string           `json:"query"`
	Articles []models.Article `json:"articles"`
}

// FetchArticles — GET /articles?page=&page_size=.
// Всегда 200: при недоступности источника отдаётся кэш с origin=cache.
func (h *Handlers) FetchArticles(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res := h.svc.FetchArticlesResult(r.Context(), page, pageSize)

	w.Header().Set(HeaderDataOrigin, string(res.Origin))
	writeJSON(w, http.StatusOK, fetchResponse{
		Articles:     res.Articles,
		TotalResults: res.TotalResults,
		Origin:       res.Origin,
		StaleReason:  remote.Reason(res.Reason),
	})
}

// CachedArticles — GET /articles/cached.
func (h *Handlers) CachedArticles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, articlesResponse{Articles: h.svc.CachedArticles(r.Context())})
}

// SearchArticles — POST /articles/search; ищет только по переданному списку.
func (h *Handlers) SearchArticles(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	found := h.svc.SearchArticles(req.Query, req.Articles)
	if found == nil {
		found = []models.Article{}
	}

	writeJSON(w, http.StatusOK, articlesResponse{Articles: found})
}

// Stats — GET /stats.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, st)
}
