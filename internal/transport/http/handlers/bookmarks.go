package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/news-reader/internal/errors"
	"github.com/pribylovaa/news-reader/internal/models"
)

// BookmarkedArticles — GET /bookmarks.
func (h *Handlers) BookmarkedArticles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, articlesResponse{Articles: h.svc.BookmarkedArticles(r.Context())})
}

// BookmarkArticle — PUT /bookmarks, тело — статья целиком
// (для некэшированной статьи из неё создаётся запись).
func (h *Handlers) BookmarkArticle(w http.ResponseWriter, r *http.Request) {
	var a models.Article
	if err := decodeStrict(r, &a); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.BookmarkArticle(r.Context(), a); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleBookmark — POST /bookmarks/toggle.
func (h *Handlers) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	var a models.Article
	if err := decodeStrict(r, &a); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	on, err := h.svc.ToggleBookmark(r.Context(), a)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmarkedResponse{Bookmarked: on})
}

// RemoveBookmark — DELETE /bookmarks?url=.
func (h *Handlers) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	u, err := queryURL(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.RemoveBookmark(r.Context(), models.Article{URL: u}); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BookmarkStatus — GET /bookmarks/status?url=.
func (h *Handlers) BookmarkStatus(w http.ResponseWriter, r *http.Request) {
	u, err := queryURL(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	on := h.svc.IsArticleBookmarked(r.Context(), models.Article{URL: u})
	writeJSON(w, http.StatusOK, bookmarkedResponse{Bookmarked: on})
}
