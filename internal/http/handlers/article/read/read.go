// Package read implements the HTTP handler for fetching one article.
//
// Visibility is decided by the requester's identity: an article the
// requester may not see answers 404, the same as one that does not
// exist.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/http/middlewarectx"
	"github.com/jotanews/content-api/internal/http/response"
	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/models"
	services "github.com/jotanews/content-api/internal/services/article"
)

// Handler serves single-article reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the article read contract.
type Service interface {
	Get(ctx context.Context, requester access.Requester, id int64) (*models.Article, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid article id"))
		return
	}

	requester := middlewarectx.RequesterFromContext(r.Context())

	article, err := h.service.Get(r.Context(), requester, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
			return
		}
		log.Error("failed to read article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read article"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
	}))
}
