// Package remove implements the HTTP handler for deleting an article.
package remove

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
	services "github.com/jotanews/content-api/internal/services/article"
)

// Handler serves article deletions.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the article deletion contract.
type Service interface {
	Remove(ctx context.Context, requester access.Requester, id int64) error
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.remove"
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

	if err := h.service.Remove(r.Context(), requester, id); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
		case errors.Is(err, services.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("permission denied"))
		default:
			log.Error("failed to remove article", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove article"))
		}
		return
	}

	log.Info("article removed", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
