// Package list implements the HTTP handler for listing articles.
//
// Filters arrive as query parameters; the visibility rules are applied
// on top of them, so a reader never sees more than their plan allows
// regardless of the filters requested.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/http/middlewarectx"
	"github.com/jotanews/content-api/internal/http/response"
	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/models"
)

// Handler serves article listings.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the article listing contract.
type Service interface {
	List(ctx context.Context, requester access.Requester, req models.DummyArticleFilter) ([]*models.Article, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req, err := filterFromQuery(r)
	if err != nil {
		log.Error("failed to decode query parameters", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid query parameters"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	requester := middlewarectx.RequesterFromContext(r.Context())

	articles, err := h.service.List(r.Context(), requester, req)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list articles"))
		return
	}
	if articles == nil {
		articles = []*models.Article{}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles": articles,
		"count":    len(articles),
	}))
}

func filterFromQuery(r *http.Request) (models.DummyArticleFilter, error) {
	q := r.URL.Query()
	req := models.DummyArticleFilter{
		Status:      q.Get("status"),
		AccessLevel: q.Get("access_level"),
		AuthorUID:   q.Get("author_uid"),
		Search:      q.Get("search"),
	}

	var err error
	if v := q.Get("category_id"); v != "" {
		if req.CategoryID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return req, err
		}
	}
	if v := q.Get("limit"); v != "" {
		if req.Limit, err = strconv.Atoi(v); err != nil {
			return req, err
		}
	}
	if v := q.Get("offset"); v != "" {
		if req.Offset, err = strconv.Atoi(v); err != nil {
			return req, err
		}
	}
	return req, nil
}
