// Package create implements the HTTP handler for creating articles.
//
// The handler decodes and validates the JSON payload, checks that the
// requester may author content and returns the id of the new article.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/http/middlewarectx"
	"github.com/jotanews/content-api/internal/http/response"
	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/models"
	services "github.com/jotanews/content-api/internal/services/article"
)

// Handler serves article creation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the article creation contract.
type Service interface {
	Create(ctx context.Context, authorUID string, req models.DummyArticle) (int64, error)
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
	const op = "handlers.article.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requester := middlewarectx.RequesterFromContext(r.Context())
	if !access.CanCreate(requester) {
		log.Error("requester may not create articles", slog.String("role", requester.Role))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("permission denied"))
		return
	}

	var req models.DummyArticle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), requester.UserUID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCategory), errors.Is(err, services.ErrInvalidSchedule):
			log.Error("invalid article payload", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to create article", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create article"))
		}
		return
	}

	log.Info("article created", slog.Int64("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
