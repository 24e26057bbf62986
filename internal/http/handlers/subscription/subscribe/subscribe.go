// Package subscribe implements the HTTP handler for taking out a
// subscription to a plan. One active subscription per user; a second
// attempt is a validation error, not a conflict the client must
// untangle.
package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/jotanews/content-api/internal/http/middlewarectx"
	"github.com/jotanews/content-api/internal/http/response"
	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/models"
	services "github.com/jotanews/content-api/internal/services/subscription"
)

// Handler serves subscribe requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the subscribe contract.
type Service interface {
	Subscribe(ctx context.Context, userUID string, planID int64) (*models.UserSubscription, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	planID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan id"))
		return
	}

	requester := middlewarectx.RequesterFromContext(r.Context())

	sub, err := h.service.Subscribe(r.Context(), requester.UserUID, planID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadySubscribed):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("user already has an active subscription"))
		case errors.Is(err, services.ErrPlanNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown plan"))
		default:
			log.Error("failed to subscribe", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not subscribe"))
		}
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
