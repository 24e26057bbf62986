// Package middlewarectx holds the HTTP middleware that builds the
// request identity from the Authorization header and guards routes
// that require one.
//
// Authentication is optional on read routes: an anonymous request goes
// through with an anonymous identity and sees only free, published
// content. A present but invalid token is rejected outright.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/http/response"
	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/models"
)

// Key is the context key type for request-scoped values.
type Key string

// RequesterKey holds the access.Requester of the current request.
const RequesterKey Key = "requester"

// TokenValidator checks a JWT and returns the identity it carries.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// SubscriptionProvider loads the user's active subscription, nil when
// there is none.
type SubscriptionProvider interface {
	ActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, error)
}

// Authenticate resolves the request identity. Requests without an
// Authorization header proceed anonymously; requests with a bad token
// get 401. For authenticated readers the active subscription is loaded
// so the visibility rules can consult the plan.
func Authenticate(auth TokenValidator, subs SubscriptionProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				ctx := context.WithValue(r.Context(), RequesterKey, access.Anonymous)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := auth.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			requester := access.Requester{
				Authenticated: true,
				UserUID:       user.UID,
				Role:          user.Role,
			}
			if user.Role == models.RoleReader {
				sub, err := subs.ActiveSubscription(r.Context(), user.UID)
				if err != nil {
					log.Error("failed to load subscription", sl.Err(err))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, response.Error("internal error"))
					return
				}
				requester.Subscription = sub
			}

			ctx := context.WithValue(r.Context(), RequesterKey, requester)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Must run after
// Authenticate.
func RequireAuth(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requester := RequesterFromContext(r.Context())
			if !requester.Authenticated {
				log.Error("unauthenticated request to protected route",
					slog.String("path", r.URL.Path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequesterFromContext returns the identity resolved by Authenticate,
// or the anonymous identity when the middleware did not run.
func RequesterFromContext(ctx context.Context) access.Requester {
	requester, ok := ctx.Value(RequesterKey).(access.Requester)
	if !ok {
		return access.Anonymous
	}
	return requester
}
