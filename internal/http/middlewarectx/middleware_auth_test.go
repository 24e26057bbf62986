package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AuthMock struct{ mock.Mock }

func (m *AuthMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type SubsMock struct{ mock.Mock }

func (m *SubsMock) ActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func captureRequester(captured *access.Requester) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = RequesterFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		setupMocks    func(a *AuthMock, s *SubsMock)
		wantStatus    int
		wantRequester func(t *testing.T, r access.Requester)
	}{
		{
			name:       "no header proceeds anonymously",
			header:     "",
			setupMocks: func(_ *AuthMock, _ *SubsMock) {},
			wantStatus: http.StatusOK,
			wantRequester: func(t *testing.T, r access.Requester) {
				assert.False(t, r.Authenticated)
			},
		},
		{
			name:   "valid reader token loads the subscription",
			header: "Bearer good-token",
			setupMocks: func(a *AuthMock, s *SubsMock) {
				a.On("ValidateToken", mock.Anything, "good-token").
					Return(&models.User{UID: "reader-uid", Username: "r", Role: models.RoleReader}, nil).Once()
				s.On("ActiveSubscription", mock.Anything, "reader-uid").
					Return(&models.UserSubscription{ID: 5, IsActive: true}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantRequester: func(t *testing.T, r access.Requester) {
				assert.True(t, r.Authenticated)
				assert.Equal(t, "reader-uid", r.UserUID)
				assert.NotNil(t, r.Subscription)
			},
		},
		{
			name:   "staff token skips the subscription lookup",
			header: "Bearer staff-token",
			setupMocks: func(a *AuthMock, _ *SubsMock) {
				a.On("ValidateToken", mock.Anything, "staff-token").
					Return(&models.User{UID: "editor-uid", Role: models.RoleEditor}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantRequester: func(t *testing.T, r access.Requester) {
				assert.True(t, r.IsStaff())
				assert.Nil(t, r.Subscription)
			},
		},
		{
			name:   "invalid token gets 401",
			header: "Bearer bad-token",
			setupMocks: func(a *AuthMock, _ *SubsMock) {
				a.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, errors.New("token expired")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header gets 401",
			header:     "Basic abc",
			setupMocks: func(_ *AuthMock, _ *SubsMock) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(AuthMock)
			subs := new(SubsMock)
			tt.setupMocks(auth, subs)

			var captured access.Requester
			handler := Authenticate(auth, subs, newNoopLogger())(captureRequester(&captured))

			req := httptest.NewRequest(http.MethodGet, "/articles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantRequester != nil {
				tt.wantRequester(t, captured)
			}
			auth.AssertExpectations(t)
			subs.AssertExpectations(t)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(newNoopLogger())(next)

	t.Run("anonymous is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		ctx := context.WithValue(req.Context(), RequesterKey,
			access.Requester{Authenticated: true, UserUID: "u", Role: models.RoleReader})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
