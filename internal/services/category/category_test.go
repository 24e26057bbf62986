package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCategory(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *RepoMock) RemoveCategory(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var (
	admin  = access.Requester{Authenticated: true, UserUID: "a", Role: models.RoleAdmin}
	editor = access.Requester{Authenticated: true, UserUID: "e", Role: models.RoleEditor}
)

func TestCategoryService_Create(t *testing.T) {
	t.Run("admin creates", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewCategoryService(repo, newNoopLogger())

		repo.On("CreateCategory", mock.Anything, "ENERGIA").Return(int64(4), nil).Once()

		id, err := svc.Create(context.Background(), admin, "ENERGIA")
		assert.NoError(t, err)
		assert.Equal(t, int64(4), id)
		repo.AssertExpectations(t)
	})

	t.Run("editor is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewCategoryService(repo, newNoopLogger())

		_, err := svc.Create(context.Background(), editor, "ENERGIA")
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertExpectations(t)
	})
}

func TestCategoryService_Remove(t *testing.T) {
	t.Run("admin removes", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewCategoryService(repo, newNoopLogger())

		repo.On("RemoveCategory", mock.Anything, int64(4)).Return(1, nil).Once()

		assert.NoError(t, svc.Remove(context.Background(), admin, 4))
		repo.AssertExpectations(t)
	})

	t.Run("missing category", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewCategoryService(repo, newNoopLogger())

		repo.On("RemoveCategory", mock.Anything, int64(9)).Return(0, nil).Once()

		assert.ErrorIs(t, svc.Remove(context.Background(), admin, 9), ErrNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("editor is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewCategoryService(repo, newNoopLogger())

		assert.ErrorIs(t, svc.Remove(context.Background(), editor, 4), ErrForbidden)
		repo.AssertExpectations(t)
	})
}
