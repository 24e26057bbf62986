// Package services contains the category (vertical) business logic.
// Categories are read by everyone and managed by admins only.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/models"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrForbidden = errors.New("permission denied")
)

// CategoryRepository defines the storage methods the service needs.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (int64, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	RemoveCategory(ctx context.Context, id int64) (int, error)
}

// CategoryService implements category management.
type CategoryService struct {
	repo CategoryRepository
	log  *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo CategoryRepository, log *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

// Create adds a vertical. Admin only.
func (s *CategoryService) Create(ctx context.Context, requester access.Requester, name string) (int64, error) {
	if !access.CanManageCategories(requester) {
		return 0, ErrForbidden
	}
	id, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return 0, err
	}
	s.log.Info("created category", slog.Int64("id", id), slog.String("name", name))
	return id, nil
}

// List returns all verticals, for everyone.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// Remove deletes a vertical. Admin only. Articles keep existing; only
// the link rows go away with the category.
func (s *CategoryService) Remove(ctx context.Context, requester access.Requester, id int64) error {
	if !access.CanManageCategories(requester) {
		return ErrForbidden
	}
	count, err := s.repo.RemoveCategory(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("removed category", slog.Int64("id", id))
	return nil
}
