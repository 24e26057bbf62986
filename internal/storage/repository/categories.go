package repository

import (
	"context"
	"fmt"

	"github.com/jotanews/content-api/internal/models"
)

// CreateCategory inserts a category and returns its id.
func (s *Storage) CreateCategory(ctx context.Context, name string) (int64, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCategories returns all categories ordered by name.
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name FROM categories ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveCategory deletes a category by id and returns the number of
// deleted rows.
func (s *Storage) RemoveCategory(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM categories WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCategoriesByIDs returns the categories with the given ids. A
// missing id is simply absent from the result; the caller decides
// whether that is an error.
func (s *Storage) ListCategoriesByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	const op = "storage.ListCategoriesByIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name FROM categories WHERE id = ANY($1) ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// loadCategoriesForArticles fetches the categories of every article in
// ids and groups them by article id.
func (s *Storage) loadCategoriesForArticles(ctx context.Context, ids []int64) (map[int64][]models.Category, error) {
	const op = "storage.loadCategoriesForArticles"
	if len(ids) == 0 {
		return map[int64][]models.Category{}, nil
	}

	query := `SELECT ac.article_id, c.id, c.name
			  FROM article_categories ac
			  JOIN categories c ON c.id = ac.category_id
			  WHERE ac.article_id = ANY($1)
			  ORDER BY c.name`
	rows, err := s.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[int64][]models.Category)
	for rows.Next() {
		var articleID int64
		var c models.Category
		if err := rows.Scan(&articleID, &c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[articleID] = append(result[articleID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
