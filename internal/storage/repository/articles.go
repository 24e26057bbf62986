package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/models"
)

const articleColumns = `a.id, a.title, a.subtitle, a.body, a.image, a.publication_date,
			      a.scheduled_date, a.author_uid, a.status, a.access_level, a.is_published,
			      a.created_at, a.updated_at`

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	var image sql.NullString
	var scheduledDate sql.NullTime
	if err := row.Scan(&a.ID, &a.Title, &a.Subtitle, &a.Body, &image, &a.PublicationDate,
		&scheduledDate, &a.AuthorUID, &a.Status, &a.AccessLevel, &a.IsPublished,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if image.Valid {
		a.Image = &image.String
	}
	if scheduledDate.Valid {
		a.ScheduledDate = &scheduledDate.Time
	}
	return &a, nil
}

// CreateArticle inserts an article with its category links in one
// transaction and returns the new id.
func (s *Storage) CreateArticle(ctx context.Context, article models.Article) (int64, error) {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int64
	query := `INSERT INTO articles (title, subtitle, body, image, publication_date,
			      scheduled_date, author_uid, status, access_level, is_published)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		article.Title, article.Subtitle, article.Body, article.Image, article.PublicationDate,
		article.ScheduledDate, article.AuthorUID, article.Status, article.AccessLevel,
		article.IsPublished).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range article.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_categories (article_id, category_id) VALUES ($1, $2)`,
			newID, c.ID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetArticle returns an article with its categories.
func (s *Storage) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	const op = "storage.GetArticle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + ` FROM articles a WHERE a.id = $1`
	article, err := scanArticle(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.loadCategoriesForArticles(ctx, []int64{article.ID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	article.Categories = categories[article.ID]
	return article, nil
}

// UpdateArticle updates the mutable fields of an article and replaces
// its category links. The author never changes. Returns the number of
// updated rows.
func (s *Storage) UpdateArticle(ctx context.Context, article models.Article) (int, error) {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE articles
			  SET title = $1, subtitle = $2, body = $3, image = $4, scheduled_date = $5,
			      status = $6, access_level = $7, publication_date = $8, is_published = $9,
			      updated_at = now()
			  WHERE id = $10`
	result, err := tx.ExecContext(ctx, query,
		article.Title, article.Subtitle, article.Body, article.Image, article.ScheduledDate,
		article.Status, article.AccessLevel, article.PublicationDate, article.IsPublished,
		article.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM article_categories WHERE article_id = $1`, article.ID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, c := range article.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_categories (article_id, category_id) VALUES ($1, $2)`,
			article.ID, c.ID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveArticle deletes an article by id and returns the number of
// deleted rows.
func (s *Storage) RemoveArticle(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM articles WHERE id = $1`
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

// MarkPublished flips an article to published: status, live flag and,
// when fillDate is set, the publication date. Returns the number of
// updated rows.
func (s *Storage) MarkPublished(ctx context.Context, id int64, publicationDate time.Time, fillDate bool) (int, error) {
	const op = "storage.MarkPublished"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET status = 'PUBLISHED',
			      is_published = true,
			      publication_date = CASE WHEN $2 THEN $3 ELSE publication_date END,
			      updated_at = now()
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, fillDate, publicationDate)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ClaimDueScheduledArticles atomically claims every article whose
// scheduled date has passed and which has not gone live yet, setting
// the live flag and the publication date in one conditional update.
// The is_published predicate makes overlapping sweeps safe: a row can
// only be claimed once.
func (s *Storage) ClaimDueScheduledArticles(ctx context.Context, now time.Time) ([]int64, error) {
	const op = "storage.ClaimDueScheduledArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET publication_date = $1,
			      is_published = true,
			      updated_at = now()
			  WHERE status = 'PUBLISHED'
			    AND scheduled_date <= $1
			    AND is_published = false
			  RETURNING id`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// ListArticles returns the articles inside the visibility scope that
// match the filter, newest publication first, with pagination.
func (s *Storage) ListArticles(ctx context.Context, scope access.Scope, filter models.ArticleFilter) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !scope.All {
		conds = append(conds, "a.status = 'PUBLISHED'")
		conds = append(conds, "a.publication_date <= "+arg(scope.PublishedBefore))
		if scope.FreeOnly {
			conds = append(conds, "a.access_level = 'FREE'")
		}
		if scope.PlanCategoryIDs != nil {
			conds = append(conds, `EXISTS (SELECT 1 FROM article_categories ac
				  WHERE ac.article_id = a.id AND ac.category_id = ANY(`+arg(scope.PlanCategoryIDs)+`))`)
		}
	}

	if filter.Status != "" {
		conds = append(conds, "a.status = "+arg(filter.Status))
	}
	if filter.AccessLevel != "" {
		conds = append(conds, "a.access_level = "+arg(filter.AccessLevel))
	}
	if filter.AuthorUID != "" {
		conds = append(conds, "a.author_uid = "+arg(filter.AuthorUID))
	}
	if filter.CategoryID != 0 {
		conds = append(conds, `EXISTS (SELECT 1 FROM article_categories ac
			  WHERE ac.article_id = a.id AND ac.category_id = `+arg(filter.CategoryID)+`)`)
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		conds = append(conds, "(a.title ILIKE "+pattern+" OR a.subtitle ILIKE "+pattern+" OR a.body ILIKE "+pattern+")")
	}

	query := `SELECT ` + articleColumns + ` FROM articles a`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY a.publication_date DESC"
	query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Article
	var ids []int64
	for rows.Next() {
		item, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
		ids = append(ids, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.loadCategoriesForArticles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, a := range result {
		a.Categories = categories[a.ID]
	}
	return result, nil
}
