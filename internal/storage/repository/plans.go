package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jotanews/content-api/internal/models"
)

// CreatePlan inserts a subscription plan with its category links and
// returns the new id.
func (s *Storage) CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (int64, error) {
	const op = "storage.CreatePlan"
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
	query := `INSERT INTO subscription_plans (name, description, price)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := tx.QueryRowContext(ctx, query,
		plan.Name, plan.Description, plan.Price).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range plan.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_categories (plan_id, category_id) VALUES ($1, $2)`,
			newID, c.ID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPlan returns a plan with its categories.
func (s *Storage) GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price FROM subscription_plans WHERE id = $1`
	p := &models.SubscriptionPlan{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.loadCategoriesForPlans(ctx, []int64{p.ID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Categories = categories[p.ID]
	return p, nil
}

// ListPlans returns all plans with their categories.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price FROM subscription_plans ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionPlan
	var ids []int64
	for rows.Next() {
		p := &models.SubscriptionPlan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.loadCategoriesForPlans(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range result {
		p.Categories = categories[p.ID]
	}
	return result, nil
}

func (s *Storage) loadCategoriesForPlans(ctx context.Context, ids []int64) (map[int64][]models.Category, error) {
	const op = "storage.loadCategoriesForPlans"
	if len(ids) == 0 {
		return map[int64][]models.Category{}, nil
	}

	query := `SELECT pc.plan_id, c.id, c.name
			  FROM plan_categories pc
			  JOIN categories c ON c.id = pc.category_id
			  WHERE pc.plan_id = ANY($1)
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
		var planID int64
		var c models.Category
		if err := rows.Scan(&planID, &c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[planID] = append(result[planID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
