package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jotanews/content-api/internal/models"
)

// CreateSubscription inserts a subscription and returns its id.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.UserSubscription) (int64, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO user_subscriptions (user_uid, plan_id, start_date, end_date, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.Plan.ID, sub.StartDate, sub.EndDate, sub.IsActive).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubscription returns a subscription by id with its plan and the
// plan's categories.
func (s *Storage) GetSubscription(ctx context.Context, id int64) (*models.UserSubscription, error) {
	const op = "storage.GetSubscription"
	sub, err := s.getSubscription(ctx, `s.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetActiveSubscriptionByUserUID returns the user's active
// subscription, or ErrNotFound when the user has none.
func (s *Storage) GetActiveSubscriptionByUserUID(ctx context.Context, userUID string) (*models.UserSubscription, error) {
	const op = "storage.GetActiveSubscriptionByUserUID"
	sub, err := s.getSubscription(ctx, `s.user_uid = $1 AND s.is_active = true`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

func (s *Storage) getSubscription(ctx context.Context, cond string, arg any) (*models.UserSubscription, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	query := `SELECT s.id, s.user_uid, s.start_date, s.end_date, s.is_active,
			      p.id, p.name, p.description, p.price
			  FROM user_subscriptions s
			  JOIN subscription_plans p ON p.id = s.plan_id
			  WHERE ` + cond
	sub := &models.UserSubscription{}
	row := s.DB.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.StartDate, &sub.EndDate, &sub.IsActive,
		&sub.Plan.ID, &sub.Plan.Name, &sub.Plan.Description, &sub.Plan.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	categories, err := s.loadCategoriesForPlans(ctx, []int64{sub.Plan.ID})
	if err != nil {
		return nil, err
	}
	sub.Plan.Categories = categories[sub.Plan.ID]
	return sub, nil
}

// RenewSubscription extends a subscription's end date by the given
// duration and reactivates it. Returns the number of updated rows.
func (s *Storage) RenewSubscription(ctx context.Context, id int64, extension time.Duration) (int, error) {
	const op = "storage.RenewSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_subscriptions
			  SET end_date = end_date + $2 * INTERVAL '1 second',
			      is_active = true
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, int64(extension.Seconds()))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CancelSubscription clears the active flag. The record is kept for
// history. Returns the number of updated rows.
func (s *Storage) CancelSubscription(ctx context.Context, id int64) (int, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_subscriptions SET is_active = false WHERE id = $1`
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

// ListEligibleRecipients returns the subscribers to notify about a
// published article: active readers holding an active subscription
// whose plan covers one of the article's categories, and whose plan
// tier admits the article's access level.
func (s *Storage) ListEligibleRecipients(ctx context.Context, articleID int64) ([]*models.NotificationRecipient, error) {
	const op = "storage.ListEligibleRecipients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT u.email, u.username
			  FROM users u
			  JOIN user_subscriptions s ON s.user_uid = u.uid AND s.is_active = true
			  JOIN subscription_plans p ON p.id = s.plan_id
			  JOIN articles a ON a.id = $1
			  WHERE u.role = 'READER'
			    AND (a.access_level = 'FREE' OR p.name = 'PRO')
			    AND EXISTS (
			        SELECT 1
			        FROM plan_categories pc
			        JOIN article_categories ac ON ac.category_id = pc.category_id
			        WHERE pc.plan_id = p.id AND ac.article_id = a.id
			    )
			  ORDER BY u.email`
	rows, err := s.DB.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.NotificationRecipient
	for rows.Next() {
		var r models.NotificationRecipient
		if err := rows.Scan(&r.Email, &r.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
