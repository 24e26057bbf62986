package models

import "time"

// UserSubscription links a user to a plan. The system treats the
// relation as one-to-one: at most one subscription per user is current,
// enforced at creation time.
type UserSubscription struct {
	ID        int64
	UserUID   string
	Plan      SubscriptionPlan
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
}

// DaysRemaining reports the whole days left until EndDate, never
// negative.
func (s *UserSubscription) DaysRemaining(now time.Time) int {
	days := int(s.EndDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// NotificationRecipient is a subscriber eligible to receive an
// "article published" e-mail: an active reader whose active
// subscription covers the article.
type NotificationRecipient struct {
	Email    string
	Username string
}
