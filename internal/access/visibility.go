package access

import (
	"time"

	"github.com/jotanews/content-api/internal/models"
)

// Scope is the query-level form of the visibility rules: the storage
// layer translates it into WHERE clauses so that a filtered listing
// returns exactly the articles IsVisible would admit one by one.
type Scope struct {
	// All short-circuits every other field: staff see everything.
	All bool
	// PublishedBefore restricts to status=PUBLISHED articles whose
	// publication date is not after this instant.
	PublishedBefore time.Time
	// FreeOnly keeps only FREE access-level articles.
	FreeOnly bool
	// PlanCategoryIDs, when non-nil, keeps only articles sharing at
	// least one category with the set. nil means no category gate.
	PlanCategoryIDs []int64
}

// ResolveScope computes the visible scope for a requester at the given
// instant.
//
// Staff (admin, editor) get unrestricted scope. Everyone else is
// limited to published articles already past their publication date,
// then gated by access level: without an active subscription only FREE
// content remains; with one, PRO content is included only for the PRO
// plan. Subscribers are additionally restricted to the verticals their
// plan lists — the access-level gate and the category gate are
// independent filters, so even a PRO subscriber sees nothing outside
// the plan's categories. Anonymous and unsubscribed viewers are not
// category-filtered.
func ResolveScope(r Requester, now time.Time) Scope {
	if r.IsStaff() {
		return Scope{All: true}
	}

	scope := Scope{PublishedBefore: now}

	sub := r.Subscription
	if sub == nil || !sub.IsActive {
		scope.FreeOnly = true
		return scope
	}

	if sub.Plan.Name != models.PlanPro {
		scope.FreeOnly = true
	}
	ids := sub.Plan.CategoryIDs()
	if ids == nil {
		ids = []int64{}
	}
	scope.PlanCategoryIDs = ids
	return scope
}

// IsVisible reports whether the requester may read the article at the
// given instant. It agrees with ResolveScope applied to the same
// requester: an article is visible iff it falls inside the scope.
func IsVisible(r Requester, article *models.Article, now time.Time) bool {
	return Matches(ResolveScope(r, now), article)
}

// Matches reports whether the article falls inside the scope. It is the
// in-memory equivalent of the SQL the storage layer renders from the
// same Scope.
func Matches(s Scope, article *models.Article) bool {
	if s.All {
		return true
	}
	if article.Status != models.StatusPublished {
		return false
	}
	if article.PublicationDate.After(s.PublishedBefore) {
		return false
	}
	if s.FreeOnly && article.AccessLevel != models.AccessFree {
		return false
	}
	if s.PlanCategoryIDs != nil && !intersects(article.CategoryIDs(), s.PlanCategoryIDs) {
		return false
	}
	return true
}

func intersects(a, b []int64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
