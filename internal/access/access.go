// Package access implements the visibility resolver and the mutation
// authorizer. Both are pure, stateless functions over a Requester and
// an entity snapshot, safe to call from any number of request handlers
// concurrently. They never return errors: lacking access yields false
// or a narrower Scope, and the caller decides how to surface that.
package access

import (
	"github.com/jotanews/content-api/internal/models"
)

// Requester is the resolved identity a request acts as. The zero value
// is an anonymous visitor. Subscription is nil unless the user holds an
// active subscription; when set, its Plan carries the plan categories.
type Requester struct {
	Authenticated bool
	UserUID       string
	Role          string
	Subscription  *models.UserSubscription
}

// Anonymous is the requester used for unauthenticated requests.
var Anonymous = Requester{}

// IsStaff reports whether the requester is an admin or an editor.
func (r Requester) IsStaff() bool {
	return r.Authenticated && (r.Role == models.RoleAdmin || r.Role == models.RoleEditor)
}

// Actions a requester can attempt on an article beyond reading it.
type Action string

const (
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionPublish Action = "publish"
)

// CanCreate reports whether the requester may create articles.
// Only authenticated editors and admins may.
func CanCreate(r Requester) bool {
	return r.IsStaff()
}

// CanMutate reports whether the requester may perform action on the
// article. Update and delete require ownership, which admins bypass.
// Publish deliberately skips the ownership check: any editor or admin
// may publish any article. Reading is never gated here; visibility is
// the resolver's job.
func CanMutate(r Requester, article *models.Article, action Action) bool {
	if !r.Authenticated {
		return false
	}
	switch action {
	case ActionPublish:
		return r.Role == models.RoleAdmin || r.Role == models.RoleEditor
	case ActionUpdate, ActionDelete:
		if r.Role == models.RoleAdmin {
			return true
		}
		return article.AuthorUID == r.UserUID
	default:
		return false
	}
}

// CanManageCategories reports whether the requester may create or
// delete categories. Reads are open to everyone.
func CanManageCategories(r Requester) bool {
	return r.Authenticated && r.Role == models.RoleAdmin
}

// CanActOnSubscription reports whether the requester may read or modify
// the given user's subscription: the owner or an admin.
func CanActOnSubscription(r Requester, ownerUID string) bool {
	if !r.Authenticated {
		return false
	}
	return r.Role == models.RoleAdmin || r.UserUID == ownerUID
}
