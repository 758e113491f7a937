// Package policy centralises every authorization decision the service makes.
// Handlers and the service layer never check roles directly; they ask
// Authorize and propagate its verdict.
package policy

import (
	"github.com/unimonitor/sports-activity-service/src/internal/api/apiErrors"
	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

type Operation string

const (
	OpListPublicActivities    Operation = "activities.list_public"
	OpListPublicAnnouncements Operation = "announcements.list_public"
	OpCreateActivity          Operation = "activities.create"
	OpUpdateActivity          Operation = "activities.update"
	OpDeleteActivity          Operation = "activities.delete"
	OpDecideActivity          Operation = "activities.decide"
	OpListAllActivities       Operation = "activities.list_all"
	OpCreateAnnouncement      Operation = "announcements.create"
	OpUpdateAnnouncement      Operation = "announcements.update"
	OpDeleteAnnouncement      Operation = "announcements.delete"
	OpListUsers               Operation = "users.list"
)

// Target carries the ownership information a rule may need. It is nil for
// operations without a concrete record (create, list).
type Target struct {
	OwnerID string
}

type rule struct {
	matches func(user *model.User, op Operation, target *Target) bool
	allowed bool
}

// Rules are evaluated in order; the first match wins. The final catch-all
// denies anything no earlier rule claimed.
var rules = []rule{
	// 1. Public reads need no user at all.
	{matches: func(_ *model.User, op Operation, _ *Target) bool {
		return op == OpListPublicActivities || op == OpListPublicAnnouncements
	}, allowed: true},
	// 2. Monitors create activities and announcements.
	{matches: func(u *model.User, op Operation, _ *Target) bool {
		return (op == OpCreateActivity || op == OpCreateAnnouncement) &&
			u != nil && u.Role == model.RoleMonitor
	}, allowed: true},
	// 3. Owning monitor edits/deletes its own records.
	{matches: func(u *model.User, op Operation, t *Target) bool {
		switch op {
		case OpUpdateActivity, OpDeleteActivity, OpUpdateAnnouncement, OpDeleteAnnouncement:
		default:
			return false
		}
		return u != nil && u.Role == model.RoleMonitor && t != nil && u.ID == t.OwnerID
	}, allowed: true},
	// 3b. Admin override: admins may delete any activity (not announcements,
	// and not edit activity fields).
	{matches: func(u *model.User, op Operation, _ *Target) bool {
		return op == OpDeleteActivity && u != nil && u.Role == model.RoleAdmin
	}, allowed: true},
	// 4. Only admins decide moderation status.
	{matches: func(u *model.User, op Operation, _ *Target) bool {
		return op == OpDecideActivity && u != nil && u.Role == model.RoleAdmin
	}, allowed: true},
	// 5. Only admins see the full activity list and the user roster.
	{matches: func(u *model.User, op Operation, _ *Target) bool {
		return (op == OpListAllActivities || op == OpListUsers) &&
			u != nil && u.Role == model.RoleAdmin
	}, allowed: true},
	// 6. Everything else is denied.
	{matches: func(_ *model.User, _ Operation, _ *Target) bool { return true }, allowed: false},
}

// Authorize returns nil when user may perform op on target, or an APIError
// with a stable reason code. A nil user represents an unauthenticated caller.
func Authorize(user *model.User, op Operation, target *Target) error {
	for _, r := range rules {
		if !r.matches(user, op, target) {
			continue
		}
		if r.allowed {
			return nil
		}
		break
	}
	if user == nil {
		return apiErrors.APIError{Code: apiErrors.NotAuthenticated, Message: "authentication required"}
	}
	return apiErrors.APIError{Code: apiErrors.InsufficientRole, Message: "operation not permitted for this user"}
}
