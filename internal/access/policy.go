// Package access decides which weeks a principal may see or change.
//
// Both the single-week check and the list filter are compiled from one
// rule per principal, so they cannot drift apart.
package access

import (
	accesserrors "go-onboarding/internal/access/errors"
	"go-onboarding/internal/domain"

	"gorm.io/gorm"
)

type ruleKind int

const (
	ruleNone ruleKind = iota
	ruleAll
	ruleOwner
	ruleOwnerOrManager
)

type weekRule struct {
	kind   ruleKind
	userID uint
}

func ruleFor(p Principal) weekRule {
	if p.Role == RoleAdmin {
		return weekRule{kind: ruleAll}
	}
	if p.UserID == nil {
		return weekRule{kind: ruleNone}
	}

	switch p.Role {
	case RoleManager:
		return weekRule{kind: ruleOwnerOrManager, userID: *p.UserID}
	case RoleUser:
		return weekRule{kind: ruleOwner, userID: *p.UserID}
	default:
		return weekRule{kind: ruleNone}
	}
}

func (r weekRule) matches(w domain.Week) bool {
	switch r.kind {
	case ruleAll:
		return true
	case ruleOwner:
		return sameID(w.OwnerUserID, r.userID)
	case ruleOwnerOrManager:
		return sameID(w.ManagerUserID, r.userID) || sameID(w.OwnerUserID, r.userID)
	default:
		return false
	}
}

func (r weekRule) apply(db *gorm.DB) *gorm.DB {
	switch r.kind {
	case ruleAll:
		return db
	case ruleOwner:
		return db.Where("weeks.owner_user_id = ?", r.userID)
	case ruleOwnerOrManager:
		return db.Where("(weeks.manager_user_id = ? OR weeks.owner_user_id = ?)", r.userID, r.userID)
	default:
		return db.Where("1 = 0")
	}
}

func sameID(a *uint, b uint) bool {
	return a != nil && *a == b
}

func CanAccessWeek(p Principal, w domain.Week) bool {
	return ruleFor(p).matches(w)
}

// EnsureWeekAccess fails with a 403 error when p may not access w.
func EnsureWeekAccess(p Principal, w domain.Week) error {
	if !CanAccessWeek(p, w) {
		return accesserrors.ErrWeekForbidden
	}
	return nil
}

// WeekScope restricts a query over the weeks table to the rows p may
// access. Anonymous non-admin principals get an empty result, not an error.
func WeekScope(p Principal) func(db *gorm.DB) *gorm.DB {
	rule := ruleFor(p)
	return func(db *gorm.DB) *gorm.DB {
		return rule.apply(db)
	}
}
