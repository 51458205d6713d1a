package catalog

import (
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/session"
)

// CanModify reports whether user may edit or delete p: admins may modify any
// product, other users only their own.
func CanModify(user *domain.CurrentUser, p domain.Product) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin || user.ID == p.UserID
}

// Permissions lists the actions visible for one product.
type Permissions struct {
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// PermissionsFor evaluates the gate for p under s. It is evaluated on every
// read and never cached.
func PermissionsFor(s session.Session, p domain.Product) Permissions {
	var user *domain.CurrentUser
	if u, ok := s.User(); ok {
		user = &u
	}
	allowed := CanModify(user, p)
	return Permissions{Edit: allowed, Delete: allowed}
}
