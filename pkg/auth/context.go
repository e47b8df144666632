package auth

import (
	"context"

	"carrental/pkg/model"
)

type identityKey struct{}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID   string
	Username string
	Role     model.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// CanActOn reports whether the caller may act on resources owned by userID.
func (i *Identity) CanActOn(userID string) bool {
	return i != nil && (i.UserID == userID || i.Role.Can(model.CapManageUsers))
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
