package identity

import "context"

// AccessChecker is the single authorization gate. Every module access
// request goes through HasAccess; no other code inspects IsAdmin or grants.
type AccessChecker struct {
	grants PermissionRepository
}

// NewAccessChecker creates an AccessChecker over the grant relation.
func NewAccessChecker(grants PermissionRepository) *AccessChecker {
	return &AccessChecker{grants: grants}
}

// HasAccess decides whether the user may enter the module with the given
// code. Admins pass unconditionally. Everyone else needs a grant for a
// permission with that code whose active flag is set, evaluated fresh
// against the store on every call — grants can change mid-session.
func (c *AccessChecker) HasAccess(ctx context.Context, user *User, code string) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin {
		return true, nil
	}
	return c.grants.UserHasActive(ctx, user.ID, code)
}
