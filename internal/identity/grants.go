package identity

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// GrantSelector describes the target grant set for a replacement:
// everything currently active, nothing, or an explicit id list.
type GrantSelector struct {
	All bool
	IDs []int64
}

// ParseGrantSelector parses the permission-configuration prompt input:
// the literal "all", the literal "none", or comma-separated permission ids.
// Input that yields no ids (empty, whitespace, bare commas) is rejected;
// clearing a grant set requires the explicit "none".
func ParseGrantSelector(input string) (GrantSelector, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "all":
		return GrantSelector{All: true}, nil
	case "none":
		return GrantSelector{}, nil
	}

	var sel GrantSelector
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return GrantSelector{}, validationErr("selection", "use comma-separated ids, 'all' or 'none'")
		}
		sel.IDs = append(sel.IDs, id)
	}
	if len(sel.IDs) == 0 {
		return GrantSelector{}, validationErr("selection", "use comma-separated ids, 'all' or 'none'")
	}
	return sel, nil
}

// GrantService mutates users' granted-permission sets.
type GrantService struct {
	users UserRepository
	perms PermissionRepository
	log   *slog.Logger
}

// NewGrantService creates a GrantService over the given repositories.
func NewGrantService(users UserRepository, perms PermissionRepository, logger *slog.Logger) *GrantService {
	return &GrantService{users: users, perms: perms, log: logger}
}

// SetUserPermissions replaces (never merges) a user's grant set according to
// the selector and returns the resulting granted permissions.
//
// "all" resolves to every currently-active catalog permission. Unknown ids
// are skipped silently — the bulk input contract is forgiving. For admins
// this is a no-op returning their current (irrelevant) grants: admin access
// is never mediated by explicit grants.
func (s *GrantService) SetUserPermissions(ctx context.Context, userID int64, sel GrantSelector) ([]Permission, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin {
		return s.perms.GrantsForUser(ctx, userID)
	}

	ids := sel.IDs
	if sel.All {
		active, err := s.perms.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		ids = make([]int64, 0, len(active))
		for _, p := range active {
			ids = append(ids, p.ID)
		}
	}

	if err := s.perms.ReplaceGrants(ctx, userID, ids); err != nil {
		return nil, err
	}

	granted, err := s.perms.GrantsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info("permissions replaced", "user_id", userID, "granted", len(granted))
	return granted, nil
}
