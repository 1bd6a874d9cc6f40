package authz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRole      = errors.New("unknown role")
	ErrPermissionDenied = errors.New("permission denied")
)

// Role is the closed set of roles known to the versioning core.
type Role int

const (
	RoleViewer Role = iota + 1
	RoleEditor
	RoleExpert
	RoleAdministrator
)

var roleNames = map[Role]string{
	RoleViewer:        "viewer",
	RoleEditor:        "editor",
	RoleExpert:        "expert",
	RoleAdministrator: "administrator",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(name string) (Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// Action is an operation guarded by a role.
type Action string

const (
	ActionRead          Action = "read"
	ActionRecordEdit    Action = "record_edit"
	ActionCompare       Action = "compare"
	ActionRestore       Action = "restore"
	ActionTag           Action = "tag"
	ActionGlobalMetrics Action = "global_metrics"
)

var minimumRole = map[Action]Role{
	ActionRead:          RoleViewer,
	ActionCompare:       RoleViewer,
	ActionRecordEdit:    RoleEditor,
	ActionRestore:       RoleExpert,
	ActionTag:           RoleExpert,
	ActionGlobalMetrics: RoleAdministrator,
}

// Allowed is the single authorization predicate. Roles are ordered, a role
// may do everything a lower role may do.
func Allowed(role Role, action Action) bool {
	required, ok := minimumRole[action]
	if !ok {
		return false
	}

	return role >= required && role <= RoleAdministrator
}

// Actor is an already authenticated caller.
type Actor struct {
	ID   string
	Role Role
}

// Authorize returns ErrPermissionDenied when the actor may not perform action.
func (a Actor) Authorize(action Action) error {
	if a.ID == "" || !Allowed(a.Role, action) {
		return fmt.Errorf("%w: %s cannot %s", ErrPermissionDenied, a.Role, action)
	}

	return nil
}
