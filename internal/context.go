package internal

import "context"

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// PermissionClaim is one entry of the permissions claim embedded in access
// tokens: a named capability plus the resource/action pair it covers.
type PermissionClaim struct {
	Name     string `json:"name"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Principal is the authenticated caller as decoded from a validated access
// token. Permission checks run against this snapshot, not the database, so
// role changes apply on the next login or refresh.
type Principal struct {
	UserID       int64
	Username     string
	DepartmentID *int64
	Roles        []string
	Permissions  []PermissionClaim
}

func (p *Principal) HasPermission(name string) bool {
	for _, perm := range p.Permissions {
		if perm.Name == name {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether any of the given permission names is
// present; gating is OR across the required set.
func (p *Principal) HasAnyPermission(names []string) bool {
	for _, name := range names {
		if p.HasPermission(name) {
			return true
		}
	}
	return false
}

func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok
}
