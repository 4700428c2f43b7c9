package domain

import "context"

// IdentityVerifier validates an opaque bearer token against the external
// identity provider and returns the subject id.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// RoleAuthorizer decides whether a tenant-scoped role holds a named
// permission.
type RoleAuthorizer interface {
	Allow(ctx context.Context, role, permission string) (bool, error)
}
