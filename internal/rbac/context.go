package rbac

import "context"

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}

// Can checks the role carried by ctx against DefaultPolicy.
func Can(ctx context.Context, perm string) bool {
	return DefaultPolicy.Allows(RoleFromContext(ctx), perm)
}
