package auth

import "context"

type ctxKey string

const principalKey ctxKey = "principal"

// Principal is the validated identity attached to a request context.
type Principal struct {
	UserID       string
	Username     string
	Roles        []string
	SessionToken string
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func FromContext(ctx context.Context) Principal {
	if v, ok := ctx.Value(principalKey).(Principal); ok {
		return v
	}
	return Principal{}
}

func Subject(ctx context.Context) string {
	return FromContext(ctx).UserID
}
