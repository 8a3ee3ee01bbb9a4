package requestctx

import "context"

// userEmailContextKey is the context key for the resolved caller identity.
type userEmailContextKey struct{}

// WithUserEmail stores a caller email in context.
func WithUserEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userEmailContextKey{}, email)
}

// UserEmailFromContext returns the caller email stored in context.
func UserEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userEmailContextKey{}).(string)
	return value
}
