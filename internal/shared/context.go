package shared

import "context"

type principalContextKey struct{}

type deviceContextKey struct{}

// ContextWithPrincipal stores the authenticated principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context, nil when anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// ContextWithDeviceID stores the device identifier in context.
func ContextWithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceContextKey{}, id)
}

// DeviceIDFromContext extracts the device identifier from context.
func DeviceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(deviceContextKey{}).(string)
	return id
}
