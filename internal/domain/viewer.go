package domain

import "context"

// Viewer is the identity a search request is made on behalf of.
type Viewer struct {
	UserID int64
}

// IsAuthenticated reports whether the request carried a known user.
func (v Viewer) IsAuthenticated() bool { return v.UserID > 0 }

type viewerKey struct{}

// ContextWithViewer stores the viewer in the context.
func ContextWithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFromContext returns the request viewer, or an anonymous one.
func ViewerFromContext(ctx context.Context) Viewer {
	if v, ok := ctx.Value(viewerKey{}).(Viewer); ok {
		return v
	}
	return Viewer{}
}
