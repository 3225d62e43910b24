// Package access holds the caller identity carried on a request context and
// the ownership gate that protects advert mutations.
package access

import "context"

type callerKey struct{}

// WithCaller returns a context carrying the authenticated caller's account id.
func WithCaller(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, callerKey{}, accountID)
}

// CallerFrom returns the caller's account id, if the request was authenticated.
func CallerFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
