package auth

import (
	"context"
	"errors"
	"strconv"
)

var _ Checker = (*ClientChecker)(nil)

const (
	ClientTokenHeader = "X-Client-Token"
	OwnerIDHeader     = "X-Owner-ID"
)

var ErrMissingOwner = errors.New("missing or invalid owner id")

type Checker interface {
	IsAuthorized(ctx context.Context, token string) (bool, error)
}

type ownerIDKey struct{}

func ContextWithOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerIDKey{}, ownerID)
}

// OwnerIDFromContext returns the owner set by the auth middleware.
func OwnerIDFromContext(ctx context.Context) (int64, error) {
	ownerID, ok := ctx.Value(ownerIDKey{}).(int64)
	if !ok || ownerID <= 0 {
		return 0, ErrMissingOwner
	}
	return ownerID, nil
}

func ParseOwnerID(raw string) (int64, error) {
	ownerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ownerID <= 0 {
		return 0, ErrMissingOwner
	}
	return ownerID, nil
}
