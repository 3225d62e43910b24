package contracts

import (
	"context"
	"io"
)

// ObjectStore keeps advert images by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Account is the public profile of an advert author.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AccountDirectory resolves accounts by public name or by id.
type AccountDirectory interface {
	LookupByName(ctx context.Context, name string) (accountID string, found bool, err error)
	LookupByID(ctx context.Context, accountID string) (account *Account, found bool, err error)
}
