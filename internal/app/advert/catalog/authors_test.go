package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/advert-catalog/internal/adapter/accounts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
)

type countingDirectory struct {
	*accounts.StaticDirectory
	lookups int
	err     error
}

func (d *countingDirectory) LookupByID(ctx context.Context, accountID string) (*contracts.Account, bool, error) {
	d.lookups++
	if d.err != nil {
		return nil, false, d.err
	}
	return d.StaticDirectory.LookupByID(ctx, accountID)
}

func TestReader_ResolvesEachAuthorOnce(t *testing.T) {
	store := seedStore(t,
		seed{title: "one", price: "1", owner: "u1"},
		seed{title: "two", price: "1", owner: "u1"},
		seed{title: "three", price: "1", owner: "u2"},
		seed{title: "four", price: "1", owner: "ghost"},
	)
	directory := &countingDirectory{StaticDirectory: accounts.NewStaticDirectory(map[string]string{"alice": "u1", "bob": "u2"})}
	reader := NewReader(store, directory, maxPageSize)

	page, err := reader.Read(context.Background(), BuildQuery(Filter{}, PublicScope()), PageRequest{}, 12)

	require.NoError(t, err)
	assert.Equal(t, 3, directory.lookups)
	require.Len(t, page.Authors, 2)
	assert.Equal(t, "alice", page.Authors["u1"].Name)
	assert.Equal(t, "bob", page.Authors["u2"].Name)
	assert.NotContains(t, page.Authors, "ghost")
}

func TestReader_AuthorLookupFailure(t *testing.T) {
	store := seedStore(t, seed{title: "one", price: "1"})
	directory := &countingDirectory{StaticDirectory: accounts.NewStaticDirectory(nil), err: errors.New("mongo down")}
	reader := NewReader(store, directory, maxPageSize)

	_, err := reader.Read(context.Background(), BuildQuery(Filter{}, PublicScope()), PageRequest{}, 12)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve author")
}

func TestResolveAuthors_NilDirectory(t *testing.T) {
	authors, err := ResolveAuthors(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, authors)
	assert.Empty(t, authors)
}
