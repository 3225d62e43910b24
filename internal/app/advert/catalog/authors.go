package catalog

import (
	"context"
	"fmt"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
)

// ResolveAuthors looks up every distinct owner of adverts once. Owners the
// directory does not know are left out of the result.
func ResolveAuthors(ctx context.Context, directory contracts.AccountDirectory, adverts ...*domain.Advert) (map[string]*contracts.Account, error) {
	authors := make(map[string]*contracts.Account, len(adverts))
	if directory == nil {
		return authors, nil
	}

	seen := make(map[string]struct{}, len(adverts))
	for _, a := range adverts {
		ownerID := a.OwnerID()
		if _, ok := seen[ownerID]; ok {
			continue
		}
		seen[ownerID] = struct{}{}

		account, found, err := directory.LookupByID(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve author %s: %w", ownerID, err)
		}
		if found {
			authors[ownerID] = account
		}
	}
	return authors, nil
}
