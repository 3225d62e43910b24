// Package accounts resolves owner names to account ids.
package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
)

// StaticDirectory is a fixed account table, used in memory mode and tests.
type StaticDirectory struct {
	ids      map[string]string
	accounts map[string]contracts.Account
}

// NewStaticDirectory creates a directory from a name → id map.
func NewStaticDirectory(ids map[string]string) *StaticDirectory {
	d := &StaticDirectory{ids: make(map[string]string, len(ids)), accounts: make(map[string]contracts.Account, len(ids))}
	for name, id := range ids {
		d.add(contracts.Account{ID: id, Name: name})
	}
	return d
}

// ParseStaticDirectory parses "name:id,name:id:email". Blank entries are skipped.
func ParseStaticDirectory(raw string) (*StaticDirectory, error) {
	d := &StaticDirectory{ids: make(map[string]string), accounts: make(map[string]contracts.Account)}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid account entry %q, want name:id[:email]", entry)
		}
		account := contracts.Account{Name: parts[0], ID: parts[1]}
		if len(parts) == 3 {
			account.Email = parts[2]
		}
		d.add(account)
	}
	return d, nil
}

func (d *StaticDirectory) add(account contracts.Account) {
	d.ids[account.Name] = account.ID
	d.accounts[account.ID] = account
}

// LookupByName returns the id registered for name.
func (d *StaticDirectory) LookupByName(ctx context.Context, name string) (string, bool, error) {
	id, ok := d.ids[name]
	return id, ok, nil
}

// LookupByID returns a copy of the account registered under id.
func (d *StaticDirectory) LookupByID(ctx context.Context, accountID string) (*contracts.Account, bool, error) {
	account, ok := d.accounts[accountID]
	if !ok {
		return nil, false, nil
	}
	return &account, true, nil
}
