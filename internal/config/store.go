// Package config implements the JSON-backed account/sub-account/category
// configuration store. The config file is independent of the SQL data:
// deleting a sub-account here leaves its historical asset rows untouched.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/finkeep/finkeep/pkg/types"
)

// Store holds the normalized in-memory object graph and persists every
// mutation to the JSON file immediately (no lazy or batched writes).
type Store struct {
	path     string
	log      *slog.Logger
	cats     types.CategoryDict
	accounts []*types.Account
}

// New creates a store bound to path and loads it. A missing file initializes
// empty collections and writes a fresh file (self-healing on first run).
// Referential issues found while loading are returned alongside the store;
// loading never aborts on a bad reference.
func New(path string, log *slog.Logger) (*Store, []Issue, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{path: path, log: log}
	issues, err := s.Load()
	if err != nil {
		return nil, nil, err
	}
	return s, issues, nil
}

// Load reads the config file if it exists, otherwise initializes empty
// collections and writes a fresh file.
func (s *Store) Load() ([]Issue, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.clear()
		if werr := s.Write(); werr != nil {
			return nil, fmt.Errorf("writing initial config: %w", werr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var doc types.ConfigDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return s.LoadDocument(doc), nil
}

func (s *Store) clear() {
	s.cats = types.CategoryDict{}
	s.accounts = nil
}

// LoadDocument clears existing state and repopulates it from doc. Category
// assignments that reference an unknown category, or a value outside the
// declared option set, are logged and dropped; a sub-account referencing an
// undeclared account gets that account created implicitly. The returned
// issue list describes everything that was dropped or healed.
func (s *Store) LoadDocument(doc types.ConfigDocument) []Issue {
	s.clear()
	if doc.Categories != nil {
		s.cats = doc.Categories
	}
	for _, a := range doc.Accounts {
		s.ensureAccount(a.Name)
	}

	var issues []Issue
	for _, ref := range doc.Assets {
		acc := s.Account(ref.Account)
		if acc == nil {
			issue := Issue{Kind: IssueUnknownAccount, Account: ref.Account, Subaccount: ref.Name}
			issues = append(issues, issue)
			s.log.Error("config references undeclared account", "account", ref.Account, "subaccount", ref.Name)
			acc = s.ensureAccount(ref.Account)
		}

		sub := &types.SubAccount{Name: ref.Name, Account: acc.Name, Categories: map[string]string{}}
		for cat, value := range ref.Category {
			if !s.cats.Has(cat) {
				issue := Issue{Kind: IssueUnknownCategory, Account: acc.Name, Subaccount: ref.Name,
					Category: cat, Suggestion: suggest(cat, s.CategoryNames())}
				issues = append(issues, issue)
				s.log.Error("dropping unknown category assignment", "subaccount", ref.Name,
					"category", cat, "suggestion", issue.Suggestion)
				continue
			}
			if !s.cats.ValidValue(cat, value) {
				issue := Issue{Kind: IssueUnknownValue, Account: acc.Name, Subaccount: ref.Name,
					Category: cat, Value: value, Suggestion: suggest(value, s.cats.Values(cat))}
				issues = append(issues, issue)
				s.log.Error("dropping out-of-set category value", "subaccount", ref.Name,
					"category", cat, "value", value, "suggestion", issue.Suggestion)
				continue
			}
			sub.Categories[cat] = value
		}
		acc.AddSub(sub)
	}
	return issues
}

// ToDocument serializes the current state; omitempty keeps empty sections out
// of the file, matching what Load accepts.
func (s *Store) ToDocument() types.ConfigDocument {
	doc := types.ConfigDocument{}
	if len(s.cats) > 0 {
		doc.Categories = s.cats
	}
	for _, a := range s.accounts {
		doc.Accounts = append(doc.Accounts, types.AccountEntry{Name: a.Name})
		for _, sub := range a.Subs {
			doc.Assets = append(doc.Assets, types.SubAccountRef{
				Name:     sub.Name,
				Account:  a.Name,
				Category: sub.Categories,
			})
		}
	}
	return doc
}

// Write serializes current state back to the config file with stable 4-space
// indentation. Round trip: Load(Write(x)) == x up to map ordering.
func (s *Store) Write() error {
	data, err := json.MarshalIndent(s.ToDocument(), "", "    ")
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// JSON returns the serialized config document, as written to disk.
func (s *Store) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.ToDocument(), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("serializing config: %w", err)
	}
	return append(data, '\n'), nil
}

func (s *Store) ensureAccount(name string) *types.Account {
	if a := s.Account(name); a != nil {
		return a
	}
	a := &types.Account{Name: name}
	s.accounts = append(s.accounts, a)
	return a
}

// Account returns the named account, or nil.
func (s *Store) Account(name string) *types.Account {
	for _, a := range s.accounts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Asset returns the configured sub-account, or nil.
func (s *Store) Asset(account, subaccount string) *types.SubAccount {
	a := s.Account(account)
	if a == nil {
		return nil
	}
	return a.Sub(subaccount)
}

// HasAsset reports whether the sub-account is configured.
func (s *Store) HasAsset(account, subaccount string) bool {
	return s.Asset(account, subaccount) != nil
}

// AccountNames returns account names in declaration order.
func (s *Store) AccountNames() []string {
	names := make([]string, 0, len(s.accounts))
	for _, a := range s.accounts {
		names = append(names, a.Name)
	}
	return names
}

// SubaccountNames returns the sub-account names of one account.
func (s *Store) SubaccountNames(account string) []string {
	a := s.Account(account)
	if a == nil {
		return nil
	}
	return a.SubNames()
}

// Accounts returns the account graph in declaration order.
func (s *Store) Accounts() []*types.Account {
	return s.accounts
}

// Categories returns the category dictionary.
func (s *Store) Categories() types.CategoryDict {
	return s.cats
}

// CategoryNames returns the declared category names.
func (s *Store) CategoryNames() []string {
	names := make([]string, 0, len(s.cats))
	for name := range s.cats {
		names = append(names, name)
	}
	return names
}

// AddAsset creates the account if absent, appends the sub-account with the
// given category assignments, and persists.
func (s *Store) AddAsset(account, subaccount string, cats map[string]string) error {
	acc := s.ensureAccount(account)
	sub := &types.SubAccount{Name: subaccount, Account: account, Categories: map[string]string{}}
	for k, v := range cats {
		sub.Categories[k] = v
	}
	acc.AddSub(sub)
	return s.Write()
}

// DeleteAsset removes the sub-account config entry. No-op when the account
// or sub-account is absent; persists only if a removal occurred. Historical
// asset rows are not touched.
func (s *Store) DeleteAsset(account, subaccount string) error {
	acc := s.Account(account)
	if acc == nil {
		return nil
	}
	if !acc.RemoveSub(subaccount) {
		return nil
	}
	return s.Write()
}

// ReplaceCategories swaps the category dictionary wholesale, persists, and
// strips now-invalid assignments from every sub-account (the config-level
// cascade; there is no DB constraint behind it).
func (s *Store) ReplaceCategories(dict types.CategoryDict) error {
	s.cats = dict
	s.CleanupCategories()
	return s.Write()
}

// CleanupCategories drops category assignments whose category is no longer
// declared or whose value left the option set.
func (s *Store) CleanupCategories() {
	for _, a := range s.accounts {
		for _, sub := range a.Subs {
			for cat, value := range sub.Categories {
				if !s.cats.Has(cat) || !s.cats.ValidValue(cat, value) {
					s.log.Warn("stripping stale category assignment",
						"subaccount", sub.Name, "category", cat, "value", value)
					delete(sub.Categories, cat)
				}
			}
		}
	}
}
