package types

// CategoryDict maps a category name to its ordered list of valid values.
type CategoryDict map[string][]string

// Values returns the declared option set for a category, or nil.
func (d CategoryDict) Values(cat string) []string {
	return d[cat]
}

// Has reports whether the category is declared.
func (d CategoryDict) Has(cat string) bool {
	_, ok := d[cat]
	return ok
}

// ValidValue reports whether value belongs to the declared option set for cat.
// An empty value is always valid (category unset).
func (d CategoryDict) ValidValue(cat, value string) bool {
	if value == "" {
		return true
	}
	for _, v := range d[cat] {
		if v == value {
			return true
		}
	}
	return false
}

// SubAccount is a configured sub-ledger: the unit asset rows are keyed on.
// Categories maps category name to the assigned value; assignments must stay
// within the CategoryDict option set or they are dropped on load.
type SubAccount struct {
	Name       string
	Account    string // owning account name (non-owning back-reference)
	Categories map[string]string
}

// Account is an ordered collection of sub-accounts. Deleting a sub-account
// here does not touch its historical asset rows; that is a separate, explicit
// delete against the asset table.
type Account struct {
	Name string
	Subs []*SubAccount
}

// Sub returns the named sub-account, or nil.
func (a *Account) Sub(name string) *SubAccount {
	for _, s := range a.Subs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SubNames returns the sub-account names in declaration order.
func (a *Account) SubNames() []string {
	names := make([]string, 0, len(a.Subs))
	for _, s := range a.Subs {
		names = append(names, s.Name)
	}
	return names
}

// AddSub appends a sub-account, replacing an existing one with the same name.
func (a *Account) AddSub(sub *SubAccount) {
	for i, s := range a.Subs {
		if s.Name == sub.Name {
			a.Subs[i] = sub
			return
		}
	}
	a.Subs = append(a.Subs, sub)
}

// RemoveSub deletes the named sub-account. Reports whether a removal occurred.
func (a *Account) RemoveSub(name string) bool {
	for i, s := range a.Subs {
		if s.Name == name {
			a.Subs = append(a.Subs[:i], a.Subs[i+1:]...)
			return true
		}
	}
	return false
}
