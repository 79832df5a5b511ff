package types

// ConfigDocument mirrors the on-disk JSON configuration file:
//
//	{
//	    "Categories": {"Risk": ["Low", "Mid", "High"]},
//	    "Accounts":   [{"Name": "Bank"}],
//	    "Assets":     [{"Name": "Checking", "Account": "Bank", "Category": {"Risk": "Low"}}]
//	}
//
// The file is written with 4-space indentation and round-trips through the
// configuration store: Load(Write(x)) == x up to map ordering.
type ConfigDocument struct {
	Categories CategoryDict    `json:"Categories,omitempty"`
	Accounts   []AccountEntry  `json:"Accounts,omitempty"`
	Assets     []SubAccountRef `json:"Assets,omitempty"`
}

// AccountEntry is an account declaration in the config document.
type AccountEntry struct {
	Name string `json:"Name"`
}

// SubAccountRef is a sub-account declaration in the config document.
type SubAccountRef struct {
	Name     string            `json:"Name"`
	Account  string            `json:"Account"`
	Category map[string]string `json:"Category,omitempty"`
}
