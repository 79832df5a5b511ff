package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finkeep/finkeep/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, issues, err := New(filepath.Join(t.TempDir(), "config.json"), nil)
	require.NoError(t, err)
	require.Empty(t, issues)
	return s
}

func TestNew_MissingFileSelfHeals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s, issues, err := New(path, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Empty(t, s.Accounts())

	// A fresh file must have been written.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.ReplaceCategories(types.CategoryDict{
		"Risk": {"Low", "Mid", "High"},
	}))
	require.NoError(t, s.AddAsset("Bank", "checking", map[string]string{"Risk": "Low"}))
	require.NoError(t, s.AddAsset("Broker", "stocks", map[string]string{"Risk": "High"}))

	reloaded, issues, err := New(s.path, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, []string{"Bank", "Broker"}, reloaded.AccountNames())
	assert.Equal(t, []string{"checking"}, reloaded.SubaccountNames("Bank"))
	sub := reloaded.Asset("Broker", "stocks")
	require.NotNil(t, sub)
	assert.Equal(t, "High", sub.Categories["Risk"])
}

func TestWrite_FileFormat(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddAsset("Bank", "checking", nil))

	data, err := os.ReadFile(s.path)
	require.NoError(t, err)

	var doc types.ConfigDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Assets, 1)
	assert.Equal(t, "checking", doc.Assets[0].Name)
	assert.Equal(t, "Bank", doc.Assets[0].Account)
	// 4-space indentation and trailing newline, stable across rewrites.
	assert.Contains(t, string(data), "\n    \"Accounts\"")
	assert.True(t, data[len(data)-1] == '\n')
}

func TestAddAsset_CreatesAccountImplicitly(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddAsset("NewBank", "savings", nil))
	require.NotNil(t, s.Account("NewBank"))
	assert.True(t, s.HasAsset("NewBank", "savings"))
}

func TestAddAsset_SameNameReplaces(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ReplaceCategories(types.CategoryDict{"Risk": {"Low", "High"}}))

	require.NoError(t, s.AddAsset("Bank", "checking", map[string]string{"Risk": "Low"}))
	require.NoError(t, s.AddAsset("Bank", "checking", map[string]string{"Risk": "High"}))

	require.Len(t, s.SubaccountNames("Bank"), 1)
	assert.Equal(t, "High", s.Asset("Bank", "checking").Categories["Risk"])
}

func TestDeleteAsset_NoOpWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddAsset("Bank", "checking", nil))

	require.NoError(t, s.DeleteAsset("Bank", "nope"))
	require.NoError(t, s.DeleteAsset("NoSuchAccount", "checking"))
	assert.True(t, s.HasAsset("Bank", "checking"))

	require.NoError(t, s.DeleteAsset("Bank", "checking"))
	assert.False(t, s.HasAsset("Bank", "checking"))
}

func TestReplaceCategories_CascadeStripsAssignments(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ReplaceCategories(types.CategoryDict{
		"Risk":     {"Low", "High"},
		"Currency": {"USD"},
	}))
	require.NoError(t, s.AddAsset("Bank", "checking", map[string]string{
		"Risk":     "Low",
		"Currency": "USD",
	}))

	// Drop Currency entirely and narrow Risk's option set.
	require.NoError(t, s.ReplaceCategories(types.CategoryDict{
		"Risk": {"High"},
	}))

	sub := s.Asset("Bank", "checking")
	require.NotNil(t, sub)
	assert.NotContains(t, sub.Categories, "Currency")
	assert.NotContains(t, sub.Categories, "Risk")

	// The cascade must be persisted, not just in-memory.
	reloaded, issues, err := New(s.path, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Empty(t, reloaded.Asset("Bank", "checking").Categories)
}

func TestLoadDocument_BadReferences(t *testing.T) {
	s := newTestStore(t)

	issues := s.LoadDocument(types.ConfigDocument{
		Categories: types.CategoryDict{"Risk": {"Low", "High"}},
		Accounts:   []types.AccountEntry{{Name: "Bank"}},
		Assets: []types.SubAccountRef{
			{Name: "stocks", Account: "Brokr"},
			{Name: "checking", Account: "Bank", Category: map[string]string{"Risc": "Low"}},
			{Name: "savings", Account: "Bank", Category: map[string]string{"Risk": "Loww"}},
		},
	})
	require.Len(t, issues, 3)

	byKind := map[string]Issue{}
	for _, i := range issues {
		byKind[i.Kind] = i
	}

	// Undeclared account: healed by creating it.
	assert.Equal(t, "Brokr", byKind[IssueUnknownAccount].Account)
	require.NotNil(t, s.Account("Brokr"))
	assert.True(t, s.HasAsset("Brokr", "stocks"))

	// Unknown category: assignment dropped, typo suggestion attached.
	assert.Equal(t, "Risk", byKind[IssueUnknownCategory].Suggestion)
	assert.Empty(t, s.Asset("Bank", "checking").Categories)

	// Out-of-set value: assignment dropped.
	assert.Equal(t, "Low", byKind[IssueUnknownValue].Suggestion)
	assert.Empty(t, s.Asset("Bank", "savings").Categories)
}

func TestIssueString(t *testing.T) {
	i := Issue{Kind: IssueUnknownCategory, Subaccount: "checking", Category: "Risc", Suggestion: "Risk"}
	assert.Contains(t, i.String(), `unknown category "Risc"`)
	assert.Contains(t, i.String(), `did you mean "Risk"?`)
}
