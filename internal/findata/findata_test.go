package findata

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finkeep/finkeep/internal/sqlite"
	"github.com/finkeep/finkeep/pkg/types"
)

func newTestData(t *testing.T) (*AssetData, *TranData) {
	t.Helper()
	store := sqlite.New(filepath.Join(t.TempDir(), "test.db"), nil)
	err := store.Acquire(func(s *sqlite.Session) error {
		if err := s.CreateTable(sqlite.AssetTable); err != nil {
			return err
		}
		if err := s.CreateTable(sqlite.TranTable); err != nil {
			return err
		}
		return s.Commit()
	})
	require.NoError(t, err)

	assets := NewAssetData(store, nil)
	trans := NewTranData(store, nil)

	ok, err := assets.Validate()
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = trans.Validate()
	require.NoError(t, err)
	require.True(t, ok)
	return assets, trans
}

func snap(date string, net, inflow, profit float64) types.AssetSnapshot {
	return types.AssetSnapshot{
		Date: date, Account: "Bank", Subaccount: "checking",
		NetWorth: net, Inflow: inflow, Profit: profit,
	}
}

func TestAssetValidate_MissingTable(t *testing.T) {
	store := sqlite.New(filepath.Join(t.TempDir(), "empty.db"), nil)
	assets := NewAssetData(store, nil)

	ok, err := assets.Validate()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssetUpsert_SameMonthReplaces(t *testing.T) {
	assets, _ := newTestData(t)

	require.NoError(t, assets.Upsert(snap("2024-05", 100, 10, 5)))
	require.NoError(t, assets.Upsert(snap("2024-05", 250, 20, 15)))

	rows := assets.Query("2024-05", "Bank", "checking")
	require.Len(t, rows, 1)
	assert.Equal(t, 250.0, rows[0].NetWorth)
	assert.Equal(t, 20.0, rows[0].Inflow)
}

func TestAssetQuery_Filters(t *testing.T) {
	assets, _ := newTestData(t)

	require.NoError(t, assets.BatchUpsert([]types.AssetSnapshot{
		snap("2024-01", 100, 0, 0),
		snap("2024-02", 200, 0, 0),
		{Date: "2024-01", Account: "Broker", Subaccount: "stocks", NetWorth: 500},
	}))

	assert.Len(t, assets.Query("", "", ""), 3)
	assert.Len(t, assets.Query("2024-01", "", ""), 2)
	assert.Len(t, assets.Query("", "Bank", ""), 2)
	assert.Len(t, assets.Query("2024-01", "Broker", "stocks"), 1)
	// Non-canonical date input is normalized before matching.
	assert.Len(t, assets.Query("2024-1-15", "Bank", "checking"), 1)
}

func TestAssetQueryLastBefore(t *testing.T) {
	assets, _ := newTestData(t)

	require.NoError(t, assets.BatchUpsert([]types.AssetSnapshot{
		snap("2024-01", 100, 10, 0),
		snap("2024-03", 300, 30, 0),
	}))

	last, ok := assets.QueryLastBefore("2024-05", "Bank", "checking")
	require.True(t, ok)
	assert.Equal(t, "2024-03", last.Date)
	assert.Equal(t, 300.0, last.NetWorth)

	last, ok = assets.QueryLastBefore("2024-02", "Bank", "checking")
	require.True(t, ok)
	assert.Equal(t, "2024-01", last.Date)

	// Strictly before: a row on the query month itself does not count.
	_, ok = assets.QueryLastBefore("2024-01", "Bank", "checking")
	assert.False(t, ok)
}

func TestAssetDateRange(t *testing.T) {
	assets, _ := newTestData(t)

	_, _, ok := assets.DateRange()
	assert.False(t, ok)

	require.NoError(t, assets.BatchUpsert([]types.AssetSnapshot{
		snap("2024-03", 1, 0, 0),
		snap("2023-11", 1, 0, 0),
		snap("2024-01", 1, 0, 0),
	}))
	earliest, latest, ok := assets.DateRange()
	require.True(t, ok)
	assert.Equal(t, "2023-11", earliest)
	assert.Equal(t, "2024-03", latest)
}

func TestAssetDeleteSubaccount(t *testing.T) {
	assets, _ := newTestData(t)

	require.NoError(t, assets.BatchUpsert([]types.AssetSnapshot{
		snap("2024-01", 100, 0, 0),
		snap("2024-02", 200, 0, 0),
		{Date: "2024-01", Account: "Broker", Subaccount: "stocks", NetWorth: 500},
	}))
	require.NoError(t, assets.DeleteSubaccount("Bank", "checking"))

	assert.Empty(t, assets.Query("", "Bank", "checking"))
	assert.Len(t, assets.Query("", "Broker", "stocks"), 1)
}

func TestTranUniqueID(t *testing.T) {
	_, trans := newTestData(t)

	// First transaction of a month gets sequence 0.
	id, err := trans.UniqueID("2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(2024050000), id)

	_, err = trans.Insert("2024-05", types.TranIncome, 100, "salary", "")
	require.NoError(t, err)

	id, err = trans.UniqueID("2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(2024050001), id)

	// A different month starts its own sequence.
	id, err = trans.UniqueID("2024-06")
	require.NoError(t, err)
	assert.Equal(t, int64(2024060000), id)
}

func TestTranInsert_InvalidType(t *testing.T) {
	_, trans := newTestData(t)

	_, err := trans.Insert("2024-05", "TRANSFER", 100, "", "")
	assert.True(t, errors.Is(err, types.ErrInvalidTranType))
}

func TestTranInsertQueryDelete(t *testing.T) {
	_, trans := newTestData(t)

	id1, err := trans.Insert("2024-05", types.TranIncome, 4200, "salary", "may pay")
	require.NoError(t, err)
	id2, err := trans.Insert("2024-05", types.TranOutlay, 300, "rent", "")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	income := trans.Query("2024-05", types.TranIncome, "")
	require.Len(t, income, 1)
	assert.Equal(t, 4200.0, income[0].Value)
	assert.Equal(t, "may pay", income[0].Note)

	tr, ok := trans.QueryByID(id2)
	require.True(t, ok)
	assert.Equal(t, "rent", tr.Category)

	require.NoError(t, trans.DeleteByID(id1))
	_, ok = trans.QueryByID(id1)
	assert.False(t, ok)
	assert.Len(t, trans.Rows(), 1)
}

func TestTranImportRows_AssignsFreshIDs(t *testing.T) {
	_, trans := newTestData(t)

	_, err := trans.Insert("2024-01", types.TranIncome, 1, "", "old")
	require.NoError(t, err)

	err = trans.ImportRows([]types.Transaction{
		{ID: 999, Date: "2024-05", Type: types.TranIncome, Value: 10, Category: "a"},
		{ID: 999, Date: "2024-05", Type: types.TranOutlay, Value: 20, Category: "b"},
		{ID: 5, Date: "2024-06", Type: types.TranIncome, Value: 30, Category: "c"},
	})
	require.NoError(t, err)

	rows := trans.Rows()
	require.Len(t, rows, 3, "import replaces prior contents")

	ids := map[int64]bool{}
	for _, r := range rows {
		ids[r.ID] = true
	}
	assert.True(t, ids[2024050000])
	assert.True(t, ids[2024050001])
	assert.True(t, ids[2024060000])
}

func TestTranReindex(t *testing.T) {
	_, trans := newTestData(t)

	// Duplicate IDs in the same month, as a bad bulk import would leave them.
	err := trans.ImportRows([]types.Transaction{
		{Date: "2024-05", Type: types.TranIncome, Value: 10},
		{Date: "2024-05", Type: types.TranIncome, Value: 20},
		{Date: "2024-05", Type: types.TranIncome, Value: 30},
	})
	require.NoError(t, err)
	require.NoError(t, trans.Reindex())

	rows := trans.Rows()
	require.Len(t, rows, 3)
	ids := map[int64]bool{}
	for _, r := range rows {
		ids[r.ID] = true
	}
	assert.Len(t, ids, 3, "reindex must leave all IDs distinct")
}
