package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finkeep/finkeep/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "test.db"), nil)
}

func createAssetTable(t *testing.T, store *Store) {
	t.Helper()
	err := store.Acquire(func(s *Session) error {
		if err := s.CreateTable(AssetTable); err != nil {
			return err
		}
		return s.Commit()
	})
	require.NoError(t, err)
}

func assetRow(date string, net, inflow, profit float64) map[string]any {
	return map[string]any{
		types.ColDate:       date,
		types.ColAccount:    "Bank",
		types.ColSubaccount: "checking",
		types.ColNetWorth:   net,
		types.ColInflow:     inflow,
		types.ColProfit:     profit,
	}
}

func TestCreateTableAndList(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		tables, err := s.ListTables()
		require.NoError(t, err)
		assert.Contains(t, tables, AssetTable.Name)

		empty, err := s.IsEmpty(AssetTable)
		require.NoError(t, err)
		assert.True(t, empty)
		return nil
	})
	require.NoError(t, err)
}

func TestInsertRow_MissingColumn(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		row := assetRow("2024-05", 100, 0, 0)
		delete(row, types.ColProfit)
		return s.InsertRow(row, AssetTable)
	})
	assert.True(t, errors.Is(err, types.ErrColumnMissing))
}

func TestInsertRow_Normalization(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		// Day-level date and string amount both normalize on the way in.
		row := assetRow("2024-5-17", 0, 0, 0)
		row[types.ColNetWorth] = "1200.505"
		if err := s.InsertRow(row, AssetTable); err != nil {
			return err
		}
		return s.Commit()
	})
	require.NoError(t, err)

	err = store.Acquire(func(s *Session) error {
		rows, err := s.QueryAll(AssetTable)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2024-05", rows[0][0])
		assert.Equal(t, 1200.51, rows[0][3])
		return nil
	})
	require.NoError(t, err)
}

func TestUncommittedSessionRollsBack(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		// No Commit: the insert must be discarded on release.
		return s.InsertRow(assetRow("2024-05", 100, 0, 0), AssetTable)
	})
	require.NoError(t, err)

	err = store.Acquire(func(s *Session) error {
		empty, err := s.IsEmpty(AssetTable)
		require.NoError(t, err)
		assert.True(t, empty)
		return nil
	})
	require.NoError(t, err)
}

func TestUpsertRow_Idempotent(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	key := map[string]any{
		types.ColDate:       "2024-05",
		types.ColAccount:    "Bank",
		types.ColSubaccount: "checking",
	}
	upsert := func(net float64) {
		err := store.Acquire(func(s *Session) error {
			data := map[string]any{
				types.ColNetWorth: net,
				types.ColInflow:   10.0,
				types.ColProfit:   5.0,
			}
			if err := s.UpsertRow(key, data, AssetTable); err != nil {
				return err
			}
			return s.Commit()
		})
		require.NoError(t, err)
	}

	upsert(100)
	upsert(250)

	err := store.Acquire(func(s *Session) error {
		rows, err := s.QueryRows(key, AssetTable)
		require.NoError(t, err)
		require.Len(t, rows, 1, "upsert must never duplicate the key")
		assert.Equal(t, 250.0, rows[0][3])
		return nil
	})
	require.NoError(t, err)
}

func TestFilter_UnknownColumn(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		_, err := s.QueryRows(map[string]any{"BOGUS": 1}, AssetTable)
		return err
	})
	assert.True(t, errors.Is(err, types.ErrColumnUnknown))
}

func TestQueryPeriod(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		for _, d := range []string{"2024-01", "2024-02", "2024-03", "2024-04"} {
			if err := s.InsertRow(assetRow(d, 100, 0, 0), AssetTable); err != nil {
				return err
			}
		}
		return s.Commit()
	})
	require.NoError(t, err)

	err = store.Acquire(func(s *Session) error {
		rows, err := s.QueryPeriod(
			map[string]Period{types.ColDate: {Start: "2024-02", End: "2024-03"}},
			map[string]any{types.ColAccount: "Bank"},
			AssetTable)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		dates := []any{rows[0][0], rows[1][0]}
		assert.ElementsMatch(t, []any{"2024-02", "2024-03"}, dates)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteRows(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		if err := s.InsertRow(assetRow("2024-01", 100, 0, 0), AssetTable); err != nil {
			return err
		}
		if err := s.InsertRow(assetRow("2024-02", 200, 0, 0), AssetTable); err != nil {
			return err
		}
		return s.Commit()
	})
	require.NoError(t, err)

	err = store.Acquire(func(s *Session) error {
		if err := s.DeleteRows(map[string]any{types.ColDate: "2024-01"}, AssetTable); err != nil {
			return err
		}
		return s.Commit()
	})
	require.NoError(t, err)

	err = store.Acquire(func(s *Session) error {
		rows, err := s.QueryAll(AssetTable)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2024-02", rows[0][0])
		return nil
	})
	require.NoError(t, err)
}

func TestMaxValue(t *testing.T) {
	store := newTestStore(t)

	err := store.Acquire(func(s *Session) error {
		if err := s.CreateTable(TranTable); err != nil {
			return err
		}
		return s.Commit()
	})
	require.NoError(t, err)

	err = store.Acquire(func(s *Session) error {
		v, err := s.MaxValue(types.ColTranID, TranTable)
		require.NoError(t, err)
		assert.Nil(t, v, "empty table has no max")

		_, err = s.MaxValue("BOGUS", TranTable)
		assert.True(t, errors.Is(err, types.ErrColumnUnknown))
		return nil
	})
	require.NoError(t, err)
}

func TestTableInfo(t *testing.T) {
	store := newTestStore(t)
	createAssetTable(t, store)

	err := store.Acquire(func(s *Session) error {
		infos, err := s.TableInfo(AssetTable)
		require.NoError(t, err)
		require.Len(t, infos, len(AssetTable.Cols))
		assert.Equal(t, types.ColDate, infos[0].Name)
		assert.True(t, infos[0].NotNull)
		return nil
	})
	require.NoError(t, err)
}
