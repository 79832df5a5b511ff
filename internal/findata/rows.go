// Package findata bridges the schema-driven storage driver into typed,
// queryable accessors for asset snapshots and transactions. Each accessor
// keeps a full in-memory copy of its table and reloads it after every
// committed write, so reads always reflect the latest committed state.
package findata

import (
	"fmt"
	"strconv"

	"github.com/finkeep/finkeep/internal/sqlite"
	"github.com/finkeep/finkeep/pkg/types"
)

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}

// assetFromRow hydrates a raw driver row in AssetTable column order.
func assetFromRow(r sqlite.Row) types.AssetSnapshot {
	return types.AssetSnapshot{
		Date:       asString(r[0]),
		Account:    asString(r[1]),
		Subaccount: asString(r[2]),
		NetWorth:   asFloat(r[3]),
		Inflow:     asFloat(r[4]),
		Profit:     asFloat(r[5]),
	}
}

// tranFromRow hydrates a raw driver row in TranTable column order.
func tranFromRow(r sqlite.Row) types.Transaction {
	return types.Transaction{
		ID:       asInt(r[0]),
		Date:     asString(r[1]),
		Type:     asString(r[2]),
		Value:    asFloat(r[3]),
		Category: asString(r[4]),
		Note:     asString(r[5]),
	}
}
