package types

// Asset table name and column names. The table keeps one row per
// account/sub-account/month; the (DATE, ACCOUNT, SUBACCOUNT) triple is the
// natural key, enforced by upsert rather than a constraint.
const (
	AssetTableName = "SUBACCOUNT"

	ColDate       = "DATE"
	ColAccount    = "ACCOUNT"
	ColSubaccount = "SUBACCOUNT"
	ColNetWorth   = "NET_WORTH"
	ColInflow     = "INFLOW"
	ColProfit     = "PROFIT"
)

// AssetSnapshot is one month-end valuation of a sub-account.
//
// NetWorth ≈ previous NetWorth + Inflow + Profit is a recording convention,
// not something the system enforces.
type AssetSnapshot struct {
	Date       string  // normalized "YYYY-MM"
	Account    string  // grouping label
	Subaccount string  // unique together with Account
	NetWorth   float64 // value at month end
	Inflow     float64 // net contribution (negative = withdrawal)
	Profit     float64 // market gain/loss during the month
}

// Key returns the composite natural key of the snapshot.
func (a AssetSnapshot) Key() (date, account, subaccount string) {
	return a.Date, a.Account, a.Subaccount
}
