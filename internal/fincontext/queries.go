package fincontext

import (
	"sort"

	"github.com/finkeep/finkeep/internal/dates"
	"github.com/finkeep/finkeep/internal/money"
	"github.com/finkeep/finkeep/pkg/types"
)

// QueryDate returns the snapshot of every configured sub-account on date.
// With usePrevIfMissing, a sub-account without a row on date contributes its
// most recent prior row carried forward with Inflow and Profit zeroed: a
// carried-forward valuation adds no new flow. Sub-accounts with no data at
// all are skipped.
func (c *Context) QueryDate(date string, usePrevIfMissing bool) ([]types.AssetSnapshot, error) {
	date, err := dates.Norm(date)
	if err != nil {
		return nil, err
	}
	if !usePrevIfMissing {
		return c.assets.Query(date, "", ""), nil
	}

	var out []types.AssetSnapshot
	for _, acc := range c.cfg.Accounts() {
		for _, sub := range acc.Subs {
			rows := c.assets.Query(date, acc.Name, sub.Name)
			if len(rows) > 0 {
				out = append(out, rows...)
				continue
			}
			last, ok := c.assets.QueryLastBefore(date, acc.Name, sub.Name)
			if !ok {
				continue
			}
			last.Inflow = 0
			last.Profit = 0
			out = append(out, last)
		}
	}
	return out, nil
}

// TotalWorth sums net worth across all configured sub-accounts on date,
// carrying forward missing months.
func (c *Context) TotalWorth(date string) (float64, error) {
	rows, err := c.QueryDate(date, true)
	if err != nil {
		return 0, err
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.NetWorth
	}
	return money.Sum(values...), nil
}

// TotalProfit sums profit on date. Carried-forward rows contribute zero, so
// the total only reflects months with actual entries.
func (c *Context) TotalProfit(date string) (float64, error) {
	return c.sumFlow(date, func(r types.AssetSnapshot) float64 { return r.Profit })
}

// TotalInflow sums inflow on date, carried-forward rows contributing zero.
func (c *Context) TotalInflow(date string) (float64, error) {
	return c.sumFlow(date, func(r types.AssetSnapshot) float64 { return r.Inflow })
}

func (c *Context) sumFlow(date string, pick func(types.AssetSnapshot) float64) (float64, error) {
	rows, err := c.QueryDate(date, true)
	if err != nil {
		return 0, err
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = pick(r)
	}
	return money.Sum(values...), nil
}

// QueryPeriodData returns asset rows in [start, end]. With fillMissing, each
// configured sub-account is reindexed onto the full contiguous month range
// between the global earliest and latest known dates: net worth is carried
// forward (zero before the first record), inflow and profit are zero on
// months with no recorded activity. The filled series is then trimmed to
// [start, end].
func (c *Context) QueryPeriodData(start, end string, fillMissing bool) ([]types.AssetSnapshot, error) {
	start, err := dates.Norm(start)
	if err != nil {
		return nil, err
	}
	end, err = dates.Norm(end)
	if err != nil {
		return nil, err
	}
	if !fillMissing {
		return c.assets.QueryPeriod(start, end)
	}

	earliest, latest, ok := c.assets.DateRange()
	if !ok {
		return nil, nil
	}
	months, err := dates.Range(earliest, latest)
	if err != nil {
		return nil, err
	}

	var out []types.AssetSnapshot
	for _, acc := range c.cfg.Accounts() {
		for _, sub := range acc.Subs {
			recorded := make(map[string]types.AssetSnapshot)
			for _, r := range c.assets.Query("", acc.Name, sub.Name) {
				recorded[r.Date] = r
			}

			carried := 0.0
			for _, m := range months {
				row, ok := recorded[m]
				if !ok {
					row = types.AssetSnapshot{
						Date:       m,
						Account:    acc.Name,
						Subaccount: sub.Name,
						NetWorth:   carried,
					}
				}
				carried = row.NetWorth
				if m >= start && m <= end {
					out = append(out, row)
				}
			}
		}
	}
	return out, nil
}

// IncomeOutlayRow is one month of the tracked-vs-untracked flow derivation:
// OUTLAY = INCOME − INFLOW. Months with asset inflow but no recorded income
// treat income as zero.
type IncomeOutlayRow struct {
	Date   string
	Inflow float64
	Income float64
	Outlay float64
}

// IncomeOutlay joins aggregated monthly inflow (asset data) with aggregated
// monthly income (transactions), one row per month that has asset data.
func (c *Context) IncomeOutlay() []IncomeOutlayRow {
	inflowByDate := make(map[string][]float64)
	for _, r := range c.assets.Rows() {
		inflowByDate[r.Date] = append(inflowByDate[r.Date], r.Inflow)
	}
	incomeByDate := make(map[string][]float64)
	for _, t := range c.trans.Query("", types.TranIncome, "") {
		incomeByDate[t.Date] = append(incomeByDate[t.Date], t.Value)
	}

	months := make([]string, 0, len(inflowByDate))
	for m := range inflowByDate {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]IncomeOutlayRow, 0, len(months))
	for _, m := range months {
		inflow := money.Sum(inflowByDate[m]...)
		income := money.Sum(incomeByDate[m]...)
		out = append(out, IncomeOutlayRow{
			Date:   m,
			Inflow: inflow,
			Income: income,
			Outlay: money.Sum(income, -inflow),
		})
	}
	return out
}
