package fincontext

import (
	"math"
	"math/rand"

	"github.com/finkeep/finkeep/internal/dates"
	"github.com/finkeep/finkeep/internal/money"
	"github.com/finkeep/finkeep/pkg/types"
)

const sampleStartDate = "2020-03"

// sampleEndFloor keeps the generated series long enough to be interesting
// even when the system clock is set before it.
const sampleEndFloor = "2024-02"

// sampleConfig is the account layout seeded when no accounts are configured.
func sampleConfig() types.ConfigDocument {
	return types.ConfigDocument{
		Categories: types.CategoryDict{
			"Risk":     {"Low", "Mid", "High"},
			"Currency": {"USD", "EUR"},
		},
		Accounts: []types.AccountEntry{
			{Name: "Bank"},
			{Name: "Broker"},
		},
		Assets: []types.SubAccountRef{
			{Name: "checking", Account: "Bank", Category: map[string]string{"Risk": "Low", "Currency": "USD"}},
			{Name: "savings", Account: "Bank", Category: map[string]string{"Risk": "Low", "Currency": "USD"}},
			{Name: "stocks", Account: "Broker", Category: map[string]string{"Risk": "High", "Currency": "USD"}},
			{Name: "bonds", Account: "Broker", Category: map[string]string{"Risk": "Mid", "Currency": "EUR"}},
		},
	}
}

// SeedSampleData resets both tables and fills them with a deterministic
// synthetic series per configured sub-account, covering 2020-03 through the
// current month. If no accounts are configured, a built-in sample layout is
// installed first. Each sub-account's walk is seeded by its position in the
// account ordering, so repeated runs produce identical data.
func (c *Context) SeedSampleData() error {
	if len(c.cfg.Accounts()) == 0 {
		issues := c.cfg.LoadDocument(sampleConfig())
		for _, issue := range issues {
			c.log.Warn("sample config issue", "issue", issue.String())
		}
		if err := c.cfg.Write(); err != nil {
			return err
		}
	}

	if err := c.assets.Reset(); err != nil {
		return err
	}
	if err := c.trans.Reset(); err != nil {
		return err
	}

	end := dates.Max(dates.Current(), sampleEndFloor)
	months, err := dates.Range(sampleStartDate, end)
	if err != nil {
		return err
	}

	var snaps []types.AssetSnapshot
	seed := int64(0)
	for _, acc := range c.cfg.Accounts() {
		for _, sub := range acc.Subs {
			snaps = append(snaps, sampleSeries(months, acc.Name, sub.Name, seed)...)
			seed++
		}
	}
	if err := c.assets.BatchUpsert(snaps); err != nil {
		return err
	}
	c.log.Info("seeded sample data",
		"subaccounts", seed, "months", len(months), "rows", len(snaps))
	return nil
}

// sampleSeries produces one sub-account's monthly walk. The initial value is
// drawn on a log scale so small and large holdings are equally likely; each
// later month adds a random inflow from a per-account band and a profit
// proportional to the prior balance, bounded by a per-account volatility
// ceiling.
func sampleSeries(months []string, account, subaccount string, seed int64) []types.AssetSnapshot {
	rng := rand.New(rand.NewSource(seed))

	initValue := math.Exp(uniform(rng, math.Log(5000), math.Log(100000)))
	investLow := uniform(rng, 200, 3000)
	investHigh := uniform(rng, investLow, investLow*5)
	profitLimit := uniform(rng, 0.2, 0.8)

	out := make([]types.AssetSnapshot, 0, len(months))
	worth := money.Round(initValue)
	out = append(out, types.AssetSnapshot{
		Date:       months[0],
		Account:    account,
		Subaccount: subaccount,
		NetWorth:   worth,
	})
	for _, m := range months[1:] {
		invest := money.Round(uniform(rng, investLow, investHigh))
		profit := money.Round(worth * uniform(rng, -profitLimit, profitLimit))
		worth = money.Sum(worth, invest, profit)
		out = append(out, types.AssetSnapshot{
			Date:       m,
			Account:    account,
			Subaccount: subaccount,
			NetWorth:   worth,
			Inflow:     invest,
			Profit:     profit,
		})
	}
	return out
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}
