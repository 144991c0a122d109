package dashboard

import (
	"math"

	"github.com/samber/lo"
)

const (
	earningsShare  = 0.2
	earningsCap    = 1500
	spendShare     = 0.1
	spendCap       = 500
	collectedShare = 0.7
	defaultROI     = 1.2
	defaultAdSpend = 100
	minCPA         = 2
	roasMultiplier = 1.2
)

type AdminKPIs struct {
	EarningsToday float64 `json:"earnings_today"`
	SpendToday    float64 `json:"spend_today"`
	WalletBalance float64 `json:"wallet_balance"`
}

type ClientKPIs struct {
	ClientID  int64   `json:"client_id"`
	Name      string  `json:"name"`
	Available float64 `json:"available"`
	Collected float64 `json:"collected"`
	OnHold    float64 `json:"on_hold"`
	AdBalance float64 `json:"ad_balance"`
	Sales     int     `json:"sales"`
	ROI       float64 `json:"roi"`
	CPA       float64 `json:"cpa"`
	ROAS      float64 `json:"roas"`
}

// ComputeAdminKPIs caps each client's contribution so a single large balance
// cannot dominate today's earnings.
func ComputeAdminKPIs(s State) AdminKPIs {
	earnings := lo.SumBy(s.Clients, func(c Client) float64 {
		return math.Min(earningsCap, math.Floor(c.Balance*earningsShare))
	})
	spend := lo.SumBy(s.Budgets, func(b Budget) float64 {
		return math.Min(spendCap, math.Floor(b.Spent*spendShare))
	})
	wallet := lo.SumBy(s.Clients, func(c Client) float64 {
		return c.Balance
	})

	return AdminKPIs{
		EarningsToday: earnings,
		SpendToday:    spend,
		WalletBalance: wallet,
	}
}

// ComputeClientKPIs returns zero values when the client is not cached.
func ComputeClientKPIs(s State, clientID int64) ClientKPIs {
	c, ok := lo.Find(s.Clients, func(c Client) bool { return c.ID == clientID })
	if !ok {
		return ClientKPIs{ClientID: clientID, Name: "N/A"}
	}

	available := c.Balance
	collected := math.Floor(c.Balance * collectedShare)
	adBalance := s.AdBalances[clientID]
	sales := lo.CountBy(s.Sales, func(v Sale) bool { return v.ClientID == clientID })

	roi := c.ROI
	if roi == 0 {
		roi = defaultROI
	}

	spend := adBalance
	if spend == 0 {
		spend = defaultAdSpend
	}
	cpa := math.Max(minCPA, math.Round(spend/math.Max(1, float64(sales))))
	roas := math.Round(roi*roasMultiplier*100) / 100

	return ClientKPIs{
		ClientID:  clientID,
		Name:      c.DisplayName(),
		Available: available,
		Collected: collected,
		OnHold:    math.Max(0, available-collected),
		AdBalance: adBalance,
		Sales:     sales,
		ROI:       roi,
		CPA:       cpa,
		ROAS:      roas,
	}
}
