package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/walletspy/walletspy/internal/classify"
)

// RiskLevel buckets the surveillance score. Total-ordered, monotone in score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank returns the ordinal position of a risk level.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// IncomeSource is one aggregated slice of the wallet's inbound value.
type IncomeSource struct {
	Type       classify.IncomeType `json:"type"`
	Label      string              `json:"label"`
	AmountUSD  decimal.Decimal     `json:"amount_usd"`
	Count      int                 `json:"count"`
	Percentage float64             `json:"percentage"`
}

// TradeStatus describes how much of a memecoin position remains.
type TradeStatus string

const (
	TradeOpen    TradeStatus = "open"
	TradePartial TradeStatus = "partial"
	TradeSold    TradeStatus = "sold"
)

// MemecoinTrade is the P&L view of one memecoin position.
type MemecoinTrade struct {
	Mint            string          `json:"mint"`
	Symbol          string          `json:"symbol"`
	BuyValueUSD     decimal.Decimal `json:"buy_value_usd"`
	CurrentValueUSD decimal.Decimal `json:"current_value_usd"`
	PnL             decimal.Decimal `json:"pnl"`
	PnLPercentage   float64         `json:"pnl_percentage"`
	Status          TradeStatus     `json:"status"`
}

// MemecoinPnL aggregates all memecoin trades.
//
// TotalInvested is the net cost basis (buys minus sale proceeds), which keeps
// both identities exact: TotalPnL = RealizedPnL + UnrealizedPnL and
// TotalPnL = CurrentValue - TotalInvested.
type MemecoinPnL struct {
	TotalInvested    decimal.Decimal `json:"total_invested"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	TotalPnL         decimal.Decimal `json:"total_pnl"`
	RealizedPnL      decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnL    decimal.Decimal `json:"unrealized_pnl"`
	PercentageChange float64         `json:"percentage_change"`
	BiggestWin       *MemecoinTrade  `json:"biggest_win,omitempty"`
	BiggestLoss      *MemecoinTrade  `json:"biggest_loss,omitempty"`
	Trades           []MemecoinTrade `json:"trades"`
}

// Result is the scoring engine's full output.
type Result struct {
	SurveillanceScore int            `json:"surveillance_score"` // 0-100
	DegenScore        int            `json:"degen_score"`        // 0-100
	RiskLevel         RiskLevel      `json:"risk_level"`
	IncomeSources     []IncomeSource `json:"income_sources"`
	MemecoinPnL       MemecoinPnL    `json:"memecoin_pnl"`
}
