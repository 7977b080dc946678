package classify

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity grades a privacy mistake.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight maps severity onto an ordinal for sorting and score penalties.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MistakeType identifies a privacy-mistake detection rule.
type MistakeType string

const (
	MistakeQuickWithdrawal MistakeType = "quick_withdrawal"
	MistakeSameAmount      MistakeType = "same_amount"
	MistakeRoundNumbers    MistakeType = "round_numbers"
	MistakeLinkedWallets   MistakeType = "linked_wallets"
	MistakeTimingCorr      MistakeType = "timing_correlation"
	MistakeDustAttack      MistakeType = "dust_attack_vulnerable"
	MistakeCEXExposure     MistakeType = "cex_exposure"
)

// PrivacyMistake is one detected deanonymization risk.
type PrivacyMistake struct {
	Type           MistakeType `json:"type"`
	Description    string      `json:"description"`
	Severity       Severity    `json:"severity"`
	Recommendation string      `json:"recommendation,omitempty"`
	Timestamp      time.Time   `json:"timestamp,omitempty"`
}

// IncomeType classifies the provenance of inbound value.
type IncomeType string

const (
	IncomeCEXWithdrawal IncomeType = "cex_withdrawal"
	IncomeDefiYield     IncomeType = "defi_yield"
	IncomeNFTSale       IncomeType = "nft_sale"
	IncomeAirdrop       IncomeType = "airdrop"
	IncomeP2PTransfer   IncomeType = "p2p_transfer"
	IncomeStakingReward IncomeType = "staking_reward"
	IncomeSwapProfit    IncomeType = "swap_profit"
	IncomeUnknown       IncomeType = "unknown"
)

// Label returns the human display name for an income type.
func (t IncomeType) Label() string {
	switch t {
	case IncomeCEXWithdrawal:
		return "CEX Withdrawals"
	case IncomeDefiYield:
		return "DeFi Yield"
	case IncomeNFTSale:
		return "NFT Sales"
	case IncomeAirdrop:
		return "Airdrops"
	case IncomeP2PTransfer:
		return "P2P Transfers"
	case IncomeStakingReward:
		return "Staking Rewards"
	case IncomeSwapProfit:
		return "Trading Profit"
	default:
		return "Unknown"
	}
}

// AttributedIncome maps one inbound transaction to its income source.
type AttributedIncome struct {
	Signature string          `json:"signature"`
	Type      IncomeType      `json:"type"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

// Output bundles every categorical signal the classifier derives.
type Output struct {
	MemecoinCount        int                 `json:"memecoin_count"`
	MemecoinValueUSD     decimal.Decimal     `json:"memecoin_value_usd"`
	MemecoinPortfolioPct float64             `json:"memecoin_portfolio_pct"` // dust excluded
	DustTokenCount       int                 `json:"dust_token_count"`
	DustMints            map[string]struct{} `json:"-"`
	CEXInteractions      int                 `json:"cex_interactions"`
	CEXNames             []string            `json:"cex_names"`
	Income               []AttributedIncome  `json:"income"`
	Mistakes             []PrivacyMistake    `json:"mistakes"`
}
