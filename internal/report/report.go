package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/walletspy/walletspy/internal/classify"
	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/linkage"
	"github.com/walletspy/walletspy/internal/persona"
	"github.com/walletspy/walletspy/internal/scoring"
)

// ---------------------------------------------------------------------------
// Report Assembler — pure aggregation into the immutable WalletAnalysis.
// Every field is filled; a partial report is a contract violation.
// ---------------------------------------------------------------------------

// WalletAnalysis is the final report returned to the caller. Created once per
// analysis invocation and never mutated afterward.
type WalletAnalysis struct {
	AnalysisID string    `json:"analysis_id"`
	Address    string    `json:"address"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	SurveillanceScore int               `json:"surveillance_score"`
	DegenScore        int               `json:"degen_score"`
	RiskLevel         scoring.RiskLevel `json:"risk_level"`

	NetWorthUSD decimal.Decimal     `json:"net_worth_usd"`
	SolBalance  decimal.Decimal     `json:"sol_balance"`
	Tokens      []feed.TokenHolding `json:"tokens"`
	NFTs        []feed.NFTHolding   `json:"nfts"`

	TotalTransactions int             `json:"total_transactions"`
	SwapCount         int             `json:"swap_count"`
	TransferCount     int             `json:"transfer_count"`
	SkippedRecords    int             `json:"skipped_records"`
	TradingVolumeUSD  decimal.Decimal `json:"trading_volume_usd"`
	WalletAge         string          `json:"wallet_age"`
	ActivityPattern   string          `json:"activity_pattern"`
	ProtocolsUsed     []string        `json:"protocols_used"`

	TopInteractedAddresses []linkage.InteractedAddress `json:"top_interacted_addresses"`
	ConnectedWallets       []string                    `json:"connected_wallets"`
	CEXInteractions        int                         `json:"cex_interactions"`
	CEXNames               []string                    `json:"cex_names"`

	PrivacyMistakes []classify.PrivacyMistake `json:"privacy_mistakes"`
	IncomeSources   []scoring.IncomeSource    `json:"income_sources"`
	MemecoinPnL     scoring.MemecoinPnL       `json:"memecoin_pnl"`
	BiggestWin      *scoring.MemecoinTrade    `json:"biggest_win,omitempty"`
	BiggestLoss     *scoring.MemecoinTrade    `json:"biggest_loss,omitempty"`

	SocialMentions int    `json:"social_mentions"`
	Personality    string `json:"personality"`
	Verdict        string `json:"verdict"`
	Roast          string `json:"roast"`
}

// Assemble merges all pipeline outputs into one complete WalletAnalysis.
func Assemble(
	address string,
	f *feed.NormalizedFeed,
	cls classify.Output,
	scored scoring.Result,
	link linkage.Report,
	enriched persona.Enriched,
	socialMentions int,
	now time.Time,
) *WalletAnalysis {
	wa := &WalletAnalysis{
		AnalysisID: uuid.NewString(),
		Address:    address,
		AnalyzedAt: now.UTC(),

		SurveillanceScore: scored.SurveillanceScore,
		DegenScore:        scored.DegenScore,
		RiskLevel:         scored.RiskLevel,

		NetWorthUSD: f.NetWorthUSD,
		SolBalance:  f.SolBalance,
		Tokens:      f.Tokens,
		NFTs:        f.NFTs,

		TotalTransactions: len(f.Transactions),
		SwapCount:         f.SwapCount(),
		TransferCount:     f.TransferCount(),
		SkippedRecords:    f.SkippedCount,
		TradingVolumeUSD:  f.TradingVolumeUSD(),
		WalletAge:         walletAge(f.FirstActivity, now),
		ActivityPattern:   activityPattern(f),
		ProtocolsUsed:     protocolsUsed(f),

		TopInteractedAddresses: link.TopInteractedAddrs,
		ConnectedWallets:       link.ConnectedWallets,
		CEXInteractions:        link.CEXInteractions,
		CEXNames:               link.CEXNames,

		PrivacyMistakes: cls.Mistakes,
		IncomeSources:   scored.IncomeSources,
		MemecoinPnL:     scored.MemecoinPnL,
		BiggestWin:      scored.MemecoinPnL.BiggestWin,
		BiggestLoss:     scored.MemecoinPnL.BiggestLoss,

		SocialMentions: socialMentions,
		Personality:    enriched.Personality,
		Verdict:        enriched.Verdict,
		Roast:          enriched.Roast,
	}

	// Serialization contract: arrays, never null.
	if wa.Tokens == nil {
		wa.Tokens = []feed.TokenHolding{}
	}
	if wa.NFTs == nil {
		wa.NFTs = []feed.NFTHolding{}
	}
	if wa.ProtocolsUsed == nil {
		wa.ProtocolsUsed = []string{}
	}
	if wa.TopInteractedAddresses == nil {
		wa.TopInteractedAddresses = []linkage.InteractedAddress{}
	}
	if wa.ConnectedWallets == nil {
		wa.ConnectedWallets = []string{}
	}
	if wa.CEXNames == nil {
		wa.CEXNames = []string{}
	}
	if wa.PrivacyMistakes == nil {
		wa.PrivacyMistakes = []classify.PrivacyMistake{}
	}
	if wa.IncomeSources == nil {
		wa.IncomeSources = []scoring.IncomeSource{}
	}
	if wa.MemecoinPnL.Trades == nil {
		wa.MemecoinPnL.Trades = []scoring.MemecoinTrade{}
	}
	return wa
}

// walletAge buckets the first-activity timestamp into a display label.
func walletAge(first time.Time, now time.Time) string {
	if first.IsZero() {
		return "no activity"
	}
	age := now.Sub(first)
	switch {
	case age < 7*24*time.Hour:
		return "fresh (under a week)"
	case age < 30*24*time.Hour:
		return "young (under a month)"
	case age < 180*24*time.Hour:
		return "established (under six months)"
	case age < 365*24*time.Hour:
		return "seasoned (under a year)"
	default:
		return "veteran (over a year)"
	}
}

// activityPattern buckets transaction cadence over the wallet's lifetime.
func activityPattern(f *feed.NormalizedFeed) string {
	n := len(f.Transactions)
	if n == 0 {
		return "dormant"
	}
	span := f.LastActivity.Sub(f.FirstActivity)
	if span < 24*time.Hour {
		span = 24 * time.Hour
	}
	perDay := float64(n) / (span.Hours() / 24)
	switch {
	case perDay >= 20:
		return "hyperactive"
	case perDay >= 5:
		return "very active"
	case perDay >= 1:
		return "active"
	case perDay >= 0.1:
		return "casual"
	default:
		return "dormant"
	}
}

func protocolsUsed(f *feed.NormalizedFeed) []string {
	seen := map[string]bool{}
	var out []string
	for _, tx := range f.Transactions {
		if tx.Protocol == "" || seen[tx.Protocol] {
			continue
		}
		seen[tx.Protocol] = true
		out = append(out, tx.Protocol)
	}
	return out
}
