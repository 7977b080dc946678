package scoring

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletspy/walletspy/internal/classify"
	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/refdata"
)

// ---------------------------------------------------------------------------
// Scoring Engine — surveillance score, degen score, risk tier, income
// attribution and memecoin P&L. Every surveillance signal contributes a
// bounded non-negative sub-score, so a wallet whose signal set is a superset
// of another's never scores lower. Weights are tunable policy; monotonicity
// is the contract.
// ---------------------------------------------------------------------------

// Weights defines the contribution cap or penalty of each exposure signal.
type Weights struct {
	NetWorthMax     float64 `yaml:"net_worth_max"`
	TxCountMax      float64 `yaml:"tx_count_max"`
	CEXPenalty      float64 `yaml:"cex_penalty"`
	MistakeCritical float64 `yaml:"mistake_critical"`
	MistakeHigh     float64 `yaml:"mistake_high"`
	MistakeMedium   float64 `yaml:"mistake_medium"`
	MistakeLow      float64 `yaml:"mistake_low"`
	SocialPenalty   float64 `yaml:"social_penalty"`

	DegenMemecoinMax float64 `yaml:"degen_memecoin_max"`
	DegenSwapMax     float64 `yaml:"degen_swap_max"`
	DegenRecencyMax  float64 `yaml:"degen_recency_max"`
}

// RiskBands holds the lower edge of each tier above low.
type RiskBands struct {
	Medium   float64 `yaml:"medium"`
	High     float64 `yaml:"high"`
	Critical float64 `yaml:"critical"`
}

// Config configures the scoring engine.
type Config struct {
	Weights Weights   `yaml:"weights"`
	Bands   RiskBands `yaml:"bands"`

	// RecencyWindow is the trailing window, ending at the wallet's last
	// activity, used for the degen recency signal. Anchoring on the feed
	// rather than the clock keeps scoring deterministic.
	RecencyWindow time.Duration `yaml:"recency_window"`
}

// DefaultConfig returns the documented policy defaults.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			NetWorthMax:     20,
			TxCountMax:      15,
			CEXPenalty:      25,
			MistakeCritical: 35,
			MistakeHigh:     20,
			MistakeMedium:   10,
			MistakeLow:      4,
			SocialPenalty:   10,

			DegenMemecoinMax: 50,
			DegenSwapMax:     30,
			DegenRecencyMax:  20,
		},
		Bands:         RiskBands{Medium: 40, High: 60, Critical: 80},
		RecencyWindow: 30 * 24 * time.Hour,
	}
}

// Input carries everything the scorer consumes.
type Input struct {
	Feed           *feed.NormalizedFeed
	Classification classify.Output

	// SocialMentions is the optional social-search collaborator signal;
	// zero when the collaborator is unavailable.
	SocialMentions int
}

// Scorer computes the headline numbers.
type Scorer struct {
	config   Config
	registry *refdata.Registry
}

// NewScorer creates a scorer.
func NewScorer(config Config, registry *refdata.Registry) *Scorer {
	return &Scorer{config: config, registry: registry}
}

// Score computes the full scoring result. Deterministic for a fixed input.
func (s *Scorer) Score(in Input) Result {
	res := Result{
		SurveillanceScore: s.surveillanceScore(in),
		DegenScore:        s.degenScore(in),
		IncomeSources:     s.incomeSources(in.Classification),
		MemecoinPnL:       s.memecoinPnL(in.Feed),
	}
	res.RiskLevel = s.LevelFor(float64(res.SurveillanceScore))
	return res
}

func (s *Scorer) surveillanceScore(in Input) int {
	w := s.config.Weights
	score := 0.0

	// More to steal and more history to mine both raise exposure.
	score += netWorthSubScore(in.Feed.NetWorthUSD, w.NetWorthMax)
	score += txCountSubScore(len(in.Feed.Transactions), w.TxCountMax)

	// Any KYC exchange touch is an identity link.
	if in.Classification.CEXInteractions > 0 {
		score += w.CEXPenalty
	}

	for _, m := range in.Classification.Mistakes {
		switch m.Severity {
		case classify.SeverityCritical:
			score += w.MistakeCritical
		case classify.SeverityHigh:
			score += w.MistakeHigh
		case classify.SeverityMedium:
			score += w.MistakeMedium
		case classify.SeverityLow:
			score += w.MistakeLow
		}
	}

	if in.SocialMentions > 0 {
		score += w.SocialPenalty
	}

	return int(clamp(score))
}

// netWorthSubScore buckets net worth into a monotone 0..max contribution.
func netWorthSubScore(netWorth decimal.Decimal, max float64) float64 {
	switch {
	case netWorth.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return max
	case netWorth.GreaterThanOrEqual(decimal.NewFromInt(100_000)):
		return max * 0.8
	case netWorth.GreaterThanOrEqual(decimal.NewFromInt(10_000)):
		return max * 0.6
	case netWorth.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return max * 0.4
	case netWorth.IsPositive():
		return max * 0.2
	default:
		return 0
	}
}

// txCountSubScore buckets history depth into a monotone 0..max contribution.
func txCountSubScore(count int, max float64) float64 {
	switch {
	case count >= 1000:
		return max
	case count >= 500:
		return max * 0.8
	case count >= 200:
		return max * 0.6
	case count >= 50:
		return max * 0.4
	case count > 0:
		return max * 0.2
	default:
		return 0
	}
}

func (s *Scorer) degenScore(in Input) int {
	w := s.config.Weights
	score := 0.0

	// Memecoin portfolio concentration; dust balances already excluded by
	// the classifier, so unsolicited airdrops cannot inflate this.
	score += in.Classification.MemecoinPortfolioPct / 100 * w.DegenMemecoinMax

	score += swapSubScore(in.Feed.SwapCount(), w.DegenSwapMax)

	// Recency: share of swaps inside the trailing window.
	swaps := 0
	recent := 0
	cutoff := in.Feed.LastActivity.Add(-s.config.RecencyWindow)
	for _, tx := range in.Feed.Transactions {
		if tx.Type != feed.TxSwap {
			continue
		}
		swaps++
		if tx.Timestamp.After(cutoff) {
			recent++
		}
	}
	if swaps > 0 {
		score += float64(recent) / float64(swaps) * w.DegenRecencyMax
	}

	return int(clamp(score))
}

func swapSubScore(count int, max float64) float64 {
	switch {
	case count >= 200:
		return max
	case count >= 100:
		return max * 0.85
	case count >= 50:
		return max * 0.6
	case count >= 20:
		return max * 0.4
	case count >= 5:
		return max * 0.2
	case count > 0:
		return max * 0.1
	default:
		return 0
	}
}

// LevelFor maps a surveillance score onto its risk tier. A step function:
// non-decreasing across the configured band edges.
func (s *Scorer) LevelFor(score float64) RiskLevel {
	b := s.config.Bands
	switch {
	case score >= b.Critical:
		return RiskCritical
	case score >= b.High:
		return RiskHigh
	case score >= b.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// incomeSources aggregates attributed inbound value by type. Percentages are
// computed only when total income is positive; an empty list otherwise.
func (s *Scorer) incomeSources(cls classify.Output) []IncomeSource {
	byType := map[classify.IncomeType]*IncomeSource{}
	total := decimal.Zero
	for _, inc := range cls.Income {
		if !inc.AmountUSD.IsPositive() {
			continue
		}
		src := byType[inc.Type]
		if src == nil {
			src = &IncomeSource{Type: inc.Type, Label: inc.Type.Label()}
			byType[inc.Type] = src
		}
		src.AmountUSD = src.AmountUSD.Add(inc.AmountUSD)
		src.Count++
		total = total.Add(inc.AmountUSD)
	}
	if !total.IsPositive() {
		return []IncomeSource{}
	}

	out := make([]IncomeSource, 0, len(byType))
	for _, src := range byType {
		pct, _ := src.AmountUSD.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		src.Percentage = pct
		out = append(out, *src)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AmountUSD.Equal(out[j].AmountUSD) {
			return out[i].AmountUSD.GreaterThan(out[j].AmountUSD)
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// memecoinPnL builds the per-token and aggregate P&L view from swap legs and
// the current holdings snapshot. Valuation uses current prices only; a
// historical price oracle is the named extension point for accuracy.
func (s *Scorer) memecoinPnL(f *feed.NormalizedFeed) MemecoinPnL {
	type position struct {
		symbol      string
		buyUSD      decimal.Decimal
		proceedsUSD decimal.Decimal
		boughtAmt   decimal.Decimal
		soldAmt     decimal.Decimal
		currentUSD  decimal.Decimal
		currentAmt  decimal.Decimal
	}
	positions := map[string]*position{}
	order := []string{}

	get := func(mint, symbol string) *position {
		p := positions[mint]
		if p == nil {
			p = &position{symbol: symbol}
			positions[mint] = p
			order = append(order, mint)
		}
		if p.symbol == "" {
			p.symbol = symbol
		}
		return p
	}

	for _, tx := range f.Transactions {
		if tx.Type != feed.TxSwap || tx.Mint == "" || !s.registry.IsMemecoin(tx.Mint) {
			continue
		}
		meta, _ := s.registry.LookupToken(tx.Mint)
		p := get(tx.Mint, meta.Symbol)
		// The leg that delivers tokens to the wallet is the buy side.
		inboundLeg := tx.To == f.Address || (tx.To == "" && tx.From != f.Address)
		if inboundLeg {
			p.buyUSD = p.buyUSD.Add(tx.AmountUSD)
			p.boughtAmt = p.boughtAmt.Add(tx.Amount)
		} else {
			p.proceedsUSD = p.proceedsUSD.Add(tx.AmountUSD)
			p.soldAmt = p.soldAmt.Add(tx.Amount)
		}
	}

	for _, t := range f.Tokens {
		if !t.IsMemecoin {
			continue
		}
		p := positions[t.Mint]
		if p == nil {
			// Held but never swapped here; still part of exposure.
			p = get(t.Mint, t.Symbol)
		}
		p.currentUSD = t.USDValue
		p.currentAmt = t.Amount
	}

	agg := MemecoinPnL{Trades: []MemecoinTrade{}}
	for _, mint := range order {
		p := positions[mint]

		soldFraction := decimal.Zero
		if p.boughtAmt.IsPositive() {
			soldFraction = decimal.Min(decimal.NewFromInt(1), p.soldAmt.Div(p.boughtAmt))
		}
		soldCost := p.buyUSD.Mul(soldFraction)
		realized := p.proceedsUSD.Sub(soldCost)
		unrealized := p.currentUSD.Sub(p.buyUSD.Sub(soldCost))
		pnl := realized.Add(unrealized)

		trade := MemecoinTrade{
			Mint:            mint,
			Symbol:          p.symbol,
			BuyValueUSD:     p.buyUSD,
			CurrentValueUSD: p.currentUSD,
			PnL:             pnl,
			Status:          tradeStatus(p.boughtAmt, p.soldAmt, p.currentAmt),
		}
		if p.buyUSD.IsPositive() {
			pct, _ := pnl.Div(p.buyUSD).Mul(decimal.NewFromInt(100)).Float64()
			trade.PnLPercentage = pct
		}
		agg.Trades = append(agg.Trades, trade)

		agg.TotalInvested = agg.TotalInvested.Add(p.buyUSD).Sub(p.proceedsUSD)
		agg.CurrentValue = agg.CurrentValue.Add(p.currentUSD)
		agg.RealizedPnL = agg.RealizedPnL.Add(realized)
		agg.UnrealizedPnL = agg.UnrealizedPnL.Add(unrealized)
	}
	agg.TotalPnL = agg.RealizedPnL.Add(agg.UnrealizedPnL)

	grossInvested := decimal.Zero
	for _, mint := range order {
		grossInvested = grossInvested.Add(positions[mint].buyUSD)
	}
	if grossInvested.IsPositive() {
		pct, _ := agg.TotalPnL.Div(grossInvested).Mul(decimal.NewFromInt(100)).Float64()
		agg.PercentageChange = pct
	}

	for i := range agg.Trades {
		t := &agg.Trades[i]
		if agg.BiggestWin == nil || t.PnL.GreaterThan(agg.BiggestWin.PnL) {
			agg.BiggestWin = t
		}
		if agg.BiggestLoss == nil || t.PnL.LessThan(agg.BiggestLoss.PnL) {
			agg.BiggestLoss = t
		}
	}
	return agg
}

func tradeStatus(bought, sold, current decimal.Decimal) TradeStatus {
	if current.IsZero() && (bought.IsPositive() || sold.IsPositive()) {
		return TradeSold
	}
	if current.IsPositive() && sold.IsPositive() {
		return TradePartial
	}
	return TradeOpen
}

func clamp(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
