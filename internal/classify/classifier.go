package classify

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/refdata"
)

// ---------------------------------------------------------------------------
// Classifier Engine — categorical signals over the normalized feed.
// Every rule is deterministic, order-independent, and evaluated over the
// full transaction list. Thresholds are policy constants in Config.
// ---------------------------------------------------------------------------

// Config holds the detection thresholds.
type Config struct {
	// QuickWithdrawalWindow bounds the in→out pass-through pattern.
	QuickWithdrawalWindow time.Duration `yaml:"quick_withdrawal_window"`

	// AmountTolerancePct is the relative tolerance for "same amount" matching.
	AmountTolerancePct float64 `yaml:"amount_tolerance_pct"`

	// RoundUnit marks amounts as suspiciously round when amount mod unit == 0.
	RoundUnit float64 `yaml:"round_unit"`

	// TimingWindow and TimingMinOccurrences bound the correlation rule.
	TimingWindow         time.Duration `yaml:"timing_window"`
	TimingMinOccurrences int           `yaml:"timing_min_occurrences"`

	// DustMaxValueUSD and DustCountThreshold bound the dust-attack rule.
	DustMaxValueUSD    float64 `yaml:"dust_max_value_usd"`
	DustCountThreshold int     `yaml:"dust_count_threshold"`
}

// DefaultConfig returns the documented policy defaults.
func DefaultConfig() Config {
	return Config{
		QuickWithdrawalWindow: 10 * time.Minute,
		AmountTolerancePct:    2.0,
		RoundUnit:             100,
		TimingWindow:          5 * time.Minute,
		TimingMinOccurrences:  3,
		DustMaxValueUSD:       1.0,
		DustCountThreshold:    5,
	}
}

// Classifier derives categorical signals from a normalized feed.
type Classifier struct {
	config   Config
	registry *refdata.Registry
}

// NewClassifier creates a classifier over the given reference tables.
func NewClassifier(config Config, registry *refdata.Registry) *Classifier {
	return &Classifier{config: config, registry: registry}
}

// Classify runs every rule over the feed.
func (c *Classifier) Classify(f *feed.NormalizedFeed) Output {
	out := Output{
		CEXNames:  []string{},
		Income:    []AttributedIncome{},
		Mistakes:  []PrivacyMistake{},
		DustMints: map[string]struct{}{},
	}

	c.classifyHoldings(f, &out)
	c.classifyCEX(f, &out)
	c.attributeIncome(f, &out)

	var mistakes []PrivacyMistake
	mistakes = append(mistakes, c.detectQuickWithdrawals(f)...)
	mistakes = append(mistakes, c.detectSameAmounts(f)...)
	mistakes = append(mistakes, c.detectRoundNumbers(f)...)
	mistakes = append(mistakes, c.detectLinkedWallets(f)...)
	mistakes = append(mistakes, c.detectTimingCorrelation(f)...)
	mistakes = append(mistakes, c.detectDustAttack(&out)...)
	mistakes = append(mistakes, c.generalExposure(&out)...)
	out.Mistakes = collapseMistakes(mistakes)

	return out
}

// classifyHoldings derives memecoin exposure and dust candidates. A memecoin
// balance counts toward exposure only when it is not dust: unsolicited tiny
// balances say nothing about the owner's risk appetite.
func (c *Classifier) classifyHoldings(f *feed.NormalizedFeed, out *Output) {
	bought := make(map[string]bool)
	for _, tx := range f.Transactions {
		if tx.Type == feed.TxSwap && tx.Mint != "" {
			bought[tx.Mint] = true
		}
	}

	memeValue := decimal.Zero
	dustCeiling := decimal.NewFromFloat(c.config.DustMaxValueUSD)
	for _, t := range f.Tokens {
		isDust := t.USDValue.LessThan(dustCeiling) &&
			t.Amount.IsPositive() && !bought[t.Mint]
		if isDust {
			out.DustTokenCount++
			out.DustMints[t.Mint] = struct{}{}
			continue
		}
		if t.IsMemecoin {
			out.MemecoinCount++
			memeValue = memeValue.Add(t.USDValue)
		}
	}
	out.MemecoinValueUSD = memeValue

	if f.NetWorthUSD.IsPositive() {
		pct, _ := memeValue.Div(f.NetWorthUSD).Mul(decimal.NewFromInt(100)).Float64()
		out.MemecoinPortfolioPct = pct
	}
}

func (c *Classifier) classifyCEX(f *feed.NormalizedFeed, out *Output) {
	seen := map[string]bool{}
	for _, tx := range f.Transactions {
		name, ok := c.registry.LookupCEX(tx.Counterparty)
		if !ok {
			continue
		}
		out.CEXInteractions++
		if !seen[name] {
			seen[name] = true
			out.CEXNames = append(out.CEXNames, name)
		}
	}
	sort.Strings(out.CEXNames)
}

// attributeIncome maps each inbound transaction to an income source by
// counterparty and protocol lookup, defaulting to unknown.
func (c *Classifier) attributeIncome(f *feed.NormalizedFeed, out *Output) {
	for _, tx := range f.Transactions {
		var typ IncomeType
		switch tx.Type {
		case feed.TxTransferIn:
			switch {
			case lookupOK(c.registry.LookupCEX(tx.Counterparty)):
				typ = IncomeCEXWithdrawal
			case c.registry.IsMixer(tx.Counterparty):
				typ = IncomeUnknown
			case tx.Counterparty != "":
				typ = IncomeP2PTransfer
			default:
				typ = IncomeUnknown
			}
		case feed.TxUnstake:
			typ = IncomeStakingReward
		case feed.TxAirdrop:
			typ = IncomeAirdrop
		case feed.TxNFTTrade:
			// Only the leg that pays the wallet is a sale; purchases are
			// spending, not income.
			if tx.To != f.Address {
				continue
			}
			typ = IncomeNFTSale
		case feed.TxSwap:
			// Only inbound legs count; a swap leg toward the wallet is
			// trading proceeds.
			if tx.To != f.Address {
				continue
			}
			if tx.Protocol != "" && !isDEX(tx.Protocol) {
				typ = IncomeDefiYield
			} else {
				typ = IncomeSwapProfit
			}
		default:
			continue
		}
		out.Income = append(out.Income, AttributedIncome{
			Signature: tx.Signature,
			Type:      typ,
			AmountUSD: tx.AmountUSD,
		})
	}
}

// isDEX distinguishes swap venues from yield protocols among attributed names.
func isDEX(protocol string) bool {
	switch protocol {
	case "Raydium", "Raydium CLMM", "Jupiter", "Orca", "Orca v2", "Pump.fun", "Phoenix", "Meteora":
		return true
	}
	return false
}

// detectQuickWithdrawals finds inbound transfers from an identity-linked
// source (mixer or CEX) followed by an outbound transfer of a materially
// similar amount inside the window. The pass-through re-links the funds.
func (c *Classifier) detectQuickWithdrawals(f *feed.NormalizedFeed) []PrivacyMistake {
	var out []PrivacyMistake
	for _, in := range f.Transactions {
		if in.Type != feed.TxTransferIn {
			continue
		}
		srcLabel, linked := c.linkedSource(in)
		if !linked {
			continue
		}
		for _, txOut := range f.Transactions {
			if txOut.Type != feed.TxTransferOut || !txOut.Timestamp.After(in.Timestamp) {
				continue
			}
			if txOut.Timestamp.Sub(in.Timestamp) > c.config.QuickWithdrawalWindow {
				continue
			}
			if !c.similarAmount(in, txOut) {
				continue
			}
			out = append(out, PrivacyMistake{
				Type:     MistakeQuickWithdrawal,
				Severity: SeverityCritical,
				Description: fmt.Sprintf(
					"Funds received from %s were forwarded within %s in a near-identical amount, trivially re-linking source and destination",
					srcLabel, txOut.Timestamp.Sub(in.Timestamp).Round(time.Second)),
				Recommendation: "Hold withdrawn funds for an unpredictable period and split them before moving on",
				Timestamp:      txOut.Timestamp,
			})
			break
		}
	}
	return out
}

// detectSameAmounts finds linked-source inbound transfers echoed later by any
// wallet action of the same amount outside the quick window.
func (c *Classifier) detectSameAmounts(f *feed.NormalizedFeed) []PrivacyMistake {
	var out []PrivacyMistake
	for _, in := range f.Transactions {
		if in.Type != feed.TxTransferIn {
			continue
		}
		srcLabel, linked := c.linkedSource(in)
		if !linked {
			continue
		}
		for _, later := range f.Transactions {
			if !later.Timestamp.After(in.Timestamp) || later.Signature == in.Signature {
				continue
			}
			if later.Type == feed.TxTransferIn {
				continue
			}
			if later.Timestamp.Sub(in.Timestamp) <= c.config.QuickWithdrawalWindow {
				continue // already the quick-withdrawal rule's territory
			}
			if !c.similarAmount(in, later) {
				continue
			}
			out = append(out, PrivacyMistake{
				Type:     MistakeSameAmount,
				Severity: SeverityHigh,
				Description: fmt.Sprintf(
					"A later transaction repeats the exact amount received from %s, creating an amount-correlation fingerprint", srcLabel),
				Recommendation: "Vary amounts when moving funds that came from an identity-linked source",
				Timestamp:      later.Timestamp,
			})
			break
		}
	}
	return out
}

// detectRoundNumbers flags privacy-sensitive movements using suspiciously
// round amounts. Round values cluster trivially in chain analysis.
func (c *Classifier) detectRoundNumbers(f *feed.NormalizedFeed) []PrivacyMistake {
	var out []PrivacyMistake
	for _, tx := range f.Transactions {
		sensitive := c.registry.IsMixer(tx.Counterparty) ||
			c.registry.IsMixerName(tx.Protocol) ||
			(tx.Mint == refdata.MintSOL && (tx.Type == feed.TxTransferIn || tx.Type == feed.TxTransferOut))
		if !sensitive || !c.isRound(tx.Amount) {
			continue
		}
		out = append(out, PrivacyMistake{
			Type:     MistakeRoundNumbers,
			Severity: SeverityMedium,
			Description: fmt.Sprintf(
				"Privacy-sensitive movement of exactly %s — round amounts are easy to follow across hops", tx.Amount.String()),
			Recommendation: "Use irregular amounts for transfers you want to stay unlinkable",
			Timestamp:      tx.Timestamp,
		})
	}
	return out
}

// detectLinkedWallets flags counterparties with transfers in both directions.
// Bidirectional flow between plain wallets is the classic self-cluster tell.
func (c *Classifier) detectLinkedWallets(f *feed.NormalizedFeed) []PrivacyMistake {
	type dirs struct {
		in, out  bool
		lastSeen time.Time
	}
	flows := map[string]*dirs{}
	for _, tx := range f.Transactions {
		cp := tx.Counterparty
		if cp == "" || c.registry.IsKnownProgram(cp) || lookupOK(c.registry.LookupCEX(cp)) {
			continue
		}
		d := flows[cp]
		if d == nil {
			d = &dirs{}
			flows[cp] = d
		}
		switch tx.Type {
		case feed.TxTransferIn:
			d.in = true
		case feed.TxTransferOut:
			d.out = true
		default:
			continue
		}
		if tx.Timestamp.After(d.lastSeen) {
			d.lastSeen = tx.Timestamp
		}
	}

	addrs := make([]string, 0, len(flows))
	for cp, d := range flows {
		if d.in && d.out {
			addrs = append(addrs, cp)
		}
	}
	sort.Strings(addrs)

	out := make([]PrivacyMistake, 0, len(addrs))
	for _, cp := range addrs {
		out = append(out, PrivacyMistake{
			Type:     MistakeLinkedWallets,
			Severity: SeverityHigh,
			Description: fmt.Sprintf(
				"Two-way direct transfers with %s… link both addresses to the same owner", shortAddr(cp)),
			Recommendation: "Never move funds directly between wallets you want kept separate",
			Timestamp:      flows[cp].lastSeen,
		})
	}
	return out
}

// detectTimingCorrelation finds counterparty pairs whose transactions
// repeatedly land inside the same narrow window.
func (c *Classifier) detectTimingCorrelation(f *feed.NormalizedFeed) []PrivacyMistake {
	type hit struct {
		count int
		last  time.Time
	}
	pairs := map[[2]string]*hit{}

	// The windowed scan below needs time order; sort a copy rather than
	// trusting the caller's ordering.
	txs := make([]feed.NormalizedTransaction, len(f.Transactions))
	copy(txs, f.Transactions)
	sort.Slice(txs, func(i, j int) bool { return txs[i].Timestamp.Before(txs[j].Timestamp) })

	for i := 0; i < len(txs); i++ {
		a := txs[i]
		if a.Counterparty == "" || c.registry.IsKnownProgram(a.Counterparty) {
			continue
		}
		for j := i + 1; j < len(txs); j++ {
			b := txs[j]
			if b.Counterparty == "" || b.Counterparty == a.Counterparty || c.registry.IsKnownProgram(b.Counterparty) {
				continue
			}
			if b.Timestamp.Sub(a.Timestamp) > c.config.TimingWindow {
				break // sorted above, no later tx can be closer
			}
			key := pairKey(a.Counterparty, b.Counterparty)
			h := pairs[key]
			if h == nil {
				h = &hit{}
				pairs[key] = h
			}
			h.count++
			if b.Timestamp.After(h.last) {
				h.last = b.Timestamp
			}
		}
	}

	keys := make([][2]string, 0, len(pairs))
	for k, h := range pairs {
		if h.count >= c.config.TimingMinOccurrences {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i][0]+keys[i][1] < keys[j][0]+keys[j][1] })

	out := make([]PrivacyMistake, 0, len(keys))
	for _, k := range keys {
		h := pairs[k]
		out = append(out, PrivacyMistake{
			Type:     MistakeTimingCorr,
			Severity: SeverityMedium,
			Description: fmt.Sprintf(
				"Activity with %s… and %s… clusters in the same time window %d times — a strong behavioral link",
				shortAddr(k[0]), shortAddr(k[1]), h.count),
			Recommendation: "Stagger activity across addresses you do not want correlated",
			Timestamp:      h.last,
		})
	}
	return out
}

// detectDustAttack flags wallets holding many unsolicited tiny balances.
func (c *Classifier) detectDustAttack(out *Output) []PrivacyMistake {
	if out.DustTokenCount <= c.config.DustCountThreshold {
		return nil
	}
	return []PrivacyMistake{{
		Type:     MistakeDustAttack,
		Severity: SeverityLow,
		Description: fmt.Sprintf(
			"%d unsolicited dust balances detected — interacting with any of them tags the wallet for trackers", out.DustTokenCount),
		Recommendation: "Never swap, burn, or otherwise touch unsolicited dust tokens",
	}}
}

// generalExposure covers identity-linkage risks beyond the pattern rules.
func (c *Classifier) generalExposure(out *Output) []PrivacyMistake {
	if out.CEXInteractions == 0 {
		return nil
	}
	return []PrivacyMistake{{
		Type:     MistakeCEXExposure,
		Severity: SeverityMedium,
		Description: fmt.Sprintf(
			"Direct transfers with %d KYC exchange(s) tie this wallet to a verified identity", len(out.CEXNames)),
		Recommendation: "Route exchange flows through an intermediate wallet that never touches your main addresses",
	}}
}

// linkedSource reports whether a transfer's source is identity-linked (a
// known mixer withdrawal or a CEX hot wallet).
func (c *Classifier) linkedSource(tx feed.NormalizedTransaction) (string, bool) {
	if name, ok := c.registry.LookupMixer(tx.Counterparty); ok {
		return name, true
	}
	if c.registry.IsMixerName(tx.Protocol) {
		return tx.Protocol, true
	}
	if name, ok := c.registry.LookupCEX(tx.Counterparty); ok {
		return name, true
	}
	return "", false
}

// similarAmount tests two legs for a relative amount match. Token amounts are
// compared when the mints agree, USD values otherwise.
func (c *Classifier) similarAmount(a, b feed.NormalizedTransaction) bool {
	x, y := a.Amount, b.Amount
	if a.Mint != b.Mint {
		x, y = a.AmountUSD, b.AmountUSD
	}
	if !x.IsPositive() || !y.IsPositive() {
		return false
	}
	tol := x.Mul(decimal.NewFromFloat(c.config.AmountTolerancePct)).Div(decimal.NewFromInt(100))
	return x.Sub(y).Abs().LessThanOrEqual(tol)
}

// isRound reports whether an amount is an exact multiple of the round unit.
func (c *Classifier) isRound(amount decimal.Decimal) bool {
	unit := decimal.NewFromFloat(c.config.RoundUnit)
	if !amount.IsPositive() || amount.LessThan(unit) {
		return false
	}
	return amount.Mod(unit).IsZero()
}

// collapseMistakes drops duplicates of the same (type, minute-bucket) pair
// and orders the result by severity, worst first.
func collapseMistakes(in []PrivacyMistake) []PrivacyMistake {
	seen := map[string]bool{}
	out := make([]PrivacyMistake, 0, len(in))
	for _, m := range in {
		key := string(m.Type) + "|" + m.Timestamp.Truncate(time.Minute).Format(time.RFC3339)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Weight() > out[j].Severity.Weight()
	})
	return out
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func shortAddr(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:8]
}

func lookupOK(_ string, ok bool) bool { return ok }
