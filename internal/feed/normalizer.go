package feed

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/walletspy/walletspy/internal/refdata"
)

// ---------------------------------------------------------------------------
// Activity Normalizer — raw provider records in, NormalizedFeed out.
// Best-effort: malformed records are skipped and counted, never fatal.
// ---------------------------------------------------------------------------

var lamportsPerSOL = decimal.NewFromInt(1_000_000_000)

// Normalizer converts raw activity into the internal transaction model.
type Normalizer struct {
	registry *refdata.Registry
	oracle   PriceOracle // nil = snapshot oracle built per call
}

// NewNormalizer creates a normalizer over the given reference tables.
func NewNormalizer(registry *refdata.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// WithOracle overrides the default snapshot price oracle. Extension point for
// historical pricing.
func (n *Normalizer) WithOracle(o PriceOracle) *Normalizer {
	n.oracle = o
	return n
}

// Normalize builds the normalized feed for one wallet.
func (n *Normalizer) Normalize(address string, raw []RawActivityRecord, holdings []RawHolding) NormalizedFeed {
	oracle := n.oracle
	if oracle == nil {
		oracle = NewSnapshotOracle(holdings)
	}

	out := NormalizedFeed{
		Address:      address,
		Transactions: make([]NormalizedTransaction, 0, len(raw)),
		Tokens:       []TokenHolding{},
		NFTs:         []NFTHolding{},
	}

	n.normalizeHoldings(&out, holdings)

	// First pass: group records by signature so two-legged movements can be
	// recognized as swaps even without a known DEX program id.
	legsBySig := make(map[string]int, len(raw))
	for _, r := range raw {
		if r.Signature != "" {
			legsBySig[r.Signature]++
		}
	}

	for _, r := range raw {
		tx, ok := n.normalizeRecord(address, r, oracle, legsBySig[r.Signature] > 1)
		if !ok {
			out.SkippedCount++
			continue
		}
		out.Transactions = append(out.Transactions, tx)
	}

	sort.Slice(out.Transactions, func(i, j int) bool {
		return out.Transactions[i].Timestamp.Before(out.Transactions[j].Timestamp)
	})
	if len(out.Transactions) > 0 {
		out.FirstActivity = out.Transactions[0].Timestamp
		out.LastActivity = out.Transactions[len(out.Transactions)-1].Timestamp
	}

	if out.SkippedCount > 0 {
		log.Debug().
			Str("address", address).
			Int("skipped", out.SkippedCount).
			Int("kept", len(out.Transactions)).
			Msg("normalizer dropped malformed records")
	}
	return out
}

func (n *Normalizer) normalizeHoldings(out *NormalizedFeed, holdings []RawHolding) {
	for _, h := range holdings {
		if h.Mint == "" || h.Amount.IsNegative() {
			out.SkippedCount++
			continue
		}
		usd := h.Amount.Mul(h.PriceUSD)
		if h.IsNFT {
			out.NFTs = append(out.NFTs, NFTHolding{
				Mint:     h.Mint,
				Name:     h.Name,
				USDValue: usd,
				LogoURI:  h.LogoURI,
			})
			out.NetWorthUSD = out.NetWorthUSD.Add(usd)
			continue
		}

		th := TokenHolding{
			Mint:     h.Mint,
			Symbol:   h.Symbol,
			Name:     h.Name,
			Amount:   h.Amount,
			Decimals: h.Decimals,
			USDValue: usd,
			LogoURI:  h.LogoURI,
		}
		if meta, ok := n.registry.LookupToken(h.Mint); ok {
			if th.Symbol == "" {
				th.Symbol = meta.Symbol
			}
			if th.Name == "" {
				th.Name = meta.Name
			}
			th.IsMemecoin = meta.Memecoin
		}
		if h.Mint == refdata.MintSOL {
			out.SolBalance = h.Amount
		}
		out.Tokens = append(out.Tokens, th)
		out.NetWorthUSD = out.NetWorthUSD.Add(usd)
	}
}

// normalizeRecord classifies one raw record. Returns ok=false for records
// that cannot be parsed into a well-formed transaction.
func (n *Normalizer) normalizeRecord(address string, r RawActivityRecord, oracle PriceOracle, multiLeg bool) (NormalizedTransaction, bool) {
	if r.Signature == "" || r.Timestamp <= 0 || r.Amount.IsNegative() {
		return NormalizedTransaction{}, false
	}

	tx := NormalizedTransaction{
		Signature: r.Signature,
		Timestamp: time.Unix(r.Timestamp, 0).UTC(),
		Mint:      r.Mint,
		Amount:    r.Amount,
		From:      r.Source,
		To:        r.Destination,
		FeeSOL:    decimal.NewFromInt(int64(r.FeeLamports)).Div(lamportsPerSOL),
	}

	if price, ok := oracle.PriceUSD(r.Mint); ok {
		tx.AmountUSD = r.Amount.Mul(price)
	}

	tx.Type, tx.Protocol = n.classify(address, r, multiLeg)

	switch {
	case r.Destination == address:
		tx.Counterparty = r.Source
	case r.Source == address:
		tx.Counterparty = r.Destination
	case r.Destination != "":
		tx.Counterparty = r.Destination
	default:
		tx.Counterparty = r.Source
	}

	return tx, true
}

// classify resolves the transaction type: reference tables first, raw-type
// hint second, movement-shape heuristic last.
func (n *Normalizer) classify(address string, r RawActivityRecord, multiLeg bool) (TxType, string) {
	for _, pid := range r.ProgramIDs {
		if name, ok := n.registry.LookupProtocol(pid); ok {
			return TxSwap, name
		}
		if name, ok := n.registry.LookupMarketplace(pid); ok {
			return TxNFTTrade, name
		}
		if name, ok := n.registry.LookupStaking(pid); ok {
			if r.Type == "unstake" || r.Destination == address {
				return TxUnstake, name
			}
			return TxStake, name
		}
		if name, ok := n.registry.LookupAirdrop(pid); ok {
			return TxAirdrop, name
		}
		if name, ok := n.registry.LookupMixer(pid); ok {
			return n.directional(address, r), name
		}
	}

	// Mixer counterparties classify the same as mixer programs.
	if name, ok := n.registry.LookupMixer(r.Source); ok && r.Destination == address {
		return TxTransferIn, name
	}
	if name, ok := n.registry.LookupMixer(r.Destination); ok && r.Source == address {
		return TxTransferOut, name
	}

	switch r.Type {
	case "swap":
		return TxSwap, ""
	case "stake":
		return TxStake, ""
	case "unstake":
		return TxUnstake, ""
	case "transfer":
		return n.directional(address, r), ""
	}

	// Two legs under one signature is a swap shape even without a program id.
	if multiLeg {
		return TxSwap, ""
	}
	if r.Source != "" || r.Destination != "" {
		return n.directional(address, r), ""
	}
	return TxUnknown, ""
}

func (n *Normalizer) directional(address string, r RawActivityRecord) TxType {
	if r.Destination == address {
		return TxTransferIn
	}
	if r.Source == address {
		return TxTransferOut
	}
	return TxUnknown
}
