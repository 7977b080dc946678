package feed

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Activity feed model — raw records as delivered by the blockchain-data
// collaborator, and the normalized shapes every downstream stage consumes.
// ---------------------------------------------------------------------------

// RawActivityRecord is one on-chain event as returned by the data provider.
// Fields are optional depending on event type; the normalizer validates.
type RawActivityRecord struct {
	Signature   string          `json:"signature"`
	Timestamp   int64           `json:"timestamp"` // unix seconds
	Type        string          `json:"type"`      // swap|transfer|stake|unstake|mint|burn|unknown
	Source      string          `json:"source,omitempty"`
	Destination string          `json:"destination,omitempty"`
	ProgramIDs  []string        `json:"program_ids,omitempty"`
	Mint        string          `json:"mint,omitempty"`
	Amount      decimal.Decimal `json:"amount"`       // UI amount (decimals applied)
	FeeLamports uint64          `json:"fee_lamports"` // network fee paid by the wallet
}

// RawHolding is one current token or NFT balance with its price snapshot.
type RawHolding struct {
	Mint     string          `json:"mint"`
	Symbol   string          `json:"symbol,omitempty"`
	Name     string          `json:"name,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Decimals int             `json:"decimals"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	LogoURI  string          `json:"logo_uri,omitempty"`
	IsNFT    bool            `json:"is_nft,omitempty"`
}

// TxType discriminates NormalizedTransaction. Each classifier branch operates
// on a narrowed shape instead of a bag of optional fields.
type TxType string

const (
	TxSwap        TxType = "swap"
	TxTransferIn  TxType = "transfer_in"
	TxTransferOut TxType = "transfer_out"
	TxStake       TxType = "stake"
	TxUnstake     TxType = "unstake"
	TxNFTTrade    TxType = "nft_trade"
	TxAirdrop     TxType = "airdrop"
	TxUnknown     TxType = "unknown"
)

// Inbound reports whether the transaction moves value toward the wallet.
func (t TxType) Inbound() bool {
	switch t {
	case TxTransferIn, TxUnstake, TxAirdrop:
		return true
	}
	return false
}

// NormalizedTransaction is the internal, USD-valued transaction model.
// Derived 1:1 from a RawActivityRecord; read-only afterward.
type NormalizedTransaction struct {
	Signature    string          `json:"signature"`
	Timestamp    time.Time       `json:"timestamp"`
	Type         TxType          `json:"type"`
	Mint         string          `json:"mint,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	From         string          `json:"from,omitempty"`
	To           string          `json:"to,omitempty"`
	Counterparty string          `json:"counterparty,omitempty"`
	Protocol     string          `json:"protocol,omitempty"` // attributed protocol, if recognized
	FeeSOL       decimal.Decimal `json:"fee_sol"`
}

// TokenHolding is one fungible balance in the current snapshot.
// Constructed once per analysis run, never mutated.
type TokenHolding struct {
	Mint       string          `json:"mint"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Decimals   int             `json:"decimals"`
	USDValue   decimal.Decimal `json:"usd_value"`
	IsMemecoin bool            `json:"is_memecoin"`
	LogoURI    string          `json:"logo_uri,omitempty"`
}

// NFTHolding is one non-fungible item in the current snapshot.
type NFTHolding struct {
	Mint     string          `json:"mint"`
	Name     string          `json:"name"`
	USDValue decimal.Decimal `json:"usd_value"`
	LogoURI  string          `json:"logo_uri,omitempty"`
}

// NormalizedFeed is the full normalized view of one wallet's activity.
type NormalizedFeed struct {
	Address       string                  `json:"address"`
	Transactions  []NormalizedTransaction `json:"transactions"`
	Tokens        []TokenHolding          `json:"tokens"`
	NFTs          []NFTHolding            `json:"nfts"`
	SolBalance    decimal.Decimal         `json:"sol_balance"`
	NetWorthUSD   decimal.Decimal         `json:"net_worth_usd"`
	FirstActivity time.Time               `json:"first_activity,omitempty"`
	LastActivity  time.Time               `json:"last_activity,omitempty"`
	SkippedCount  int                     `json:"skipped_count"`
}

// SwapCount returns the number of swap transactions.
func (f *NormalizedFeed) SwapCount() int {
	n := 0
	for _, tx := range f.Transactions {
		if tx.Type == TxSwap {
			n++
		}
	}
	return n
}

// TransferCount returns the number of plain transfers, either direction.
func (f *NormalizedFeed) TransferCount() int {
	n := 0
	for _, tx := range f.Transactions {
		if tx.Type == TxTransferIn || tx.Type == TxTransferOut {
			n++
		}
	}
	return n
}

// TradingVolumeUSD sums the USD value of all swap legs.
func (f *NormalizedFeed) TradingVolumeUSD() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range f.Transactions {
		if tx.Type == TxSwap {
			total = total.Add(tx.AmountUSD)
		}
	}
	return total
}

// PriceOracle resolves the current USD price of a mint. The default oracle is
// the holdings snapshot; historical pricing is a named extension point, not a
// silent behavior change.
type PriceOracle interface {
	PriceUSD(mint string) (decimal.Decimal, bool)
}

// SnapshotOracle prices mints from the current holdings snapshot.
type SnapshotOracle struct {
	prices map[string]decimal.Decimal
}

// NewSnapshotOracle builds an oracle from raw holdings.
func NewSnapshotOracle(holdings []RawHolding) *SnapshotOracle {
	prices := make(map[string]decimal.Decimal, len(holdings))
	for _, h := range holdings {
		if h.Mint != "" && h.PriceUSD.IsPositive() {
			prices[h.Mint] = h.PriceUSD
		}
	}
	return &SnapshotOracle{prices: prices}
}

// PriceUSD implements PriceOracle.
func (o *SnapshotOracle) PriceUSD(mint string) (decimal.Decimal, bool) {
	p, ok := o.prices[mint]
	return p, ok
}
