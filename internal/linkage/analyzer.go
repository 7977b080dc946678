package linkage

import (
	"sort"
	"time"

	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/refdata"
)

// ---------------------------------------------------------------------------
// Wallet Linkage Analyzer — counterparty clustering over one wallet's feed.
// Outbound plain transfers to unknown addresses are the cluster signal;
// programs and exchange hot wallets are infrastructure, not contacts.
// ---------------------------------------------------------------------------

// InteractedAddress is one ranked counterparty.
type InteractedAddress struct {
	Address  string    `json:"address"`
	Count    int       `json:"count"`
	Label    string    `json:"label,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}

// Report is the linkage analyzer's output.
type Report struct {
	ConnectedWallets   []string            `json:"connected_wallets"`
	TopInteractedAddrs []InteractedAddress `json:"top_interacted_addresses"`
	CEXInteractions    int                 `json:"cex_interactions"`
	CEXNames           []string            `json:"cex_names"`
}

// Analyzer clusters counterparties against the reference tables.
type Analyzer struct {
	registry *refdata.Registry

	// MaxConnected caps the connected-wallets list.
	MaxConnected int
}

// NewAnalyzer creates a linkage analyzer.
func NewAnalyzer(registry *refdata.Registry) *Analyzer {
	return &Analyzer{registry: registry, MaxConnected: 25}
}

// Analyze builds the linkage report for one wallet's transactions.
func (a *Analyzer) Analyze(f *feed.NormalizedFeed) Report {
	rep := Report{
		ConnectedWallets:   []string{},
		TopInteractedAddrs: []InteractedAddress{},
		CEXNames:           []string{},
	}

	type stats struct {
		count    int
		lastSeen time.Time
		outbound bool
	}
	byAddr := map[string]*stats{}
	cexSeen := map[string]bool{}

	for _, tx := range f.Transactions {
		cp := tx.Counterparty
		if cp == "" || cp == f.Address {
			continue
		}
		st := byAddr[cp]
		if st == nil {
			st = &stats{}
			byAddr[cp] = st
		}
		st.count++
		if tx.Timestamp.After(st.lastSeen) {
			st.lastSeen = tx.Timestamp
		}
		if tx.Type == feed.TxTransferOut {
			st.outbound = true
		}

		if name, ok := a.registry.LookupCEX(cp); ok {
			rep.CEXInteractions++
			if !cexSeen[name] {
				cexSeen[name] = true
				rep.CEXNames = append(rep.CEXNames, name)
			}
		}
	}
	sort.Strings(rep.CEXNames)

	for addr, st := range byAddr {
		rep.TopInteractedAddrs = append(rep.TopInteractedAddrs, InteractedAddress{
			Address:  addr,
			Count:    st.count,
			Label:    a.registry.Label(addr),
			LastSeen: st.lastSeen,
		})

		// Connected wallets: outbound transfer targets that are not known
		// infrastructure — plausibly the same owner or a social contact.
		if st.outbound && !a.registry.IsKnownProgram(addr) {
			if _, isCEX := a.registry.LookupCEX(addr); !isCEX {
				rep.ConnectedWallets = append(rep.ConnectedWallets, addr)
			}
		}
	}

	sort.Slice(rep.TopInteractedAddrs, func(i, j int) bool {
		ti, tj := rep.TopInteractedAddrs[i], rep.TopInteractedAddrs[j]
		if ti.Count != tj.Count {
			return ti.Count > tj.Count
		}
		if !ti.LastSeen.Equal(tj.LastSeen) {
			return ti.LastSeen.After(tj.LastSeen)
		}
		return ti.Address < tj.Address
	})

	sort.Strings(rep.ConnectedWallets)
	if len(rep.ConnectedWallets) > a.MaxConnected {
		rep.ConnectedWallets = rep.ConnectedWallets[:a.MaxConnected]
	}
	return rep
}
