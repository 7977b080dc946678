package refdata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Reference Data Registry — known mints, CEX hot wallets, protocol programs,
// privacy protocols, marketplaces. Immutable after construction; injected
// into every pipeline stage instead of living as package globals.
// ---------------------------------------------------------------------------

// TokenMeta describes a known SPL token mint.
type TokenMeta struct {
	Symbol   string `yaml:"symbol" json:"symbol"`
	Name     string `yaml:"name" json:"name"`
	Memecoin bool   `yaml:"memecoin" json:"memecoin"`
	LogoURI  string `yaml:"logo_uri,omitempty" json:"logo_uri,omitempty"`
}

// Dataset is the raw lookup data a Registry is built from. All maps are
// keyed by base58 address / program id.
type Dataset struct {
	Tokens       map[string]TokenMeta `yaml:"tokens"`
	CEX          map[string]string    `yaml:"cex"`          // hot wallet -> exchange name
	Protocols    map[string]string    `yaml:"protocols"`    // program id -> protocol name
	Mixers       map[string]string    `yaml:"mixers"`       // address/program -> privacy protocol name
	Airdrops     map[string]string    `yaml:"airdrops"`     // program id -> campaign/protocol name
	Staking      map[string]string    `yaml:"staking"`      // program id -> staking protocol name
	Marketplaces map[string]string    `yaml:"marketplaces"` // program id -> marketplace name
}

// Registry answers address/program classification queries. Read-only.
type Registry struct {
	ds Dataset
}

// NewRegistry builds a registry from a dataset. The dataset is copied so the
// caller cannot mutate the registry afterward.
func NewRegistry(ds Dataset) *Registry {
	return &Registry{ds: Dataset{
		Tokens:       copyMap(ds.Tokens),
		CEX:          copyMap(ds.CEX),
		Protocols:    copyMap(ds.Protocols),
		Mixers:       copyMap(ds.Mixers),
		Airdrops:     copyMap(ds.Airdrops),
		Staking:      copyMap(ds.Staking),
		Marketplaces: copyMap(ds.Marketplaces),
	}}
}

// NewDefaultRegistry builds a registry from the built-in dataset.
func NewDefaultRegistry() *Registry {
	return NewRegistry(DefaultDataset())
}

// LoadDataset reads a YAML overlay file and merges it on top of the built-in
// dataset. Entries in the file win over built-ins.
func LoadDataset(path string) (Dataset, error) {
	ds := DefaultDataset()
	if path == "" {
		return ds, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("refdata: read %s: %w", path, err)
	}
	var overlay Dataset
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Dataset{}, fmt.Errorf("refdata: parse %s: %w", path, err)
	}
	mergeMap(ds.Tokens, overlay.Tokens)
	mergeMap(ds.CEX, overlay.CEX)
	mergeMap(ds.Protocols, overlay.Protocols)
	mergeMap(ds.Mixers, overlay.Mixers)
	mergeMap(ds.Airdrops, overlay.Airdrops)
	mergeMap(ds.Staking, overlay.Staking)
	mergeMap(ds.Marketplaces, overlay.Marketplaces)
	return ds, nil
}

// LookupToken returns metadata for a known mint.
func (r *Registry) LookupToken(mint string) (TokenMeta, bool) {
	tm, ok := r.ds.Tokens[mint]
	return tm, ok
}

// IsMemecoin reports whether a mint is a known memecoin.
func (r *Registry) IsMemecoin(mint string) bool {
	tm, ok := r.ds.Tokens[mint]
	return ok && tm.Memecoin
}

// LookupCEX returns the exchange name for a known CEX hot wallet.
func (r *Registry) LookupCEX(addr string) (string, bool) {
	name, ok := r.ds.CEX[addr]
	return name, ok
}

// LookupProtocol returns the DeFi protocol name for a known program id.
func (r *Registry) LookupProtocol(programID string) (string, bool) {
	name, ok := r.ds.Protocols[programID]
	return name, ok
}

// LookupMixer returns the privacy-protocol name for a known address.
func (r *Registry) LookupMixer(addr string) (string, bool) {
	name, ok := r.ds.Mixers[addr]
	return name, ok
}

// IsMixer reports whether an address belongs to a known privacy protocol.
func (r *Registry) IsMixer(addr string) bool {
	_, ok := r.ds.Mixers[addr]
	return ok
}

// IsMixerName reports whether a protocol name belongs to a privacy protocol.
// Used on already-attributed transactions, which carry names, not addresses.
func (r *Registry) IsMixerName(name string) bool {
	if name == "" {
		return false
	}
	for _, n := range r.ds.Mixers {
		if n == name {
			return true
		}
	}
	return false
}

// LookupAirdrop returns the campaign name for a known airdrop program.
func (r *Registry) LookupAirdrop(programID string) (string, bool) {
	name, ok := r.ds.Airdrops[programID]
	return name, ok
}

// LookupStaking returns the protocol name for a known staking program.
func (r *Registry) LookupStaking(programID string) (string, bool) {
	name, ok := r.ds.Staking[programID]
	return name, ok
}

// LookupMarketplace returns the marketplace name for a known NFT program.
func (r *Registry) LookupMarketplace(programID string) (string, bool) {
	name, ok := r.ds.Marketplaces[programID]
	return name, ok
}

// IsKnownProgram reports whether an address matches any non-CEX program table.
// Used by the linkage analyzer to exclude infrastructure from wallet clusters.
func (r *Registry) IsKnownProgram(addr string) bool {
	if _, ok := r.ds.Protocols[addr]; ok {
		return true
	}
	if _, ok := r.ds.Mixers[addr]; ok {
		return true
	}
	if _, ok := r.ds.Airdrops[addr]; ok {
		return true
	}
	if _, ok := r.ds.Staking[addr]; ok {
		return true
	}
	if _, ok := r.ds.Marketplaces[addr]; ok {
		return true
	}
	return false
}

// Label returns the best-known label for an address: CEX name, protocol,
// mixer, marketplace, staking or airdrop program. Empty string if unknown.
func (r *Registry) Label(addr string) string {
	if name, ok := r.ds.CEX[addr]; ok {
		return name
	}
	if name, ok := r.ds.Protocols[addr]; ok {
		return name
	}
	if name, ok := r.ds.Mixers[addr]; ok {
		return name
	}
	if name, ok := r.ds.Marketplaces[addr]; ok {
		return name
	}
	if name, ok := r.ds.Staking[addr]; ok {
		return name
	}
	if name, ok := r.ds.Airdrops[addr]; ok {
		return name
	}
	return ""
}

// ValidAddress performs a cheap base58 shape check on a Solana address.
// It is not a full curve check; it rejects obviously malformed input.
func ValidAddress(addr string) bool {
	if len(addr) < 32 || len(addr) > 44 {
		return false
	}
	return strings.IndexFunc(addr, func(c rune) bool {
		return !isBase58(c)
	}) == -1
}

func isBase58(c rune) bool {
	switch {
	case c >= '1' && c <= '9':
		return true
	case c >= 'A' && c <= 'H', c >= 'J' && c <= 'N', c >= 'P' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'k', c >= 'm' && c <= 'z':
		return true
	}
	return false
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mergeMap[V any](dst, src map[string]V) {
	for k, v := range src {
		dst[k] = v
	}
}
