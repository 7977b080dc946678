package persona

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Personality/Verdict Assigner — deterministic local fallback used whenever
// the generative collaborator is unavailable or returns garbage. Selection
// inside a band is randomized for variety; the randomness source is
// injectable so tests can pin it.
// ---------------------------------------------------------------------------

// Stats are the summary numbers the bands are keyed on.
type Stats struct {
	SurveillanceScore int
	DegenScore        int
	NetWorthUSD       decimal.Decimal
	TxCount           int
	SwapCount         int
	NFTCount          int
}

// Assignment is a personality label plus verdict line.
type Assignment struct {
	Personality string `json:"personality"`
	Verdict     string `json:"verdict"`
}

// band is one prioritized rule: first match wins.
type band struct {
	match      func(Stats) bool
	candidates []Assignment
}

// Assigner picks fallback personalities.
type Assigner struct {
	rng   *rand.Rand
	bands []band
}

// NewAssigner creates an assigner over the given randomness source.
func NewAssigner(rng *rand.Rand) *Assigner {
	return &Assigner{rng: rng, bands: defaultBands()}
}

// Assign walks the band list and picks one candidate from the first match.
func (a *Assigner) Assign(s Stats) Assignment {
	for _, b := range a.bands {
		if !b.match(s) {
			continue
		}
		return b.candidates[a.rng.Intn(len(b.candidates))]
	}
	// Unreachable: the last band always matches.
	return Assignment{Personality: "The Mystery Wallet", Verdict: "We genuinely have no idea what you're doing."}
}

// FallbackRoast picks a local roast line keyed on the surveillance score,
// used when the generative collaborator is unavailable.
func (a *Assigner) FallbackRoast(s Stats) string {
	var set []string
	switch {
	case s.SurveillanceScore >= 80:
		set = []string{
			"Your wallet is less a financial instrument and more a live stream. Chain-analysis firms don't investigate you, they subscribe.",
			"Calling this a pseudonymous wallet is generous. It's a public diary with a price feed attached.",
		}
	case s.SurveillanceScore >= 60:
		set = []string{
			"You've left enough breadcrumbs on-chain to feed a flock of analysts. They said thanks.",
			"Your transaction history reads like a confession nobody asked for but everyone can download.",
		}
	case s.SurveillanceScore >= 40:
		set = []string{
			"Half careful, half careless — the worst combination, because the careless half is permanent.",
			"Your privacy is like a half-closed curtain: technically an effort, practically a window.",
		}
	case s.TxCount == 0:
		set = []string{
			"An empty wallet is the one privacy strategy that actually works. Congratulations on doing nothing, flawlessly.",
		}
	default:
		set = []string{
			"Modest footprint, modest exposure. The blockchain barely knows you exist — keep it that way.",
			"Not much to surveil here. Either you're careful or you're broke; the chain can't tell.",
		}
	}
	return set[a.rng.Intn(len(set))]
}

func defaultBands() []band {
	return []band{
		{
			match: func(s Stats) bool { return s.DegenScore > 80 },
			candidates: []Assignment{
				{"The Terminal Degen", "Every memecoin chart is a personality test and you keep failing it in public."},
				{"The Casino Resident", "The blockchain remembers every ape. All of yours are on display."},
				{"The Exit Liquidity", "You arrive at every pump exactly one candle too late, forever, on-chain."},
			},
		},
		{
			match: func(s Stats) bool { return s.DegenScore > 60 },
			candidates: []Assignment{
				{"The Weekend Gambler", "Respectable on weekdays, unhinged on Saturdays — and the chain logs both."},
				{"The Calculated Degen", "You call it a strategy. The explorer calls it a confession."},
			},
		},
		{
			match: func(s Stats) bool { return s.NetWorthUSD.GreaterThan(decimal.NewFromInt(50_000)) },
			candidates: []Assignment{
				{"The Visible Whale", "That's a lot of money to carry around with your address written on it."},
				{"The Glass Vault", "Impressive stack. Shame the whole internet can watch it move."},
			},
		},
		{
			match: func(s Stats) bool { return s.NetWorthUSD.GreaterThan(decimal.NewFromInt(10_000)) },
			candidates: []Assignment{
				{"The Comfortable Target", "Big enough to be interesting, public enough to be easy."},
				{"The Quiet Accumulator", "Stacking steadily — and every analytics firm is taking notes."},
			},
		},
		{
			match: func(s Stats) bool { return s.SwapCount > 100 },
			candidates: []Assignment{
				{"The Swap Machine", "A hundred-plus swaps paint a behavioral fingerprint no mixer can erase."},
				{"The DEX Regular", "The AMMs know your schedule better than your friends do."},
			},
		},
		{
			match: func(s Stats) bool { return s.NFTCount > 20 },
			candidates: []Assignment{
				{"The JPEG Archivist", "Twenty-plus NFTs: a public gallery of every trend you fell for."},
				{"The Collection Collector", "Your taste is immutable now. Condolences."},
			},
		},
		{
			match: func(s Stats) bool { return s.TxCount < 10 },
			candidates: []Assignment{
				{"The Ghost", "Barely any activity. Either excellent opsec or you lost the seed phrase."},
				{"The Lurker", "Watching from the sidelines leaves the shortest paper trail. Well played."},
			},
		},
		{
			match: func(s Stats) bool { return s.TxCount > 200 },
			candidates: []Assignment{
				{"The Chain Native", "Hundreds of transactions: your daily routine, permanently published."},
				{"The Power User", "This much activity is a diary, and everyone can read it."},
			},
		},
		{
			match: func(Stats) bool { return true },
			candidates: []Assignment{
				{"The Average Anon", "Nothing remarkable — which is honestly the best privacy strategy here."},
				{"The Everyday Wallet", "A normal wallet doing normal things, watched by abnormal people."},
			},
		},
	}
}
