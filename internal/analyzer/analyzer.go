package analyzer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/walletspy/walletspy/internal/classify"
	"github.com/walletspy/walletspy/internal/enrich"
	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/linkage"
	"github.com/walletspy/walletspy/internal/persona"
	"github.com/walletspy/walletspy/internal/refdata"
	"github.com/walletspy/walletspy/internal/report"
	"github.com/walletspy/walletspy/internal/scoring"
)

// ---------------------------------------------------------------------------
// Wallet Exposure Analyzer — orchestrates the pure pipeline and the optional
// enrichment collaborators. Always returns a complete report; enrichment
// failures degrade to local fallbacks, never to errors.
// ---------------------------------------------------------------------------

// ErrInvalidInput marks input the analyzer refuses outright. Empty or absent
// activity is NOT invalid (it yields a zero-activity report); a structurally
// broken wallet address is.
var ErrInvalidInput = fmt.Errorf("analyzer: invalid input")

// Config configures the analyzer.
type Config struct {
	Classify classify.Config `yaml:"classify"`
	Scoring  scoring.Config  `yaml:"scoring"`

	// EnrichTimeout bounds each collaborator call independently.
	EnrichTimeout time.Duration `yaml:"enrich_timeout"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Classify:      classify.DefaultConfig(),
		Scoring:       scoring.DefaultConfig(),
		EnrichTimeout: 8 * time.Second,
	}
}

// Analyzer runs full wallet exposure analyses. Safe for concurrent use: each
// invocation operates on its own value graph.
type Analyzer struct {
	config     Config
	registry   *refdata.Registry
	normalizer *feed.Normalizer
	classifier *classify.Classifier
	scorer     *scoring.Scorer
	linker     *linkage.Analyzer
	assigner   *persona.Assigner

	roast  enrich.RoastProvider // nil = disabled
	social enrich.SocialSearcher

	now func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithRoastProvider wires the generative collaborator.
func WithRoastProvider(p enrich.RoastProvider) Option {
	return func(a *Analyzer) { a.roast = p }
}

// WithSocialSearcher wires the social-search collaborator.
func WithSocialSearcher(s enrich.SocialSearcher) Option {
	return func(a *Analyzer) { a.social = s }
}

// WithRand pins the randomness source behind personality selection.
func WithRand(rng *rand.Rand) Option {
	return func(a *Analyzer) { a.assigner = persona.NewAssigner(rng) }
}

// WithClock pins the clock. Tests use this to freeze wallet-age buckets.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an analyzer over the given reference tables.
func New(config Config, registry *refdata.Registry, opts ...Option) *Analyzer {
	a := &Analyzer{
		config:     config,
		registry:   registry,
		normalizer: feed.NewNormalizer(registry),
		classifier: classify.NewClassifier(config.Classify, registry),
		scorer:     scoring.NewScorer(config.Scoring, registry),
		linker:     linkage.NewAnalyzer(registry),
		assigner:   persona.NewAssigner(rand.New(rand.NewSource(time.Now().UnixNano()))),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces the full report for one wallet, including enrichment.
func (a *Analyzer) Analyze(ctx context.Context, address string, raw []feed.RawActivityRecord, holdings []feed.RawHolding) (*report.WalletAnalysis, error) {
	if !refdata.ValidAddress(address) {
		return nil, fmt.Errorf("%w: malformed address %q", ErrInvalidInput, address)
	}
	start := a.now()

	// Social search only needs the address; run it alongside the pure
	// pipeline and join before scoring.
	mentionsCh := make(chan int, 1)
	go func() {
		mentionsCh <- a.socialMentions(ctx, address)
	}()

	f := a.normalizer.Normalize(address, raw, holdings)
	cls := a.classifier.Classify(&f)
	link := a.linker.Analyze(&f)
	mentions := <-mentionsCh

	scored := a.scorer.Score(scoring.Input{
		Feed:           &f,
		Classification: cls,
		SocialMentions: mentions,
	})

	enriched := a.enrichPersona(ctx, address, &f, cls, scored)

	wa := report.Assemble(address, &f, cls, scored, link, enriched, mentions, a.now())

	log.Info().
		Str("address", address).
		Int("surveillance_score", wa.SurveillanceScore).
		Int("degen_score", wa.DegenScore).
		Str("risk_level", string(wa.RiskLevel)).
		Int("mistakes", len(wa.PrivacyMistakes)).
		Int("skipped_records", wa.SkippedRecords).
		Dur("elapsed", a.now().Sub(start)).
		Msg("wallet analysis complete")
	return wa, nil
}

// AnalyzeFeedOnly runs the pure pipeline with no collaborator calls.
// Deterministic given a fixed randomness source and clock.
func (a *Analyzer) AnalyzeFeedOnly(address string, raw []feed.RawActivityRecord, holdings []feed.RawHolding) (*report.WalletAnalysis, error) {
	if !refdata.ValidAddress(address) {
		return nil, fmt.Errorf("%w: malformed address %q", ErrInvalidInput, address)
	}

	f := a.normalizer.Normalize(address, raw, holdings)
	cls := a.classifier.Classify(&f)
	link := a.linker.Analyze(&f)
	scored := a.scorer.Score(scoring.Input{Feed: &f, Classification: cls})

	stats := a.personaStats(&f, scored)
	fallback := a.assigner.Assign(stats)
	enriched := persona.ParseEnriched("", a.assigner.FallbackRoast(stats), fallback)

	return report.Assemble(address, &f, cls, scored, link, enriched, 0, a.now()), nil
}

// socialMentions queries the social collaborator, swallowing every failure.
func (a *Analyzer) socialMentions(ctx context.Context, address string) int {
	if a.social == nil {
		return 0
	}
	callCtx, cancel := context.WithTimeout(ctx, a.config.EnrichTimeout)
	defer cancel()

	n, err := a.social.Mentions(callCtx, address)
	if err != nil {
		log.Debug().Err(err).Str("address", address).Msg("social search unavailable, continuing without")
		return 0
	}
	return n
}

// enrichPersona calls the generative collaborator and merges its output with
// the local fallback. Any failure yields the fallback unchanged.
func (a *Analyzer) enrichPersona(ctx context.Context, address string, f *feed.NormalizedFeed, cls classify.Output, scored scoring.Result) persona.Enriched {
	stats := a.personaStats(f, scored)
	fallback := a.assigner.Assign(stats)
	fallbackRoast := a.assigner.FallbackRoast(stats)

	if a.roast == nil {
		return persona.ParseEnriched("", fallbackRoast, fallback)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.config.EnrichTimeout)
	defer cancel()

	mistakeTypes := make([]string, 0, len(cls.Mistakes))
	for _, m := range cls.Mistakes {
		mistakeTypes = append(mistakeTypes, string(m.Type))
	}
	text, err := a.roast.Roast(callCtx, enrich.Summary{
		Address:           address,
		SurveillanceScore: scored.SurveillanceScore,
		DegenScore:        scored.DegenScore,
		RiskLevel:         string(scored.RiskLevel),
		NetWorthUSD:       f.NetWorthUSD.StringFixed(2),
		TotalTransactions: len(f.Transactions),
		SwapCount:         f.SwapCount(),
		MistakeTypes:      mistakeTypes,
		CEXNames:          cls.CEXNames,
	})
	if err != nil {
		log.Debug().Err(err).Str("address", address).Msg("roast collaborator unavailable, using local fallback")
		text = ""
	}
	return persona.ParseEnriched(text, fallbackRoast, fallback)
}

func (a *Analyzer) personaStats(f *feed.NormalizedFeed, scored scoring.Result) persona.Stats {
	return persona.Stats{
		SurveillanceScore: scored.SurveillanceScore,
		DegenScore:        scored.DegenScore,
		NetWorthUSD:       f.NetWorthUSD,
		TxCount:           len(f.Transactions),
		SwapCount:         f.SwapCount(),
		NFTCount:          len(f.NFTs),
	}
}
