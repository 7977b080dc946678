package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletspy/walletspy/internal/classify"
	"github.com/walletspy/walletspy/internal/enrich"
	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/refdata"
	"github.com/walletspy/walletspy/internal/scoring"
)

const (
	testWallet  = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	friendA     = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	binanceHot  = "5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9"
	raydiumProg = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	bonkMint    = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestAnalyzer(opts ...Option) *Analyzer {
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return now }),
	}
	return New(DefaultConfig(), refdata.NewDefaultRegistry(), append(base, opts...)...)
}

type fakeRoast struct {
	text  string
	err   error
	calls int
}

func (f *fakeRoast) Roast(_ context.Context, _ enrich.Summary) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSocial struct {
	n   int
	err error
}

func (f *fakeSocial) Mentions(_ context.Context, _ string) (int, error) {
	return f.n, f.err
}

func TestMalformedAddressRejected(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.Analyze(context.Background(), "not-an-address!", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = a.AnalyzeFeedOnly("", nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEmptyWalletYieldsCompleteLowRiskReport(t *testing.T) {
	a := newTestAnalyzer()

	wa, err := a.AnalyzeFeedOnly(testWallet, nil, nil)
	require.NoError(t, err)

	assert.Zero(t, wa.SurveillanceScore)
	assert.Zero(t, wa.DegenScore)
	assert.Equal(t, scoring.RiskLow, wa.RiskLevel)
	assert.Equal(t, "no activity", wa.WalletAge)
	assert.Equal(t, "dormant", wa.ActivityPattern)
	assert.Empty(t, wa.PrivacyMistakes)
	assert.Empty(t, wa.IncomeSources)
	assert.NotEmpty(t, wa.Personality)
	assert.NotEmpty(t, wa.Roast)
	assert.NotEmpty(t, wa.AnalysisID)
}

func TestFreshCasualWalletScoresLow(t *testing.T) {
	a := newTestAnalyzer()
	t0 := now.AddDate(0, 0, -3).Unix()

	raw := []feed.RawActivityRecord{
		{Signature: "s1", Timestamp: t0, Type: "transfer", Source: friendA,
			Destination: testWallet, Mint: refdata.MintSOL, Amount: decimal.NewFromInt(2)},
		{Signature: "s2", Timestamp: t0 + 3600, Type: "swap",
			ProgramIDs: []string{raydiumProg}, Mint: refdata.MintUSDC,
			Amount: decimal.NewFromInt(50), Destination: testWallet},
	}
	holdings := []feed.RawHolding{
		{Mint: refdata.MintSOL, Amount: decimal.NewFromInt(2), PriceUSD: decimal.NewFromInt(150)},
	}

	wa, err := a.AnalyzeFeedOnly(testWallet, raw, holdings)
	require.NoError(t, err)

	assert.Equal(t, scoring.RiskLow, wa.RiskLevel)
	assert.Less(t, wa.SurveillanceScore, 40)
	assert.Empty(t, wa.PrivacyMistakes)
	assert.Equal(t, "fresh (under a week)", wa.WalletAge)
	assert.Equal(t, []string{"Raydium"}, wa.ProtocolsUsed)
	assert.Equal(t, 2, wa.TotalTransactions)
}

func TestCEXPassThroughRaisesRiskToHigh(t *testing.T) {
	a := newTestAnalyzer()
	t0 := now.AddDate(0, 0, -10).Unix()

	// Inbound from an exchange hot wallet, then nearly the full amount
	// forwarded within minutes.
	raw := []feed.RawActivityRecord{
		{Signature: "in", Timestamp: t0, Type: "transfer", Source: binanceHot,
			Destination: testWallet, Mint: refdata.MintSOL, Amount: decimal.NewFromInt(5)},
		{Signature: "out", Timestamp: t0 + 300, Type: "transfer", Source: testWallet,
			Destination: friendA, Mint: refdata.MintSOL, Amount: decimal.NewFromFloat(4.95)},
	}

	wa, err := a.AnalyzeFeedOnly(testWallet, raw, nil)
	require.NoError(t, err)

	types := make(map[classify.MistakeType]classify.Severity)
	for _, m := range wa.PrivacyMistakes {
		types[m.Type] = m.Severity
	}
	assert.Equal(t, classify.SeverityCritical, types[classify.MistakeQuickWithdrawal])
	assert.Contains(t, types, classify.MistakeCEXExposure)

	assert.GreaterOrEqual(t, wa.SurveillanceScore, 60)
	assert.GreaterOrEqual(t, wa.RiskLevel.Rank(), scoring.RiskHigh.Rank())
	assert.Equal(t, 1, wa.CEXInteractions)
	assert.Equal(t, []string{"Binance"}, wa.CEXNames)
}

func TestDegenTraderProfile(t *testing.T) {
	a := newTestAnalyzer()
	t0 := now.AddDate(0, 0, -5).Unix()

	var raw []feed.RawActivityRecord
	for i := 0; i < 6; i++ {
		raw = append(raw, feed.RawActivityRecord{
			Signature: fmt.Sprintf("swap%d", i), Timestamp: t0 + int64(i)*3600,
			Type: "swap", ProgramIDs: []string{raydiumProg},
			Mint: bonkMint, Amount: decimal.NewFromInt(100_000), Destination: testWallet,
		})
	}

	holdings := []feed.RawHolding{
		{Mint: bonkMint, Amount: decimal.NewFromInt(600_000), PriceUSD: decimal.NewFromFloat(0.001333)},
		{Mint: refdata.MintSOL, Amount: decimal.NewFromInt(2), PriceUSD: decimal.NewFromInt(100)},
	}
	// Unsolicited dust balances: seven tiny unknown tokens, never bought.
	for i := 0; i < 7; i++ {
		holdings = append(holdings, feed.RawHolding{
			Mint:     fmt.Sprintf("Dust%d111111111111111111111111111111111111", i),
			Amount:   decimal.NewFromInt(10),
			PriceUSD: decimal.NewFromFloat(0.04),
		})
	}

	wa, err := a.AnalyzeFeedOnly(testWallet, raw, holdings)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, wa.DegenScore, 60)

	var dustFound bool
	for _, m := range wa.PrivacyMistakes {
		if m.Type == classify.MistakeDustAttack {
			dustFound = true
		}
	}
	assert.True(t, dustFound, "dust attack mistake expected")

	// Dust tokens never appear as memecoin positions.
	for _, tr := range wa.MemecoinPnL.Trades {
		assert.Equal(t, bonkMint, tr.Mint)
	}
	require.NotEmpty(t, wa.MemecoinPnL.Trades)
}

func TestFeedOnlyDeterministicForFixedSeed(t *testing.T) {
	raw := []feed.RawActivityRecord{
		{Signature: "s1", Timestamp: now.AddDate(0, 0, -3).Unix(), Type: "transfer",
			Source: friendA, Destination: testWallet, Mint: refdata.MintSOL,
			Amount: decimal.NewFromInt(2)},
	}

	first, err := newTestAnalyzer().AnalyzeFeedOnly(testWallet, raw, nil)
	require.NoError(t, err)
	second, err := newTestAnalyzer().AnalyzeFeedOnly(testWallet, raw, nil)
	require.NoError(t, err)

	assert.Equal(t, first.SurveillanceScore, second.SurveillanceScore)
	assert.Equal(t, first.DegenScore, second.DegenScore)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.Equal(t, first.Personality, second.Personality)
	assert.Equal(t, first.Roast, second.Roast)
	assert.Equal(t, first.Verdict, second.Verdict)
	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)
}

func TestEnrichmentMergedIntoReport(t *testing.T) {
	roast := &fakeRoast{text: "ROAST: custom burn\nPERSONALITY: The Custom\nVERDICT: custom verdict"}
	social := &fakeSocial{n: 4}
	a := newTestAnalyzer(WithRoastProvider(roast), WithSocialSearcher(social))

	wa, err := a.Analyze(context.Background(), testWallet, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, roast.calls)
	assert.Equal(t, "custom burn", wa.Roast)
	assert.Equal(t, "The Custom", wa.Personality)
	assert.Equal(t, "custom verdict", wa.Verdict)
	assert.Equal(t, 4, wa.SocialMentions)
}

func TestSocialMentionsRaiseSurveillanceScore(t *testing.T) {
	raw := []feed.RawActivityRecord{
		{Signature: "s1", Timestamp: now.AddDate(0, 0, -3).Unix(), Type: "transfer",
			Source: friendA, Destination: testWallet, Mint: refdata.MintSOL,
			Amount: decimal.NewFromInt(2)},
	}

	quiet, err := newTestAnalyzer().Analyze(context.Background(), testWallet, raw, nil)
	require.NoError(t, err)

	mentioned, err := newTestAnalyzer(WithSocialSearcher(&fakeSocial{n: 9})).
		Analyze(context.Background(), testWallet, raw, nil)
	require.NoError(t, err)

	assert.Greater(t, mentioned.SurveillanceScore, quiet.SurveillanceScore)
}

func TestCollaboratorFailuresDegradeToFallback(t *testing.T) {
	roast := &fakeRoast{err: errors.New("upstream down")}
	social := &fakeSocial{err: errors.New("rate limited")}
	a := newTestAnalyzer(WithRoastProvider(roast), WithSocialSearcher(social))

	wa, err := a.Analyze(context.Background(), testWallet, nil, nil)
	require.NoError(t, err)

	assert.Zero(t, wa.SocialMentions)
	assert.NotEmpty(t, wa.Roast)
	assert.NotEmpty(t, wa.Personality)
	assert.NotEmpty(t, wa.Verdict)
}

func TestGarbageCollaboratorTextFallsBackPerField(t *testing.T) {
	roast := &fakeRoast{text: "PERSONALITY: The Partial"}
	a := newTestAnalyzer(WithRoastProvider(roast))

	wa, err := a.Analyze(context.Background(), testWallet, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "The Partial", wa.Personality)
	// Roast and verdict come from the local fallback.
	assert.NotEmpty(t, wa.Roast)
	assert.NotEmpty(t, wa.Verdict)
}
