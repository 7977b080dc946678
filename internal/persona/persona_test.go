package persona

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssigner(seed int64) *Assigner {
	return NewAssigner(rand.New(rand.NewSource(seed)))
}

func personalities(bandIdx int) map[string]bool {
	out := map[string]bool{}
	for _, c := range defaultBands()[bandIdx].candidates {
		out[c.Personality] = true
	}
	return out
}

func TestAssignDegenBandWinsOverNetWorth(t *testing.T) {
	a := newTestAssigner(1)
	// Qualifies for both the degen and whale bands; degen is ranked first.
	got := a.Assign(Stats{DegenScore: 85, NetWorthUSD: decimal.NewFromInt(100_000)})
	assert.True(t, personalities(0)[got.Personality], "got %q", got.Personality)
	assert.NotEmpty(t, got.Verdict)
}

func TestAssignBandMembership(t *testing.T) {
	a := newTestAssigner(7)

	cases := []struct {
		name string
		s    Stats
		band int
	}{
		{"moderate degen", Stats{DegenScore: 65, TxCount: 50}, 1},
		{"whale", Stats{NetWorthUSD: decimal.NewFromInt(60_000), TxCount: 50}, 2},
		{"comfortable", Stats{NetWorthUSD: decimal.NewFromInt(20_000), TxCount: 50}, 3},
		{"swap heavy", Stats{SwapCount: 150, TxCount: 160}, 4},
		{"nft collector", Stats{NFTCount: 30, TxCount: 50}, 5},
		{"quiet wallet", Stats{TxCount: 3}, 6},
		{"hyperactive", Stats{TxCount: 300}, 7},
		{"default", Stats{TxCount: 50}, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.Assign(tc.s)
			assert.True(t, personalities(tc.band)[got.Personality], "got %q", got.Personality)
		})
	}
}

func TestAssignDeterministicForSeed(t *testing.T) {
	s := Stats{DegenScore: 85, TxCount: 40}
	first := newTestAssigner(42).Assign(s)
	second := newTestAssigner(42).Assign(s)
	assert.Equal(t, first, second)
}

func TestFallbackRoastBands(t *testing.T) {
	a := newTestAssigner(3)

	high := a.FallbackRoast(Stats{SurveillanceScore: 85, TxCount: 40})
	assert.NotEmpty(t, high)

	empty := a.FallbackRoast(Stats{SurveillanceScore: 0, TxCount: 0})
	assert.Contains(t, empty, "empty wallet")

	low := a.FallbackRoast(Stats{SurveillanceScore: 10, TxCount: 5})
	assert.NotEmpty(t, low)
	assert.NotEqual(t, empty, low)
}

func TestParseEnrichedAllSections(t *testing.T) {
	text := `ROAST: Your wallet is an open book.
PERSONALITY: The Open Book
VERDICT: Close the book.`

	got := ParseEnriched(text, "fallback roast", Assignment{Personality: "FB", Verdict: "fb verdict"})
	assert.Equal(t, "Your wallet is an open book.", got.Roast)
	assert.Equal(t, "The Open Book", got.Personality)
	assert.Equal(t, "Close the book.", got.Verdict)
}

func TestParseEnrichedCaseAndMarkdownTolerant(t *testing.T) {
	text := "**Roast:** _Spicy_ take here.\n\n**personality:** `The Spice`\n\nVerdict : fine."

	got := ParseEnriched(text, "fb", Assignment{})
	assert.Equal(t, "Spicy take here.", got.Roast)
	assert.Equal(t, "The Spice", got.Personality)
	assert.Equal(t, "fine.", got.Verdict)
}

func TestParseEnrichedSectionsOutOfOrder(t *testing.T) {
	text := "VERDICT: last word\nROAST: burn\nPERSONALITY: The Reordered"

	got := ParseEnriched(text, "fb", Assignment{})
	assert.Equal(t, "burn", got.Roast)
	assert.Equal(t, "The Reordered", got.Personality)
	assert.Equal(t, "last word", got.Verdict)
}

func TestParseEnrichedPerFieldFallback(t *testing.T) {
	fb := Assignment{Personality: "The Fallback", Verdict: "fallback verdict"}

	// Only a roast section: personality and verdict come from the fallback.
	got := ParseEnriched("ROAST: only this", "fb roast", fb)
	assert.Equal(t, "only this", got.Roast)
	assert.Equal(t, "The Fallback", got.Personality)
	assert.Equal(t, "fallback verdict", got.Verdict)

	// No sections at all.
	got = ParseEnriched("totally unstructured reply", "fb roast", fb)
	assert.Equal(t, "fb roast", got.Roast)
	assert.Equal(t, "The Fallback", got.Personality)

	// Empty text.
	got = ParseEnriched("   ", "fb roast", fb)
	assert.Equal(t, "fb roast", got.Roast)
}

func TestParseEnrichedTruncation(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := ParseEnriched("ROAST: "+long+"\nPERSONALITY: "+long+"\nVERDICT: "+long, "fb", Assignment{})

	require.Len(t, []rune(got.Roast), MaxRoastLen)
	require.Len(t, []rune(got.Personality), MaxPersonalityLen)
	require.Len(t, []rune(got.Verdict), MaxVerdictLen)
}

func TestTruncateIsRuneSafe(t *testing.T) {
	s := strings.Repeat("é", 60)
	out := truncate(s, 50)
	assert.Equal(t, strings.Repeat("é", 50), out)
}
