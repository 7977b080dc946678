package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryLookups(t *testing.T) {
	r := NewDefaultRegistry()

	meta, ok := r.LookupToken("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	require.True(t, ok)
	assert.Equal(t, "BONK", meta.Symbol)
	assert.True(t, meta.Memecoin)
	assert.True(t, r.IsMemecoin("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"))

	solMeta, ok := r.LookupToken(MintSOL)
	require.True(t, ok)
	assert.Equal(t, "SOL", solMeta.Symbol)
	assert.False(t, solMeta.Memecoin)

	name, ok := r.LookupCEX("5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9")
	require.True(t, ok)
	assert.Equal(t, "Binance", name)

	name, ok = r.LookupProtocol("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	require.True(t, ok)
	assert.Equal(t, "Raydium", name)

	assert.True(t, r.IsMixer("E1usivoQzreheDLnFBYQJ6fdjLMw2wyaDHkHBaZ4hfnh"))
	assert.True(t, r.IsMixerName("Elusiv"))
	assert.False(t, r.IsMixerName("Raydium"))
	assert.False(t, r.IsMixerName(""))

	_, ok = r.LookupToken("nonexistent")
	assert.False(t, ok)
}

func TestLabelPrecedence(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, "Binance", r.Label("5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9"))
	assert.Equal(t, "Magic Eden", r.Label("M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K"))
	assert.Equal(t, "Marinade", r.Label("MarBmsSgKXdrN1egZf5sqe1TMai9K1rChYNDJgjq7aD"))
	assert.Equal(t, "", r.Label("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"))
}

func TestIsKnownProgramExcludesCEX(t *testing.T) {
	r := NewDefaultRegistry()

	assert.True(t, r.IsKnownProgram("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"))
	assert.True(t, r.IsKnownProgram("E1usivoQzreheDLnFBYQJ6fdjLMw2wyaDHkHBaZ4hfnh"))
	// CEX hot wallets are surfaced separately, not treated as programs.
	assert.False(t, r.IsKnownProgram("5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9"))
}

func TestRegistryCopiesDataset(t *testing.T) {
	ds := Dataset{CEX: map[string]string{"addr1": "TestEx"}}
	r := NewRegistry(ds)

	ds.CEX["addr1"] = "Mutated"
	ds.CEX["addr2"] = "Injected"

	name, ok := r.LookupCEX("addr1")
	require.True(t, ok)
	assert.Equal(t, "TestEx", name)
	_, ok = r.LookupCEX("addr2")
	assert.False(t, ok)
}

func TestLoadDatasetOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refdata.yaml")
	yml := `
tokens:
  CustomMint11111111111111111111111111111111:
    symbol: CSTM
    name: Custom Coin
    memecoin: true
cex:
  5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9: Binance Renamed
mixers:
  NewMixer1111111111111111111111111111111111: Test Mixer
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	ds, err := LoadDataset(path)
	require.NoError(t, err)

	// Overlay entries win over built-ins.
	assert.Equal(t, "Binance Renamed", ds.CEX["5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9"])
	assert.Equal(t, "Coinbase", ds.CEX["H8sMJSCQxfKiFTCfDR3DUMLPwcRbM61LGFJ8N4dK3WjS"])

	meta, ok := ds.Tokens["CustomMint11111111111111111111111111111111"]
	require.True(t, ok)
	assert.Equal(t, "CSTM", meta.Symbol)
	assert.True(t, meta.Memecoin)

	assert.Equal(t, "Test Mixer", ds.Mixers["NewMixer1111111111111111111111111111111111"])
	// Built-in mixers survive the merge.
	assert.Equal(t, "Elusiv", ds.Mixers["E1usivoQzreheDLnFBYQJ6fdjLMw2wyaDHkHBaZ4hfnh"])
}

func TestLoadDatasetEmptyPathReturnsDefaults(t *testing.T) {
	ds, err := LoadDataset("")
	require.NoError(t, err)
	assert.Equal(t, "Binance", ds.CEX["5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9"])
}

func TestLoadDatasetErrors(t *testing.T) {
	_, err := LoadDataset("/nonexistent/refdata.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tokens: [not, a, map]"), 0o644))
	_, err = LoadDataset(bad)
	assert.Error(t, err)
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"))
	assert.True(t, ValidAddress(MintSOL))

	assert.False(t, ValidAddress(""))
	assert.False(t, ValidAddress("short"))
	assert.False(t, ValidAddress("0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl"))   // non-base58 chars
	assert.False(t, ValidAddress("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU7xKX")) // too long
}
