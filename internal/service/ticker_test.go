package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/stockfeed/internal/model"
)

func TestExtractSymbols(t *testing.T) {
	t.Run("cashtag is a stock", func(t *testing.T) {
		syms := ExtractSymbols("loading up on $tsla before earnings")
		require.Len(t, syms, 1)
		assert.Equal(t, "TSLA", syms[0].Ticker)
		assert.Equal(t, model.SymbolKindStock, syms[0].Kind)
	})

	t.Run("cashtag with exchange", func(t *testing.T) {
		syms := ExtractSymbols("$TSLA:NASDAQ breaking out")
		require.Len(t, syms, 1)
		assert.Equal(t, "NASDAQ", syms[0].Exchange)
	})

	t.Run("known crypto", func(t *testing.T) {
		syms := ExtractSymbols("$BTC and ETH both pumping")
		require.Len(t, syms, 2)
		assert.Equal(t, model.SymbolKindCrypto, syms[0].Kind)
		assert.Equal(t, model.SymbolKindCrypto, syms[1].Kind)
	})

	t.Run("bare token keeps kind undefined", func(t *testing.T) {
		syms := ExtractSymbols("NVDA looks strong this week")
		require.Len(t, syms, 1)
		assert.Equal(t, "NVDA", syms[0].Ticker)
		assert.Empty(t, syms[0].Kind)
	})

	t.Run("stopwords skipped", func(t *testing.T) {
		assert.Empty(t, ExtractSymbols("THE CEO did an IPO FYI"))
	})

	t.Run("dedupe keeps first occurrence", func(t *testing.T) {
		syms := ExtractSymbols("$TSLA is my pick, TSLA all the way, also $NVDA")
		require.Len(t, syms, 2)
		assert.Equal(t, "TSLA", syms[0].Ticker)
		assert.Equal(t, model.SymbolKindStock, syms[0].Kind)
		assert.Equal(t, "NVDA", syms[1].Ticker)
	})

	t.Run("no symbols", func(t *testing.T) {
		assert.Empty(t, ExtractSymbols("just vibes today"))
	})
}
