package service

import (
	"regexp"
	"strings"

	"github.com/d60-Lab/stockfeed/internal/model"
)

// cashtag：$TSLA 或 $TSLA:NASDAQ
var cashtagPattern = regexp.MustCompile(`\$([A-Za-z]{1,5})(?::([A-Za-z]{1,8}))?`)

// 裸 ticker：2–5 位全大写 token
var bareTickerPattern = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

var knownCrypto = map[string]struct{}{
	"BTC": {}, "ETH": {}, "SOL": {}, "DOGE": {}, "XRP": {},
	"ADA": {}, "DOT": {}, "AVAX": {}, "LINK": {}, "LTC": {},
}

// 常见英文大写词，避免把普通缩写当成标的
var tickerStopwords = map[string]struct{}{
	"THE": {}, "AND": {}, "FOR": {}, "ATH": {}, "CEO": {}, "CFO": {},
	"IPO": {}, "USA": {}, "USD": {}, "EUR": {}, "GDP": {}, "API": {},
	"IMO": {}, "FYI": {}, "LOL": {}, "ETF": {}, "SEC": {}, "FED": {},
	"YOLO": {}, "FOMO": {}, "HODL": {}, "NOT": {}, "ALL": {}, "BUY": {},
	"SELL": {}, "NEW": {}, "NOW": {}, "WOW": {},
}

// ExtractSymbols 从帖子正文提取标的符号，按首次出现序去重。
// cashtag 默认判为 STOCK（已知币种判为 CRYPTO）；
// 无 $ 前缀、无交易所上下文的裸 token 不猜类型，kind 留空。
func ExtractSymbols(body string) []model.Symbol {
	seen := make(map[string]struct{})
	var out []model.Symbol
	push := func(sym model.Symbol) {
		if _, ok := seen[sym.Ticker]; ok {
			return
		}
		seen[sym.Ticker] = struct{}{}
		out = append(out, sym)
	}

	for _, m := range cashtagPattern.FindAllStringSubmatch(body, -1) {
		ticker := strings.ToUpper(m[1])
		sym := model.Symbol{Ticker: ticker, Kind: model.SymbolKindStock}
		if _, ok := knownCrypto[ticker]; ok {
			sym.Kind = model.SymbolKindCrypto
		}
		if m[2] != "" {
			sym.Exchange = strings.ToUpper(m[2])
		}
		push(sym)
	}

	for _, ticker := range bareTickerPattern.FindAllString(body, -1) {
		if _, ok := tickerStopwords[ticker]; ok {
			continue
		}
		sym := model.Symbol{Ticker: ticker}
		if _, ok := knownCrypto[ticker]; ok {
			sym.Kind = model.SymbolKindCrypto
		}
		push(sym)
	}
	return out
}
