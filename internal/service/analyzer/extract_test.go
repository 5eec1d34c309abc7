package analyzer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/LouYuanbo1/walletagent/internal/infra/browser/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchFromMap(bodies map[string][]byte) func(string) ([]byte, error) {
	return func(requestID string) ([]byte, error) {
		body, ok := bodies[requestID]
		if !ok {
			return nil, errors.New("no resource with given identifier")
		}
		return body, nil
	}
}

func summaryEntry(id string) types.TraceEntry {
	return types.TraceEntry{
		RequestID: id,
		URL:       "https://gmgn.ai/defi/quotation/v1/api/v1/wallet_stat/sol/abc?period=7d",
		Finished:  true,
	}
}

func holdingsEntry(id string) types.TraceEntry {
	return types.TraceEntry{
		RequestID: id,
		URL:       "https://gmgn.ai/api/v1/wallet_holdings/sol/abc?limit=50",
		Finished:  true,
	}
}

func holdingsBody(symbols ...string) []byte {
	body := `{"data":{"holdings":[`
	for i, s := range symbols {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"symbol":%q,"amount":1,"value":2}`, s)
	}
	return []byte(body + `]}}`)
}

func TestExtractNoMatches(t *testing.T) {
	extractor := newTraceExtractor(fetchFromMap(nil))
	result := extractor.Extract([]types.TraceEntry{
		{RequestID: "1", URL: "https://gmgn.ai/static/app.js", Finished: true},
		{RequestID: "2", URL: "https://gmgn.ai/api/v1/token_price/sol", Finished: true},
	})

	require.False(t, result.IsError())
	assert.Nil(t, result.Summary)
	assert.Empty(t, result.Holdings)
}

func TestExtractSummaryAndHoldings(t *testing.T) {
	bodies := map[string][]byte{
		"s1": []byte(`{"data":{"balance":12.5,"winrate":0.6}}`),
		"h1": holdingsBody("BONK", "WIF"),
	}
	extractor := newTraceExtractor(fetchFromMap(bodies))
	result := extractor.Extract([]types.TraceEntry{summaryEntry("s1"), holdingsEntry("h1")})

	require.False(t, result.IsError())
	require.NotNil(t, result.Summary)
	assert.Equal(t, 12.5, result.Summary.Number("balance"))
	require.Len(t, result.Holdings, 2)
	assert.Equal(t, "BONK", result.Holdings[0].Text("symbol", ""))
}

func TestExtractHoldingsAccumulateAcrossResponses(t *testing.T) {
	bodies := map[string][]byte{
		"h1": holdingsBody("BONK"),
		"h2": holdingsBody("WIF", "JUP"),
		"h3": holdingsBody("BONK"),
	}
	extractor := newTraceExtractor(fetchFromMap(bodies))
	result := extractor.Extract([]types.TraceEntry{
		holdingsEntry("h1"), holdingsEntry("h2"), holdingsEntry("h3"),
	})

	// 多次持仓响应只做累加,不去重
	require.Len(t, result.Holdings, 4)
}

func TestExtractOrderInsensitiveCompleteness(t *testing.T) {
	bodies := map[string][]byte{
		"h1": holdingsBody("BONK"),
		"h2": holdingsBody("WIF"),
		"h3": holdingsBody("JUP"),
	}
	entries := []types.TraceEntry{holdingsEntry("h1"), holdingsEntry("h2"), holdingsEntry("h3")}

	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, perm := range permutations {
		ordered := make([]types.TraceEntry, 0, len(perm))
		for _, i := range perm {
			ordered = append(ordered, entries[i])
		}
		extractor := newTraceExtractor(fetchFromMap(bodies))
		result := extractor.Extract(ordered)

		symbols := make(map[string]int)
		for _, h := range result.Holdings {
			symbols[h.Text("symbol", "")]++
		}
		// 任意顺序下结果都是所有匹配响应的并集
		assert.Equal(t, map[string]int{"BONK": 1, "WIF": 1, "JUP": 1}, symbols)
	}
}

func TestExtractLastSummaryWins(t *testing.T) {
	bodies := map[string][]byte{
		"s1": []byte(`{"data":{"balance":1}}`),
		"s2": []byte(`{"data":{"balance":2}}`),
	}
	extractor := newTraceExtractor(fetchFromMap(bodies))
	result := extractor.Extract([]types.TraceEntry{summaryEntry("s1"), summaryEntry("s2")})

	require.NotNil(t, result.Summary)
	assert.Equal(t, 2.0, result.Summary.Number("balance"))
}

func TestExtractFailedSummaryKeepsEarlierCapture(t *testing.T) {
	bodies := map[string][]byte{
		"s1": []byte(`{"data":{"balance":1}}`),
		"s2": []byte(`not json at all`),
	}
	extractor := newTraceExtractor(fetchFromMap(bodies))
	result := extractor.Extract([]types.TraceEntry{summaryEntry("s1"), summaryEntry("s2")})

	// 后来的坏响应不能清掉先前捕获的摘要
	require.NotNil(t, result.Summary)
	assert.Equal(t, 1.0, result.Summary.Number("balance"))
}

func TestExtractMalformedEntryDoesNotSuppressOthers(t *testing.T) {
	bodies := map[string][]byte{
		"h1":  holdingsBody("BONK"),
		"bad": []byte(`<html>gateway timeout</html>`),
		"h2":  holdingsBody("WIF"),
		"s1":  []byte(`{"data":{"balance":3}}`),
	}
	extractor := newTraceExtractor(fetchFromMap(bodies))
	result := extractor.Extract([]types.TraceEntry{
		holdingsEntry("h1"),
		holdingsEntry("bad"),
		holdingsEntry("missing-body"),
		holdingsEntry("h2"),
		summaryEntry("s1"),
	})

	require.False(t, result.IsError())
	require.NotNil(t, result.Summary)
	assert.Len(t, result.Holdings, 2)
}

func TestExtractSkipsUnfinishedEntries(t *testing.T) {
	bodies := map[string][]byte{
		"h1": holdingsBody("BONK"),
	}
	pending := holdingsEntry("h1")
	pending.Finished = false

	extractor := newTraceExtractor(fetchFromMap(bodies))
	result := extractor.Extract([]types.TraceEntry{pending})

	assert.Empty(t, result.Holdings)
}

func TestExtractSummaryMissingDataKey(t *testing.T) {
	bodies := map[string][]byte{
		"s1": []byte(`{"code":0,"message":"ok"}`),
	}
	extractor := newTraceExtractor(fetchFromMap(bodies))
	result := extractor.Extract([]types.TraceEntry{summaryEntry("s1")})

	require.False(t, result.IsError())
	assert.Nil(t, result.Summary)
}
