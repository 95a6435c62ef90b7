package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/voxlate/voxlate/internal/models"
)

// Entry prices one model per million input/output tokens.
type Entry struct {
	Model          string
	InputPerMUSD   float64
	OutputPerMUSD  float64
	Currency       string
	caseFoldedName string
}

// Table maps model identifiers to their token prices.
type Table struct {
	entries map[string]Entry
}

var million = decimal.NewFromInt(1_000_000)

// NewTable builds a lookup table; model names are matched case-insensitively.
func NewTable(entries []Entry) *Table {
	table := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Currency == "" {
			e.Currency = "USD"
		}
		e.caseFoldedName = strings.ToLower(strings.TrimSpace(e.Model))
		if e.caseFoldedName == "" {
			continue
		}
		table.entries[e.caseFoldedName] = e
	}
	return table
}

// Estimate converts token usage into an estimated cost. Unknown models cost
// zero: metering is the remote endpoint's concern, this is a courtesy figure
// on the report.
func (t *Table) Estimate(model string, usage models.Usage) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	entry, ok := t.entries[strings.ToLower(strings.TrimSpace(model))]
	if !ok {
		return decimal.Zero
	}
	input := decimal.NewFromFloat(entry.InputPerMUSD).
		Mul(decimal.NewFromInt(int64(usage.PromptTokens))).
		Div(million)
	output := decimal.NewFromFloat(entry.OutputPerMUSD).
		Mul(decimal.NewFromInt(int64(usage.CompletionTokens))).
		Div(million)
	return input.Add(output).Round(6)
}
