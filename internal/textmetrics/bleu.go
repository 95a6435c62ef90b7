package textmetrics

import (
	"math"
	"strings"
)

const maxNGramOrder = 4

// BLEU scores a candidate sentence against a reference on the 0-100 scale:
// geometric mean of modified n-gram precisions up to 4-grams, multiplied by
// the brevity penalty. A candidate identical to the reference scores 100.
func BLEU(reference, candidate string) float64 {
	refTokens := Tokenize(reference)
	candTokens := Tokenize(candidate)
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	// Cap the order for short sentences so a perfect two-word candidate is
	// not zeroed out by empty 3-gram and 4-gram counts.
	order := maxNGramOrder
	if len(candTokens) < order {
		order = len(candTokens)
	}
	if len(refTokens) < order {
		order = len(refTokens)
	}

	logPrecisionSum := 0.0
	for n := 1; n <= order; n++ {
		matched, total := clippedMatches(refTokens, candTokens, n)
		if matched == 0 {
			return 0
		}
		logPrecisionSum += math.Log(float64(matched) / float64(total))
	}

	bp := 1.0
	if len(candTokens) < len(refTokens) {
		bp = math.Exp(1 - float64(len(refTokens))/float64(len(candTokens)))
	}

	return 100 * bp * math.Exp(logPrecisionSum/float64(order))
}

// clippedMatches counts candidate n-grams that also occur in the reference,
// clipping each n-gram's credit at its reference count.
func clippedMatches(refTokens, candTokens []string, n int) (matched, total int) {
	refCounts := ngramCounts(refTokens, n)
	for gram, count := range ngramCounts(candTokens, n) {
		total += count
		if refCount, ok := refCounts[gram]; ok {
			if count > refCount {
				count = refCount
			}
			matched += count
		}
	}
	return matched, total
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x1f")]++
	}
	return counts
}
