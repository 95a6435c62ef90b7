package textmetrics

// RougeScore holds precision, recall and the F-measure for one ROUGE
// variant, each in [0,1].
type RougeScore struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Rouge1 computes unigram-overlap ROUGE between a reference and candidate.
func Rouge1(reference, candidate string) RougeScore {
	refTokens := Tokenize(reference)
	candTokens := Tokenize(candidate)
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return RougeScore{}
	}

	refCounts := make(map[string]int, len(refTokens))
	for _, tok := range refTokens {
		refCounts[tok]++
	}
	overlap := 0
	for _, tok := range candTokens {
		if refCounts[tok] > 0 {
			refCounts[tok]--
			overlap++
		}
	}
	return score(overlap, len(candTokens), len(refTokens))
}

// RougeL computes the longest-common-subsequence ROUGE between a reference
// and candidate.
func RougeL(reference, candidate string) RougeScore {
	refTokens := Tokenize(reference)
	candTokens := Tokenize(candidate)
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return RougeScore{}
	}
	return score(lcsLength(refTokens, candTokens), len(candTokens), len(refTokens))
}

func score(overlap, candLen, refLen int) RougeScore {
	if overlap == 0 {
		return RougeScore{}
	}
	precision := float64(overlap) / float64(candLen)
	recall := float64(overlap) / float64(refLen)
	return RougeScore{
		Precision: precision,
		Recall:    recall,
		F1:        2 * precision * recall / (precision + recall),
	}
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Report bundles the metrics computed for one (reference, candidate) pair.
type Report struct {
	BLEU   float64    `json:"bleu"`
	Rouge1 RougeScore `json:"rouge1"`
	RougeL RougeScore `json:"rougeL"`
}

// Score runs every supported metric over a single score pair.
func Score(reference, candidate string) Report {
	return Report{
		BLEU:   BLEU(reference, candidate),
		Rouge1: Rouge1(reference, candidate),
		RougeL: RougeL(reference, candidate),
	}
}
