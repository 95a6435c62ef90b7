package textmetrics

import (
	"math"
	"testing"
)

func TestBLEUIdenticalSentencesScoreHundred(t *testing.T) {
	tests := []string{
		"Hello world.",
		"The quick brown fox jumps over the lazy dog.",
		"One",
	}
	for _, sentence := range tests {
		if got := BLEU(sentence, sentence); math.Abs(got-100) > 1e-9 {
			t.Fatalf("BLEU(%q, %q) = %v, want 100", sentence, sentence, got)
		}
	}
}

func TestBLEUDisjointSentencesScoreZero(t *testing.T) {
	if got := BLEU("hello world", "goodbye moon"); got != 0 {
		t.Fatalf("BLEU = %v, want 0", got)
	}
}

func TestBLEUEmptyInputs(t *testing.T) {
	if got := BLEU("", "hello"); got != 0 {
		t.Fatalf("empty reference: got %v", got)
	}
	if got := BLEU("hello", ""); got != 0 {
		t.Fatalf("empty candidate: got %v", got)
	}
}

func TestBLEUBrevityPenaltyAppliesToShortCandidates(t *testing.T) {
	reference := "the cat sat on the mat by the door"
	short := "the cat sat"
	full := BLEU(reference, reference)
	truncated := BLEU(reference, short)
	if truncated >= full {
		t.Fatalf("expected brevity penalty: truncated %v >= full %v", truncated, full)
	}
	if truncated <= 0 {
		t.Fatalf("prefix candidate should still score above zero, got %v", truncated)
	}
}

func TestBLEURepeatedWordsAreClipped(t *testing.T) {
	// A candidate made of one repeated reference word must not reach a
	// perfect unigram precision.
	got := BLEU("the cat", "the the the the")
	if got >= 100 {
		t.Fatalf("clipping failed: got %v", got)
	}
}

func TestBLEUIsCaseAndPunctuationInsensitive(t *testing.T) {
	if got := BLEU("Hello, World!", "hello world"); math.Abs(got-100) > 1e-9 {
		t.Fatalf("got %v, want 100", got)
	}
}
