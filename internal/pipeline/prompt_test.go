package pipeline

import (
	"strings"
	"testing"
)

func TestDubInstructionNamesTargetLanguage(t *testing.T) {
	got := dubInstruction("Japanese", nil)
	if !strings.Contains(got, "Japanese") {
		t.Fatalf("instruction missing target language: %q", got)
	}
	if strings.Contains(got, "untranslated") {
		t.Fatalf("glossary clause present without glossary: %q", got)
	}
}

func TestDubInstructionQuotesGlossaryTerms(t *testing.T) {
	got := dubInstruction("Spanish", []string{"GPU", "machine learning"})
	if !strings.Contains(got, `"GPU"`) {
		t.Fatalf("term not quoted: %q", got)
	}
	if !strings.Contains(got, `"machine learning"`) {
		t.Fatalf("multi-word term not quoted: %q", got)
	}
}

func TestQuoteGlossaryNeutralizesControlCharacters(t *testing.T) {
	quoted := quoteGlossary([]string{"line\nbreak", "  padded  ", "", "tab\tterm"})
	if len(quoted) != 3 {
		t.Fatalf("expected 3 terms, got %v", quoted)
	}
	for _, term := range quoted {
		if strings.ContainsAny(term, "\n\t") {
			t.Fatalf("control character leaked into prompt: %q", term)
		}
		if !strings.HasPrefix(term, `"`) || !strings.HasSuffix(term, `"`) {
			t.Fatalf("term not quoted: %q", term)
		}
	}
	if quoted[0] != `"line break"` {
		t.Fatalf("newline not collapsed: %q", quoted[0])
	}
}

func TestBackTranslateInstructionNamesSourceLanguage(t *testing.T) {
	got := backTranslateInstruction("English")
	if !strings.Contains(got, "English") {
		t.Fatalf("instruction missing source language: %q", got)
	}
}
