package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// transcribeInstruction asks for a verbatim same-language transcript.
func transcribeInstruction() string {
	return "You are a transcription engine. Transcribe the audio verbatim in its original language. Output only the transcript, with no commentary."
}

// dubInstruction asks for target-language speech. Glossary terms are listed
// quoted so that terms containing spaces, commas or prompt-like punctuation
// cannot merge into each other or into the surrounding sentence.
func dubInstruction(targetLanguage string, glossary []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional dubbing artist. Repeat the speech in %s, preserving the tone and meaning of the original.", targetLanguage)
	if terms := quoteGlossary(glossary); len(terms) > 0 {
		fmt.Fprintf(&b, " Keep the following terms exactly as spoken, untranslated: %s.", strings.Join(terms, ", "))
	}
	return b.String()
}

// backTranslateInstruction asks for a source-language rendering of the
// dubbed audio, used as the scoring candidate.
func backTranslateInstruction(sourceLanguage string) string {
	return fmt.Sprintf("Translate the speech into %s. Output only the translation, with no commentary.", sourceLanguage)
}

func quoteGlossary(glossary []string) []string {
	quoted := make([]string, 0, len(glossary))
	for _, term := range glossary {
		term = strings.Join(strings.Fields(term), " ")
		if term == "" {
			continue
		}
		quoted = append(quoted, strconv.Quote(term))
	}
	return quoted
}
