package llm

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt generates the system prompt for transcript cleanup.
// The service transcribes Farsi speech, so the prompt pins the output
// language explicitly; Whisper occasionally drops diacritics or mixes in
// Latin script that the cleanup pass should repair.
func BuildSystemPrompt(cfg Config) string {
	var tasks []string

	if cfg.AddPunctuation {
		tasks = append(tasks, "Add proper Persian punctuation (،, ؛, ؟)")
	}
	if cfg.RemoveStutters {
		tasks = append(tasks, "Remove stutters and repeated words/phrases")
	}
	if cfg.FixGrammar {
		tasks = append(tasks, "Fix grammar and spelling errors")
	}
	if cfg.RemoveFillerWords {
		tasks = append(tasks, "Remove filler words")
	}
	if len(tasks) == 0 {
		tasks = append(tasks, "Clean up the text while preserving meaning")
	}

	var b strings.Builder
	b.WriteString("You are a transcript cleanup assistant for Farsi (Persian) speech-to-text output.\n\n")
	b.WriteString("Tasks:\n")
	for _, task := range tasks {
		fmt.Fprintf(&b, "- %s\n", task)
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- The output must stay in Farsi\n")
	b.WriteString("- Preserve the original meaning and intent\n")
	b.WriteString("- Do not add any new information\n")
	b.WriteString("- Do not remove meaningful content\n")
	b.WriteString("- Output ONLY the cleaned text, nothing else\n")
	b.WriteString("- If the input is empty or nonsensical, return it as-is\n")

	if len(cfg.Keywords) > 0 {
		fmt.Fprintf(&b, "\nContext keywords (use correct spelling for these terms): %s\n",
			strings.Join(cfg.Keywords, ", "))
	}

	return b.String()
}

// BuildUserPrompt generates the user prompt with the text to process.
func BuildUserPrompt(text string, customPrompt string) string {
	if customPrompt != "" {
		return fmt.Sprintf("%s\n\nText to process:\n%s", customPrompt, text)
	}
	return text
}
