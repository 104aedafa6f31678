package cli

import (
	"strings"

	prompt "github.com/c-bata/go-prompt"
)

// CommandSuggestion a built-in command offered by auto-completion
type CommandSuggestion struct {
	Text        string
	Description string
}

// GetCommandSuggestions returns the built-in commands
func GetCommandSuggestions() []CommandSuggestion {
	return []CommandSuggestion{
		{Text: "/providers", Description: "List suggestion providers"},
		{Text: "/provider", Description: "Show or select the suggestion provider"},
		{Text: "/engines", Description: "List search engines"},
		{Text: "/engine", Description: "Show or select the search engine"},
		{Text: "/help", Description: "Show help"},
		{Text: "/exit", Description: "Exit program"},
	}
}

func commandSuggests() []prompt.Suggest {
	cmds := GetCommandSuggestions()
	out := make([]prompt.Suggest, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, prompt.Suggest{Text: c.Text, Description: c.Description})
	}
	return out
}

// truncateForDisplay flattens text to one line and cuts it at maxLen runes
func truncateForDisplay(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
