package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"

	"github.com/hession/omnisuggest/internal/suggest"
)

const (
	Version = "0.1.0"

	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"

	defaultQueryTimeout = 3 * time.Second
)

// Session is an interactive as-you-type search session. Every keystroke
// queries the selected provider; Enter activates the chosen entry.
type Session struct {
	svc          *suggest.Service
	sel          suggest.Selection
	out          io.Writer
	queryTimeout time.Duration

	lastText    string
	lastEntries []suggest.Entry
	quit        bool
}

// NewSession creates a session writing its output to out
func NewSession(svc *suggest.Service, sel suggest.Selection, out io.Writer) *Session {
	return &Session{
		svc:          svc,
		sel:          sel,
		out:          out,
		queryTimeout: defaultQueryTimeout,
	}
}

// Run starts the interactive interface
func Run(svc *suggest.Service, sel suggest.Selection) error {
	printWelcome(os.Stdout)

	s := NewSession(svc, sel, os.Stdout)
	p := prompt.New(
		s.Execute,
		s.Complete,
		prompt.OptionTitle("omnisuggest"),
		prompt.OptionPrefix("search> "),
		prompt.OptionPrefixTextColor(prompt.Cyan),
		prompt.OptionMaxSuggestion(10),
		prompt.OptionSetExitCheckerOnInput(s.shouldExit),
	)
	p.Run()
	return nil
}

// printWelcome prints welcome message
func printWelcome(w io.Writer) {
	fmt.Fprintf(w, "\n%s🔎 omnisuggest v%s%s - search suggestions as you type\n", colorCyan, Version, colorReset)
	fmt.Fprintf(w, "%sType /help for help, /exit to quit%s\n\n", colorGray, colorReset)
}

func (s *Session) shouldExit(_ string, breakline bool) bool {
	return breakline && s.quit
}

// Complete is the go-prompt completer.
func (s *Session) Complete(d prompt.Document) []prompt.Suggest {
	return s.complete(d.TextBeforeCursor())
}

func (s *Session) complete(text string) []prompt.Suggest {
	if strings.HasPrefix(text, "/") {
		return prompt.FilterHasPrefix(commandSuggests(), text, true)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if text != s.lastText {
		ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
		s.lastEntries = s.svc.QueryWith(ctx, text, s.sel)
		s.lastText = text
		cancel()
	}

	suggests := make([]prompt.Suggest, 0, len(s.lastEntries))
	for _, e := range s.lastEntries {
		suggests = append(suggests, prompt.Suggest{
			Text:        e.Title,
			Description: truncateForDisplay(e.Subtitle, 60),
		})
	}
	return suggests
}

// Execute is the go-prompt executor: commands start with "/", anything else
// activates the matching entry or searches for the raw text.
func (s *Session) Execute(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	if strings.HasPrefix(input, "/") {
		s.handleCommand(input)
		return
	}

	entry := s.pick(input)
	if err := s.svc.Activate(entry, s.sel); err != nil {
		fmt.Fprintf(s.out, "%s❌ Error: %v%s\n", colorRed, err, colorReset)
		return
	}
	switch entry.Kind {
	case suggest.KindError:
		fmt.Fprintf(s.out, "%s📋 Error report copied to the clipboard%s\n", colorYellow, colorReset)
	default:
		fmt.Fprintf(s.out, "%s↗ %s%s\n", colorGreen, entry.TargetURL(s.svc.Engine(s.sel.Engine)), colorReset)
	}
}

func (s *Session) pick(input string) suggest.Entry {
	for _, e := range s.lastEntries {
		if e.Title == input && e.Kind != suggest.KindHint {
			return e
		}
	}
	return s.svc.SearchEntry(input)
}

// handleCommand handles built-in commands
func (s *Session) handleCommand(cmd string) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		printHelp(s.out)

	case "/exit", "/quit", "/q":
		fmt.Fprintf(s.out, "%sGoodbye! 👋%s\n", colorCyan, colorReset)
		s.quit = true

	case "/providers":
		s.printProviders()

	case "/engines":
		s.printEngines()

	case "/provider":
		if len(parts) < 2 {
			p := s.svc.Provider(s.sel.Provider)
			fmt.Fprintf(s.out, "Provider: %d %s\n", p.ID, p.Name)
			return
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			fmt.Fprintf(s.out, "%s❓ Not a provider number: %s%s\n", colorYellow, parts[1], colorReset)
			return
		}
		s.sel.Provider = id
		s.resetCache()
		p := s.svc.Provider(id)
		fmt.Fprintf(s.out, "%s✅ Suggestions from %s%s\n", colorGreen, p.Name, colorReset)

	case "/engine":
		if len(parts) < 2 {
			e := s.svc.Engine(s.sel.Engine)
			fmt.Fprintf(s.out, "Engine: %d %s\n", e.ID, e.Name)
			return
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			fmt.Fprintf(s.out, "%s❓ Not an engine number: %s%s\n", colorYellow, parts[1], colorReset)
			return
		}
		s.sel.Engine = id
		e := s.svc.Engine(id)
		fmt.Fprintf(s.out, "%s✅ Searching with %s%s\n", colorGreen, e.Name, colorReset)

	default:
		fmt.Fprintf(s.out, "%s❓ Unknown command: %s%s\n", colorYellow, cmd, colorReset)
		fmt.Fprintln(s.out, "Type /help for available commands")
	}
}

func (s *Session) resetCache() {
	s.lastText = ""
	s.lastEntries = nil
}

func (s *Session) printProviders() {
	for _, p := range s.svc.Providers() {
		marker := " "
		if p.ID == s.svc.Provider(s.sel.Provider).ID {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %2d  %s\n", marker, p.ID, p.Name)
	}
}

func (s *Session) printEngines() {
	current := s.svc.Engine(s.sel.Engine).ID
	for _, e := range s.svc.Engines() {
		marker := " "
		if e.ID == current {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %2d  %s\n", marker, e.ID, e.Name)
	}
}

// printHelp prints help information
func printHelp(w io.Writer) {
	fmt.Fprintf(w, `
%s📚 omnisuggest Help%s

%sBuilt-in Commands:%s
  /providers      - List suggestion providers
  /provider [n]   - Show or select the suggestion provider
  /engines        - List search engines
  /engine [n]     - Show or select the search engine
  /help           - Show this help message
  /exit           - Exit program

%sInput Tips:%s
  • Suggestions update as you type
  • Use Tab or Up/Down to choose a suggestion
  • Press Enter to open it with the selected search engine
  • Choosing an ERROR entry copies a report for the issue tracker

`, colorCyan, colorReset, colorYellow, colorReset, colorYellow, colorReset)
}
