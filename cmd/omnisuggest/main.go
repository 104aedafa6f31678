package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hession/omnisuggest/internal/cli"
	"github.com/hession/omnisuggest/internal/config"
	"github.com/hession/omnisuggest/internal/logger"
	"github.com/hession/omnisuggest/internal/server"
	"github.com/hession/omnisuggest/internal/suggest"
)

var (
	version = "0.1.0"

	// git commit used for this build; supplied at compile time
	gitCommit string
)

type options struct {
	configDir string
	provider  int
	engine    int
	jsonOut   bool
	index     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "omnisuggest [query]",
		Short: "omnisuggest - search suggestions from many engines",
		Long: `omnisuggest fetches as-you-type search suggestions from one of nine providers
and opens the chosen one with the search engine of your choice.

Providers: Google, Old Google api, Bing, Yahoo, DuckDuckGo, Ecosia, Brave, Qwant, SwissCows`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.configDir != "" {
				config.SetConfigDir(opts.configDir)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			_, svc, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			sel := opts.selection(svc)
			entries := svc.QueryWith(cmd.Context(), strings.Join(args, " "), sel)
			engine := svc.Engine(sel.Engine)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries, engine)
			}
			return writeTable(cmd.OutOrStdout(), entries, engine)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "configuration directory (default ./config)")
	rootCmd.PersistentFlags().IntVarP(&opts.provider, "provider", "p", -1, "suggestion provider id (default from config)")
	rootCmd.PersistentFlags().IntVarP(&opts.engine, "engine", "e", -1, "search engine id (default from config)")
	rootCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print entries as JSON")

	// interactive subcommand
	interactiveCmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Search with suggestions as you type",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()
			return cli.Run(svc, opts.selection(svc))
		},
	}

	// open subcommand
	openCmd := &cobra.Command{
		Use:   "open <query>",
		Short: "Open a suggestion for the query with the search engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			sel := opts.selection(svc)
			query := strings.Join(args, " ")
			entries := svc.QueryWith(cmd.Context(), query, sel)
			entry, err := pick(entries, opts.index)
			if err != nil {
				return err
			}
			if err := svc.Activate(entry, sel); err != nil {
				return err
			}
			if target := entry.TargetURL(svc.Engine(sel.Engine)); target != "" {
				fmt.Fprintln(cmd.OutOrStdout(), target)
			}
			return nil
		},
	}
	openCmd.Flags().IntVarP(&opts.index, "index", "n", 1, "1-based position of the entry to open")

	// serve subcommand
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve suggestions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()
			return server.New(svc, cfg, version, gitCommit).Run()
		},
	}

	// providers subcommand
	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List suggestion providers and search engines",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()
			writeCatalog(cmd.OutOrStdout(), svc, opts.selection(svc))
			return nil
		},
	}

	// config subcommand
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.String())

			path, _ := config.ConfigPath()
			fmt.Fprintf(cmd.OutOrStdout(), "\nConfig file path: %s\n", path)
			return nil
		},
	}

	// version subcommand
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "omnisuggest v%s\n", version)
		},
	}

	rootCmd.AddCommand(interactiveCmd, openCmd, serveCmd, providersCmd, configCmd, versionCmd)
	return rootCmd
}

// selection applies the --provider and --engine flags over the configured selection.
func (o *options) selection(svc *suggest.Service) suggest.Selection {
	sel := svc.Selection()
	if o.provider >= 0 {
		sel.Provider = o.provider
	}
	if o.engine >= 0 {
		sel.Engine = o.engine
	}
	return sel
}

// setup loads configuration, starts logging and builds the service
func setup() (*config.Config, *suggest.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(logger.Config{
		LogDir:     config.LogDir(),
		Level:      level,
		MaxDays:    cfg.Log.MaxDays,
		ConsoleOut: cfg.Log.Console,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logConfigInfo(cfg)

	messages, err := config.LoadMessagesConfig()
	if err != nil {
		logger.Warn("Using default messages: %v", err)
		messages = config.DefaultMessagesConfig()
	}

	svc := suggest.NewService(cfg, suggest.WithMessages(messages.GetMessages()))
	return cfg, svc, nil
}

// logConfigInfo records the effective configuration without secrets
func logConfigInfo(cfg *config.Config) {
	bing := "default"
	if cfg.IsBingAppIDConfigured() {
		bing = "from " + cfg.Suggest.BingAppIDSource
	}
	logger.Info("omnisuggest v%s starting", version)
	logger.Info("Suggest: provider=%d engine=%d always_show_result=%v timeout=%ds bing_app_id=%s",
		cfg.Suggest.Provider, cfg.Suggest.Engine, cfg.Suggest.ShowResultAlways(),
		cfg.Suggest.TimeoutSeconds, bing)
	if len(cfg.Suggest.Endpoints) > 0 {
		logger.Info("Suggest: %d endpoint override(s)", len(cfg.Suggest.Endpoints))
	}
	logger.Info("Preview: dir=%s max_bytes=%d max_icon_size=%d",
		cfg.PreviewDir(), cfg.Preview.MaxBytes, cfg.Preview.MaxIconSize)
}

func pick(entries []suggest.Entry, index int) (suggest.Entry, error) {
	if index < 1 || index > len(entries) {
		return suggest.Entry{}, fmt.Errorf("no entry at position %d (%d available)", index, len(entries))
	}
	return entries[index-1], nil
}

func writeTable(w io.Writer, entries []suggest.Entry, engine suggest.Engine) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range entries {
		detail := e.Subtitle
		if target := e.TargetURL(engine); target != "" && detail == "" {
			detail = target
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, e.Title, detail)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, entries []suggest.Entry, engine suggest.Engine) error {
	type jsonEntry struct {
		suggest.Entry
		TargetURL string `json:"target_url,omitempty"`
	}
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry{Entry: e, TargetURL: e.TargetURL(engine)})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCatalog(w io.Writer, svc *suggest.Service, sel suggest.Selection) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Providers:")
	current := svc.Provider(sel.Provider).ID
	for _, p := range svc.Providers() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", marker(p.ID == current), p.ID, p.Name, p.Key)
	}
	fmt.Fprintln(tw, "\nEngines:")
	currentEngine := svc.Engine(sel.Engine).ID
	for _, e := range svc.Engines() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", marker(e.ID == currentEngine), e.ID, e.Name, e.URLTemplate)
	}
	tw.Flush()
}

func marker(selected bool) string {
	if selected {
		return "*"
	}
	return " "
}
