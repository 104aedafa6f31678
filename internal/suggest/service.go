package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/hession/omnisuggest/internal/config"
	"github.com/hession/omnisuggest/internal/launcher"
	"github.com/hession/omnisuggest/internal/logger"
	"github.com/hession/omnisuggest/internal/preview"
)

// PreviewResolver turns preview image URLs into local icon files.
type PreviewResolver interface {
	Purge()
	Resolve(ctx context.Context, imageURL string) (string, bool)
}

// Launcher performs the side effect of activating an entry.
type Launcher interface {
	OpenURL(target string) error
	CopyText(text string) error
}

// Selection picks the provider queried and the engine navigated to.
type Selection struct {
	Provider int
	Engine   int
}

// Service assembles entries for a query: fetch, parse, resolve previews.
// Queries are serialized so one query's purge never removes another's icons.
type Service struct {
	mu sync.Mutex

	providers *ProviderTable
	engines   Engines
	fetcher   *Fetcher
	previews  PreviewResolver
	launcher  Launcher

	selection        Selection
	alwaysShowResult bool
	defaultIcon      string
	errorIcon        string
	issueURL         string
	messages         config.LanguageMessages
}

// Option configures a Service
type Option func(*Service)

// WithPreviewResolver replaces the preview resolver built from configuration.
func WithPreviewResolver(r PreviewResolver) Option {
	return func(s *Service) {
		s.previews = r
	}
}

// WithLauncher replaces the system launcher.
func WithLauncher(l Launcher) Option {
	return func(s *Service) {
		s.launcher = l
	}
}

// WithMessages sets the user-visible texts.
func WithMessages(m config.LanguageMessages) Option {
	return func(s *Service) {
		s.messages = m
	}
}

// NewService creates a service from configuration.
func NewService(cfg *config.Config, opts ...Option) *Service {
	timeout := time.Duration(cfg.Suggest.TimeoutSeconds) * time.Second
	s := &Service{
		providers: NewProviderTable(cfg.Suggest.Endpoints, cfg.Suggest.BingAppID),
		engines:   NewEngines(cfg.Suggest.CustomEngineURL),
		fetcher:   NewFetcher(cfg.Suggest.UserAgent, timeout),
		selection: Selection{
			Provider: cfg.Suggest.Provider,
			Engine:   cfg.Suggest.Engine,
		},
		alwaysShowResult: cfg.Suggest.ShowResultAlways(),
		defaultIcon:      cfg.Icons.Default,
		errorIcon:        cfg.Icons.Error,
		issueURL:         cfg.Report.IssueURL,
		messages:         config.DefaultMessagesConfig().GetMessages(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.previews == nil {
		s.previews = preview.NewResolver(preview.Options{
			Dir:         cfg.PreviewDir(),
			UserAgent:   cfg.Suggest.UserAgent,
			MaxBytes:    cfg.Preview.MaxBytes,
			MaxIconSize: cfg.Preview.MaxIconSize,
			Timeout:     timeout,
		})
	}
	if s.launcher == nil {
		s.launcher = launcher.NewSystem()
	}
	return s
}

// Selection returns the configured provider and engine.
func (s *Service) Selection() Selection {
	return s.selection
}

// Providers returns the provider table in use.
func (s *Service) Providers() []Provider {
	return s.providers.List()
}

// Provider resolves a provider ID the same way queries do.
func (s *Service) Provider(id int) Provider {
	return s.providers.Lookup(id)
}

// Engines returns the selectable engines.
func (s *Service) Engines() []Engine {
	return s.engines.List()
}

// Engine resolves an engine ID, logging when it falls back to engine 0.
func (s *Service) Engine(id int) Engine {
	engine, ok := s.engines.Select(id)
	if !ok {
		logger.Warn("Search engine %d is not available, using %s", id, engine.Name)
	}
	return engine
}

// Query runs a query against the configured selection.
func (s *Service) Query(ctx context.Context, query string) []Entry {
	return s.QueryWith(ctx, query, s.selection)
}

// QueryWith runs a query against the given selection. It always returns at
// least one entry unless the provider had no suggestions and
// always_show_result is off.
func (s *Service) QueryWith(ctx context.Context, query string, sel Selection) []Entry {
	if blank(query) {
		return []Entry{s.hintEntry()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	provider := s.providers.Lookup(sel.Provider)
	log := logger.Zerolog().With().
		Str("query_id", xid.New().String()).
		Str("provider", provider.Key).
		Logger()
	start := time.Now()

	s.previews.Purge()

	body, err := s.fetcher.Fetch(ctx, provider.EndpointTemplate, query)
	if err != nil {
		log.Warn().Err(err).Msg("suggestion fetch failed")
		return []Entry{s.errorEntry(err)}
	}

	candidates, err := AdapterFor(provider.Kind).Parse(body)
	if err != nil {
		log.Warn().Err(err).Msg("suggestion parse failed")
		return []Entry{s.errorEntry(err)}
	}

	entries := make([]Entry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, s.suggestionEntry(ctx, c))
	}

	if len(entries) == 0 && s.alwaysShowResult {
		entries = append(entries, s.SearchEntry(query))
	}

	log.Debug().
		Int("candidates", len(candidates)).
		Dur("elapsed", time.Since(start)).
		Msg("query finished")
	return entries
}

func (s *Service) suggestionEntry(ctx context.Context, c Candidate) Entry {
	icon := s.defaultIcon
	if c.PreviewURL != "" {
		if path, ok := s.previews.Resolve(ctx, c.PreviewURL); ok {
			icon = path
		}
	}
	return Entry{
		Title:     c.Title,
		Subtitle:  c.Subtitle,
		IconPath:  icon,
		QueryText: c.QueryText,
		Kind:      KindSuggestion,
	}
}

// SearchEntry is the fallback entry that searches for the raw query.
func (s *Service) SearchEntry(query string) Entry {
	return Entry{
		Title:     query,
		Subtitle:  s.messages.FallbackSubtitle,
		IconPath:  s.defaultIcon,
		QueryText: query,
		Kind:      KindFallback,
	}
}

func (s *Service) hintEntry() Entry {
	return Entry{
		Title:    s.messages.Hint,
		Subtitle: s.messages.HintSubtitle,
		IconPath: s.defaultIcon,
		Kind:     KindHint,
	}
}

func (s *Service) errorEntry(err error) Entry {
	var qe *QueryError
	if !errors.As(err, &qe) {
		qe = networkError(err)
	}
	return Entry{
		Title:    s.messages.ErrorPrefix + ": Failed to " + qe.Op,
		Subtitle: qe.Err.Error(),
		IconPath: s.errorIcon,
		Kind:     KindError,
		Report:   qe.Report(),
	}
}

// Activate performs an entry's action. Error entries copy their report and
// open the issue page; failures there are logged and never returned.
func (s *Service) Activate(entry Entry, sel Selection) error {
	switch entry.Kind {
	case KindSuggestion, KindFallback:
		target := entry.TargetURL(s.Engine(sel.Engine))
		if err := s.launcher.OpenURL(target); err != nil {
			return fmt.Errorf("failed to open %s: %w", target, err)
		}
		return nil
	case KindError:
		if err := s.launcher.CopyText(entry.Report); err != nil {
			logger.Warn("Failed to copy error report: %v", err)
		}
		if strings.TrimSpace(s.issueURL) != "" {
			if err := s.launcher.OpenURL(s.issueURL); err != nil {
				logger.Warn("Failed to open issue page: %v", err)
			}
		}
		return nil
	default:
		return nil
	}
}

// Outcome classifies a result list for metrics: ok, empty, error or hint.
func Outcome(entries []Entry) string {
	if len(entries) == 0 {
		return "empty"
	}
	switch entries[0].Kind {
	case KindError:
		return "error"
	case KindFallback:
		return "empty"
	case KindHint:
		return "hint"
	default:
		return "ok"
	}
}
