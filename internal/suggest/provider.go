package suggest

import (
	"sort"
	"strings"
)

// ProviderKind selects the adapter that understands a provider's response.
type ProviderKind int

const (
	ProviderGoogle ProviderKind = iota
	ProviderGoogleXML
	ProviderBing
	ProviderYahoo
	ProviderDuckDuckGo
	ProviderEcosia
	ProviderBrave
	ProviderQwant
	ProviderSwissCows
)

// DefaultBingAppID is the public app id used when .secrets has none.
const DefaultBingAppID = "6D0A9B8C5100E9ECC7E11A104ADD76C10219804B"

// Provider is one suggestion API. IDs are dense and stable; the query is
// appended to EndpointTemplate.
type Provider struct {
	ID               int          `json:"id"`
	Kind             ProviderKind `json:"-"`
	Key              string       `json:"key"`
	Name             string       `json:"name"`
	EndpointTemplate string       `json:"-"`
}

var builtinProviders = []Provider{
	{0, ProviderGoogle, "google", "Google", "https://www.google.com/complete/search?client=gws-wiz&q="},
	{1, ProviderGoogleXML, "google_xml", "Old Google api", "https://www.google.com/complete/search?output=toolbar&q="},
	{2, ProviderBing, "bing", "Bing", "https://www.bingapis.com/api/v7/suggestions?appid=" + DefaultBingAppID + "&q="},
	{3, ProviderYahoo, "yahoo", "Yahoo", "https://sugg.search.yahoo.net/sg/?output=json&nresults=10&command="},
	{4, ProviderDuckDuckGo, "duckduckgo", "DuckDuckGo", "https://duckduckgo.com/ac/?type=json&q="},
	{5, ProviderEcosia, "ecosia", "Ecosia", "https://ac.ecosia.org/?q="},
	{6, ProviderBrave, "brave", "Brave", "https://search.brave.com/api/suggest?rich=true&q="},
	{7, ProviderQwant, "qwant", "Qwant", "https://api.qwant.com/v3/suggest?q="},
	{8, ProviderSwissCows, "swisscows", "SwissCows", "https://api.swisscows.com/suggest?query="},
}

// fallbackProviderID is used for any unknown provider ID.
const fallbackProviderID = 1

// Providers returns the built-in provider table in ID order.
func Providers() []Provider {
	out := make([]Provider, len(builtinProviders))
	copy(out, builtinProviders)
	return out
}

// ProviderTable is the provider list after configuration overrides.
type ProviderTable struct {
	providers []Provider
}

// NewProviderTable applies endpoint overrides keyed by provider key, name or
// numeric ID and substitutes bingAppID into the Bing endpoint.
func NewProviderTable(overrides map[string]string, bingAppID string) *ProviderTable {
	providers := Providers()
	if appID := strings.TrimSpace(bingAppID); appID != "" {
		providers[ProviderBing].EndpointTemplate = strings.Replace(
			providers[ProviderBing].EndpointTemplate, DefaultBingAppID, appID, 1)
	}
	for i := range providers {
		if endpoint, ok := lookupOverride(overrides, providers[i]); ok {
			providers[i].EndpointTemplate = endpoint
		}
	}
	return &ProviderTable{providers: providers}
}

// lookupOverride matches by key, then display name, then numeric ID. Keys
// that normalize to the same name resolve in sorted order, first wins.
func lookupOverride(overrides map[string]string, p Provider) (string, bool) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	normalized := make(map[string]string, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := normalized[key]; !seen {
			normalized[key] = strings.TrimSpace(overrides[name])
		}
	}

	for _, key := range []string{p.Key, strings.ToLower(p.Name), itoa(p.ID)} {
		if endpoint, ok := normalized[key]; ok {
			return endpoint, true
		}
	}
	return "", false
}

// Lookup returns the provider for id, or the Old Google provider when id is unknown.
func (t *ProviderTable) Lookup(id int) Provider {
	if id < 0 || id >= len(t.providers) {
		return t.providers[fallbackProviderID]
	}
	return t.providers[id]
}

// List returns the providers in ID order.
func (t *ProviderTable) List() []Provider {
	out := make([]Provider, len(t.providers))
	copy(out, t.providers)
	return out
}

// ProviderKeys returns the sorted provider keys accepted as endpoint overrides.
func ProviderKeys() []string {
	keys := make([]string, 0, len(builtinProviders))
	for _, p := range builtinProviders {
		keys = append(keys, p.Key)
	}
	sort.Strings(keys)
	return keys
}
