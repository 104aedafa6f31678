package suggest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hession/omnisuggest/internal/logger"
)

// Adapter turns a provider's raw response body into candidates.
// Implementations are pure: they never perform I/O.
type Adapter interface {
	Parse(body string) ([]Candidate, error)
}

// AdapterFunc adapts a plain function to the Adapter interface.
type AdapterFunc func(body string) ([]Candidate, error)

func (f AdapterFunc) Parse(body string) ([]Candidate, error) {
	return f(body)
}

var adapters = map[ProviderKind]Adapter{
	ProviderGoogle:     AdapterFunc(parseGoogle),
	ProviderGoogleXML:  AdapterFunc(parseGoogleXML),
	ProviderBing:       AdapterFunc(parseBing),
	ProviderYahoo:      AdapterFunc(parseYahoo),
	ProviderDuckDuckGo: AdapterFunc(parseDuckDuckGo),
	ProviderEcosia:     AdapterFunc(parseEcosia),
	ProviderBrave:      AdapterFunc(parseBrave),
	ProviderQwant:      AdapterFunc(parseQwant),
	ProviderSwissCows:  AdapterFunc(parseSwissCows),
}

// AdapterFor returns the adapter registered for kind, defaulting to the Old Google parser.
func AdapterFor(kind ProviderKind) Adapter {
	if a, ok := adapters[kind]; ok {
		return a
	}
	return adapters[ProviderGoogleXML]
}

// decodeRoot unmarshals a provider body. A body that is not JSON at all is a
// ParseError; valid JSON of the wrong shape is logged and treated as
// carrying no suggestions.
func decodeRoot(provider, body string, v interface{}) (bool, error) {
	err := json.Unmarshal([]byte(body), v)
	if err == nil {
		return true, nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		logger.Debug("%s response has an unexpected shape: %v", provider, err)
		return false, nil
	}
	return false, parseError(opQuery, fmt.Errorf("invalid %s response: %w", provider, err))
}

// collect decodes every raw item as T and maps it to a candidate.
// Items that fail to decode or map to a blank title are skipped.
func collect[T any](items []json.RawMessage, toCandidate func(T) Candidate) []Candidate {
	out := make([]Candidate, 0, len(items))
	for _, raw := range items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		c := toCandidate(item)
		if blank(c.Title) {
			continue
		}
		out = append(out, c)
	}
	return out
}
