package suggest

import "encoding/json"

type ddgPhrase struct {
	Phrase string `json:"phrase"`
}

// parseDuckDuckGo reads a top-level array of {"phrase": ...} objects.
func parseDuckDuckGo(body string) ([]Candidate, error) {
	var items []json.RawMessage
	if ok, err := decodeRoot("duckduckgo", body, &items); !ok {
		return nil, err
	}
	return collect(items, func(p ddgPhrase) Candidate {
		return textCandidate(p.Phrase)
	}), nil
}
