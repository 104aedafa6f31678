package suggest

import "encoding/json"

func parseSwissCows(body string) ([]Candidate, error) {
	var items []json.RawMessage
	if ok, err := decodeRoot("swisscows", body, &items); !ok {
		return nil, err
	}
	return collect(items, textCandidate), nil
}
