package suggest

import "encoding/json"

type ecosiaResponse struct {
	Suggestions []json.RawMessage `json:"suggestions"`
}

func parseEcosia(body string) ([]Candidate, error) {
	var resp ecosiaResponse
	if ok, err := decodeRoot("ecosia", body, &resp); !ok {
		return nil, err
	}
	return collect(resp.Suggestions, textCandidate), nil
}
