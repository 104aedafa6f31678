package suggest

import "encoding/json"

type yahooResponse struct {
	Gossip struct {
		Results []json.RawMessage `json:"results"`
	} `json:"gossip"`
}

type yahooResult struct {
	Key string `json:"key"`
}

// parseYahoo reads gossip.results[].key.
func parseYahoo(body string) ([]Candidate, error) {
	var resp yahooResponse
	if ok, err := decodeRoot("yahoo", body, &resp); !ok {
		return nil, err
	}
	return collect(resp.Gossip.Results, func(r yahooResult) Candidate {
		return textCandidate(r.Key)
	}), nil
}
