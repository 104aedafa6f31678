package suggest

import "encoding/json"

type qwantResponse struct {
	Data struct {
		Items []json.RawMessage `json:"items"`
	} `json:"data"`
}

type qwantItem struct {
	Value string `json:"value"`
}

// parseQwant reads data.items[].value.
func parseQwant(body string) ([]Candidate, error) {
	var resp qwantResponse
	if ok, err := decodeRoot("qwant", body, &resp); !ok {
		return nil, err
	}
	return collect(resp.Data.Items, func(i qwantItem) Candidate {
		return textCandidate(i.Value)
	}), nil
}
