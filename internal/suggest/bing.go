package suggest

import "encoding/json"

type bingResponse struct {
	SuggestionGroups []struct {
		SearchSuggestions []json.RawMessage `json:"searchSuggestions"`
	} `json:"suggestionGroups"`
}

type bingSuggestion struct {
	DisplayText string `json:"displayText"`
}

// parseBing reads suggestionGroups[0].searchSuggestions[].displayText.
func parseBing(body string) ([]Candidate, error) {
	var resp bingResponse
	if ok, err := decodeRoot("bing", body, &resp); !ok || len(resp.SuggestionGroups) == 0 {
		return nil, err
	}
	return collect(resp.SuggestionGroups[0].SearchSuggestions, func(s bingSuggestion) Candidate {
		return textCandidate(s.DisplayText)
	}), nil
}
