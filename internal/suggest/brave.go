package suggest

import "encoding/json"

type braveItem struct {
	IsEntity bool   `json:"is_entity"`
	Query    string `json:"q"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Img      string `json:"img"`
}

// parseBrave reads the rich suggestion list at index 1 of the top-level array.
// Entities carry a description and a preview image; plain items only a query.
func parseBrave(body string) ([]Candidate, error) {
	var root []json.RawMessage
	if ok, err := decodeRoot("brave", body, &root); !ok || len(root) < 2 {
		return nil, err
	}
	var items []json.RawMessage
	if ok, err := decodeRoot("brave", string(root[1]), &items); !ok {
		return nil, err
	}
	return collect(items, func(i braveItem) Candidate {
		if !i.IsEntity {
			return textCandidate(i.Query)
		}
		return Candidate{
			Title:      i.Name,
			Subtitle:   i.Desc,
			PreviewURL: i.Img,
			QueryText:  i.Name,
		}
	}), nil
}
