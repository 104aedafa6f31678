package suggest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	googleJSONPrefix = "window.google.ac.h("
	googleJSONSuffix = ")"
)

// parseGoogle reads the gws-wiz JSONP response. The payload is JSON5 since
// Google emits trailing commas. Any structural problem fails the whole batch.
func parseGoogle(body string) ([]Candidate, error) {
	start := strings.Index(body, googleJSONPrefix)
	end := strings.LastIndex(body, googleJSONSuffix)
	if start == -1 || end == -1 || end < start+len(googleJSONPrefix) {
		return nil, parseError(opParseGoogle, errJSONNotFound)
	}
	payload := body[start+len(googleJSONPrefix) : end]

	var root []interface{}
	if err := json5.Unmarshal([]byte(payload), &root); err != nil {
		return nil, parseError(opParseGoogle, fmt.Errorf("invalid payload: %w", err))
	}
	if len(root) == 0 {
		return nil, parseError(opParseGoogle, errors.New("payload is an empty array"))
	}
	list, ok := root[0].([]interface{})
	if !ok {
		return nil, parseError(opParseGoogle, errors.New("suggestion list is not an array"))
	}

	candidates := make([]Candidate, 0, len(list))
	for i, item := range list {
		c, err := googleCandidate(item)
		if err != nil {
			return nil, parseError(opParseGoogle, fmt.Errorf("suggestion %d: %w", i, err))
		}
		if blank(c.Title) {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// googleCandidate handles the short form (a string, or an array shorter
// than four) and the long form whose fourth element holds zi and zs.
func googleCandidate(item interface{}) (Candidate, error) {
	switch v := item.(type) {
	case string:
		return textCandidate(Sanitize(v)), nil
	case []interface{}:
		if len(v) == 0 {
			return Candidate{}, errors.New("empty suggestion")
		}
		title, ok := v[0].(string)
		if !ok {
			return Candidate{}, errors.New("title is not a string")
		}
		c := textCandidate(Sanitize(title))
		if len(v) < 4 {
			return c, nil
		}
		details, ok := v[3].(map[string]interface{})
		if !ok {
			return Candidate{}, errors.New("details are not an object")
		}
		if zi, ok := details["zi"].(string); ok {
			c.Subtitle = Sanitize(zi)
		}
		if zs, ok := details["zs"].(string); ok {
			c.PreviewURL = zs
		}
		return c, nil
	default:
		return Candidate{}, fmt.Errorf("unexpected suggestion type %T", item)
	}
}

// parseGoogleXML reads the data attribute of every suggestion element in
// the toolbar XML response.
func parseGoogleXML(body string) ([]Candidate, error) {
	doc, err := xmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return nil, parseError(opQuery, fmt.Errorf("invalid google_xml response: %w", err))
	}
	if xmlquery.FindOne(doc, "/toplevel") == nil {
		return nil, parseError(opQuery, errors.New("invalid google_xml response: missing toplevel element"))
	}
	nodes, err := xmlquery.QueryAll(doc, "//suggestion")
	if err != nil {
		return nil, nil
	}
	candidates := make([]Candidate, 0, len(nodes))
	for _, n := range nodes {
		data := n.SelectAttr("data")
		if blank(data) {
			continue
		}
		candidates = append(candidates, textCandidate(data))
	}
	return candidates, nil
}
