package suggest

// Kind tells a host how to render and activate an Entry.
type Kind int

const (
	KindSuggestion Kind = iota
	KindFallback
	KindError
	KindHint
)

func (k Kind) String() string {
	switch k {
	case KindSuggestion:
		return "suggestion"
	case KindFallback:
		return "fallback"
	case KindError:
		return "error"
	case KindHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is a normalized result ready for display.
type Entry struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	IconPath  string `json:"icon"`
	QueryText string `json:"query_text,omitempty"`
	Kind      Kind   `json:"kind"`

	// Report is copied to the clipboard when an error entry is activated.
	Report string `json:"-"`
}

// TargetURL is the navigation URL for the entry on the given engine.
// Error and hint entries have none.
func (e Entry) TargetURL(engine Engine) string {
	switch e.Kind {
	case KindSuggestion, KindFallback:
		return engine.URLTemplate + EscapeQuery(e.Title)
	default:
		return ""
	}
}

// Candidate is what an adapter extracts from a provider response.
// PreviewURL is resolved to a local icon by the Service.
type Candidate struct {
	Title      string
	Subtitle   string
	PreviewURL string
	QueryText  string
}

func textCandidate(title string) Candidate {
	return Candidate{Title: title, QueryText: title}
}
