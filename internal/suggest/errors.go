package suggest

import (
	"errors"
)

// ErrorKind separates transport failures from undecodable responses.
type ErrorKind int

const (
	NetworkError ErrorKind = iota
	ParseError
)

func (k ErrorKind) String() string {
	if k == ParseError {
		return "parse"
	}
	return "network"
}

const (
	opQuery       = "query the Search Suggestions API"
	opParseGoogle = "parse Google Search Suggestions API response"
)

var errJSONNotFound = errors.New("JSON data not found")

// QueryError is a failure the user is told about through an error entry.
type QueryError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *QueryError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Report is the text copied to the clipboard for an issue report.
func (e *QueryError) Report() string {
	return "Failed to " + e.Op + ": " + e.Err.Error()
}

func networkError(err error) *QueryError {
	return &QueryError{Kind: NetworkError, Op: opQuery, Err: err}
}

func parseError(op string, err error) *QueryError {
	return &QueryError{Kind: ParseError, Op: op, Err: err}
}
