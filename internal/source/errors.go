package source

import "errors"

// ConnectionError indicates the database transport could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "source: connection failed: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError indicates the database answered but the result was malformed.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string { return "source: query failed: " + e.Err.Error() }
func (e *QueryError) Unwrap() error { return e.Err }

// FetchError indicates a network or HTTP failure against the scraped site.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string { return "source: fetch failed: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError indicates the fetched page lacked the expected listing
// structure entirely. Malformed individual listings are skipped instead.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "source: parse failed: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// FailureKind names the adapter failure class for logging.
func FailureKind(err error) string {
	var (
		connErr  *ConnectionError
		queryErr *QueryError
		fetchErr *FetchError
		parseErr *ParseError
	)
	switch {
	case errors.As(err, &connErr):
		return "connection"
	case errors.As(err, &queryErr):
		return "query"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "unknown"
	}
}
