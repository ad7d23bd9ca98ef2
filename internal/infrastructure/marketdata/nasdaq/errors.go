package nasdaq

import "fmt"

// FetchError reports a page that could not be retrieved: the request failed
// in transport, the site answered with a non-200 status, or the body was not
// readable HTML. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
