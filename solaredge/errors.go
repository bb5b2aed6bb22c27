package solaredge

import "fmt"

// StatusError is returned when the monitoring API answers with a status
// code of 400 or above.
type StatusError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("solaredge: unexpected status code %d from %s: %s", e.StatusCode, e.URL, e.Body)
}
