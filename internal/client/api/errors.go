package api

import (
	"fmt"
	"net/http"

	"github.com/mkalvans/farmline/internal/common"
)

// StatusError is returned for non-2xx backend responses. Message holds the
// server-supplied {"message": ...} text when present; errors.Is matching
// against the common sentinels works through Unwrap.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case e.Code == http.StatusNotFound:
		return common.ErrNotFound
	case e.Code >= 500:
		return common.ErrUnavailable
	default:
		return nil
	}
}
