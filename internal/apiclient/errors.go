package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindTransport Kind = "transport"
	KindNotFound  Kind = "not_found"
	KindClient    Kind = "client"
	KindServer    Kind = "server"
	KindDecode    Kind = "decode"
)

var ErrNotFound = errors.New("resource not found")

// RequestError describes a failed API call. StatusCode is zero for
// transport and decode failures that happened before a response arrived.
type RequestError struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// KindOf returns the classification of err, or "" when err did not come from
// this package.
func KindOf(err error) Kind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindClient
	}
}
