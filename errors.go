package sdk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ClientError reports caller-supplied data that violates a schema rule. It is
// raised locally and the request is never sent.
type ClientError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Field == "" {
		return "lumino: invalid request: " + e.Message
	}
	return fmt.Sprintf("lumino: invalid request: %s (field: %s)", e.Message, e.Field)
}

func invalidField(field, format string, args ...any) *ClientError {
	return &ClientError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ServerError reports a failed API call: either a response with status >= 400
// or a transport failure, in which case Status is 0 and Err holds the cause.
type ServerError struct {
	Status  int
	Message string
	Details any
	Err     error
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Status == 0 {
		return "lumino: request failed: " + e.Message
	}
	return fmt.Sprintf("lumino: server error (status %d): %s", e.Status, e.Message)
}

// Unwrap exposes the transport error, if any.
func (e *ServerError) Unwrap() error {
	return e.Err
}

func transportError(msg string, err error) *ServerError {
	return &ServerError{Message: msg + ": " + err.Error(), Err: err}
}

// decodeServerError builds a ServerError from an error response body. A JSON
// object with a "message" member supplies the message and optional "details";
// any other body becomes the message verbatim.
func decodeServerError(status int, body []byte) *ServerError {
	serverErr := &ServerError{Status: status}
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.IsObject() {
			if msg := parsed.Get("message"); msg.Exists() {
				serverErr.Message = msg.String()
				if details := parsed.Get("details"); details.Exists() && details.Type != gjson.Null {
					serverErr.Details = details.Value()
				}
				return serverErr
			}
		}
	}
	serverErr.Message = strings.TrimSpace(string(body))
	if serverErr.Message == "" {
		serverErr.Message = http.StatusText(status)
	}
	return serverErr
}

// IsClientError reports whether err is (or wraps) a ClientError.
func IsClientError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}

// IsServerError reports whether err is (or wraps) a ServerError.
func IsServerError(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}

// StatusCode returns the HTTP status carried by a ServerError, or 0.
func StatusCode(err error) int {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a ServerError with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
