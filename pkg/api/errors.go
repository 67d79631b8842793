package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// DefaultErrorMessage is reported when a failed response carries no message.
const DefaultErrorMessage = "Unexpected error while communicating with the API."

const unauthorizedMessage = "Unauthorized."

var (
	// ErrUnauthorized matches HTTP 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches HTTP 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrServer matches every other non-2xx response.
	ErrServer = errors.New("server error")
	// ErrDecode is returned when a 2xx body cannot be parsed.
	ErrDecode = errors.New("unparsable response")
	// ErrTransport wraps network failures.
	ErrTransport = errors.New("transport failure")
)

// Error is a non-2xx API response. Message is meant for the user.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match the status class.
func (e *Error) Unwrap() []error {
	switch e.Status {
	case http.StatusUnauthorized:
		return []error{ErrUnauthorized}
	case http.StatusNotFound:
		return []error{ErrNotFound, ErrServer}
	default:
		return []error{ErrServer}
	}
}

// Message extracts a user-facing message from any client error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return DefaultErrorMessage
}

// errorFromBody builds an *Error from a failed response body. The API sends
// {"message": "..."}; validation failures may send a list of messages.
func errorFromBody(status int, body []byte) *Error {
	msg := ""
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Message) > 0 {
		var single string
		var many []string
		switch {
		case json.Unmarshal(payload.Message, &single) == nil:
			msg = single
		case json.Unmarshal(payload.Message, &many) == nil:
			msg = strings.Join(many, "; ")
		}
	}

	if msg == "" {
		if status == http.StatusUnauthorized {
			msg = unauthorizedMessage
		} else {
			msg = DefaultErrorMessage
		}
	}
	return &Error{Status: status, Message: msg}
}
