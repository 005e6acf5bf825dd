package envelope

import (
	"encoding/json"
	"fmt"
)

// Reason identifies why the backend rejected a request. The codes are
// part of the wire contract and arrive double-encoded inside a
// ServerError message.
type Reason int

const (
	ReasonUnknown         Reason = 0
	ReasonNoUserFound     Reason = 1
	ReasonInvalidUserInfo Reason = 2
)

func (r Reason) String() string {
	switch r {
	case ReasonNoUserFound:
		return "no user found"
	case ReasonInvalidUserInfo:
		return "invalid user info"
	default:
		return "unknown"
	}
}

// ServerError is a non-2xx response decoded into its typed form. Message
// is itself a JSON document carrying the reason code.
type ServerError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected request (HTTP %d): %s", e.Status, e.Reason())
}

// Reason unwraps the inner {"reasonCode": n} document. Anything
// unreadable or unrecognized maps to ReasonUnknown.
func (e *ServerError) Reason() Reason {
	var payload struct {
		ReasonCode int `json:"reasonCode"`
	}
	if err := json.Unmarshal([]byte(e.Message), &payload); err != nil {
		return ReasonUnknown
	}

	switch r := Reason(payload.ReasonCode); r {
	case ReasonNoUserFound, ReasonInvalidUserInfo:
		return r
	default:
		return ReasonUnknown
	}
}

// DecodeServerError parses an HTTP error body into a ServerError. A body
// that is not a valid error envelope still yields a typed error carrying
// the transport status, so callers always get something to branch on.
func DecodeServerError(status int, body []byte) *ServerError {
	var se ServerError
	if err := json.Unmarshal(body, &se); err != nil || se.Status == 0 {
		return &ServerError{Status: status, Message: string(body)}
	}
	return &se
}
