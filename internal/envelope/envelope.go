// Package envelope implements the backend's response wrapper: an outer
// {status, message} document whose message field is itself a JSON string
// holding the real payload. Decoding is explicitly two-stage so callers
// can tell an unreadable envelope apart from an unreadable payload.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEnvelopeDecode means the outer {status, message} document could
	// not be decoded.
	ErrEnvelopeDecode = errors.New("response envelope decode failed")

	// ErrMessageDecode means the envelope was fine but its message field
	// could not be decoded into the expected payload type.
	ErrMessageDecode = errors.New("envelope message decode failed")

	// ErrEmptyMessage means the envelope carried no usable payload.
	// This is an expected "no data" signal, not a protocol violation.
	ErrEmptyMessage = errors.New("envelope message is empty")
)

// Response is the outer wrapper returned by every backend endpoint.
// Message is kept raw; Parse performs the second decode stage.
type Response struct {
	Status  int             `json:"status"`
	Message json.RawMessage `json:"message"`
}

// Decode reads the outer envelope from a raw response body.
func Decode(body []byte) (*Response, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrEnvelopeDecode)
	}

	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelopeDecode, err)
	}
	return &r, nil
}

// Parse decodes the envelope message into T.
//
// The backend double-encodes: message is normally a JSON string whose
// contents are another JSON document. When message is not a string the
// raw value is decoded directly, which matches the original contract of
// round-tripping non-string values through JSON.
func Parse[T any](r *Response) (T, error) {
	var v T

	if r == nil || isEmptyRaw(r.Message) {
		return v, ErrEmptyMessage
	}

	inner := []byte(r.Message)
	if inner[0] == '"' {
		var s string
		if err := json.Unmarshal(r.Message, &s); err != nil {
			return v, fmt.Errorf("%w: %v", ErrMessageDecode, err)
		}
		if strings.TrimSpace(s) == "" {
			return v, ErrEmptyMessage
		}
		inner = []byte(s)
	}

	if err := json.Unmarshal(inner, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMessageDecode, err)
	}
	return v, nil
}

func isEmptyRaw(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == `""`
}

// Seal builds the outgoing envelope for a payload, applying the
// double-encoding the wire contract requires: the payload is marshalled
// to JSON and that document is embedded as a JSON string.
func Seal(status int, payload any) (*Response, error) {
	inner, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}

	msg, err := json.Marshal(string(inner))
	if err != nil {
		return nil, fmt.Errorf("seal message: %w", err)
	}

	return &Response{Status: status, Message: msg}, nil
}
