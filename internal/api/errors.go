package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed exchange.
type Kind int

const (
	// KindTransport covers network failures and cancelled contexts.
	KindTransport Kind = iota
	// KindServer is a non-2xx answer.
	KindServer
	// KindMalformed is a 2xx answer whose body could not be decoded.
	KindMalformed
)

// String returns a human-readable kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the single error shape returned by Client. Message holds the
// backend's own explanation when it sent one, and is empty otherwise.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		if e.Message != "" {
			return fmt.Sprintf("api: server returned %d: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("api: server returned %d", e.Status)
	case KindMalformed:
		return fmt.Sprintf("api: malformed response: %v", e.Err)
	default:
		return fmt.Sprintf("api: transport: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// MessageOf returns the backend-supplied message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// extractMessage pulls a readable message out of an error body. The
// "error" field wins over "detail"; a FastAPI validation detail list
// contributes its first msg.
func extractMessage(body []byte) string {
	var env struct {
		Error  json.RawMessage `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}

	if s := rawString(env.Error); s != "" {
		return s
	}
	if s := rawString(env.Detail); s != "" {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if len(env.Detail) > 0 && json.Unmarshal(env.Detail, &items) == nil {
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				return m
			}
		}
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
