package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Error is a non-2xx response: the HTTP status plus the raw server payload.
// Callers inspect Status and, where the payload carries a human-readable
// message, surface it via Message.
type Error struct {
	Status int
	Body   json.RawMessage
}

func (e *Error) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// Message pulls a human-readable message out of the server payload, if one
// exists under the usual keys.
func (e *Error) Message() string {
	for _, key := range []string{"message", "error", "title"} {
		if v := gjson.GetBytes(e.Body, key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// IsStatus reports whether err is an API error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
