package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is returned for every failed gateway call.
type Error struct {
	Status  int // 0 when the request never got a response
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway %s: %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus and PublicMessage let apperr.FromGateway classify the error.
func (e *Error) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

func (e *Error) PublicMessage() string { return e.Message }

// StatusOf returns the upstream status of err, or 0.
func StatusOf(err error) int {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Status
	}
	return 0
}

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// MessageFrom picks the most useful human readable message: a server supplied
// error/message field first, then the HTTP status line.
func MessageFrom(status int, body []byte) string {
	if msg := serverMessage(body); msg != "" {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("%d %s", status, text)
	}
	if status > 0 {
		return fmt.Sprintf("Request failed with status %d", status)
	}
	return "Request failed"
}

func serverMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, k := range []string{"error", "message", "detail", "title"} {
		switch v := payload[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]any:
			if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
