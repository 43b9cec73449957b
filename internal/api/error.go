package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/session"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Message    string

	notFound error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the server-provided message.
func (e *Error) UserMessage() string { return e.Message }

// Unwrap maps the status code to a domain error: 401 is
// session.ErrUnauthorized, 404 is the not-found error of the endpoint.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return session.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound && e.notFound != nil:
		return e.notFound
	default:
		return nil
	}
}

func decodeError(resp *http.Response, notFound error) error {
	e := &Error{StatusCode: resp.StatusCode, notFound: notFound}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return e
	}
	msg, err := decodeMessage(data)
	if err != nil {
		// Not a JSON envelope; plain text bodies are still useful.
		if !strings.HasPrefix(strings.TrimSpace(resp.Header.Get("Content-Type")), "application/json") {
			e.Message = strings.TrimSpace(string(data))
		}
		return e
	}
	e.Message = msg
	return e
}

// decodeMessage extracts the human readable message from an error envelope
// such as {"message": "..."}, {"message": ["a", "b"]} or {"error": "..."}.
// "message" takes precedence over "error".
func decodeMessage(data []byte) (string, error) {
	var message, fallback string
	d := jx.DecodeBytes(data)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "message":
			s, err := decodeText(d)
			if err != nil {
				return errors.Wrap(err, "message")
			}
			message = s
			return nil
		case "error":
			s, err := decodeText(d)
			if err != nil {
				return errors.Wrap(err, "error")
			}
			fallback = s
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return "", err
	}
	if message == "" {
		message = fallback
	}
	return message, nil
}

// decodeText reads a string, an array of strings joined with "; ", or
// skips any other value.
func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Array:
		var parts []string
		if err := d.Arr(func(d *jx.Decoder) error {
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			parts = append(parts, s)
			return nil
		}); err != nil {
			return "", err
		}
		return strings.Join(parts, "; "), nil
	default:
		return "", d.Skip()
	}
}
