package backend

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
)

// APIError is a non-2xx backend reply. Detail is what the operator sees.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// TransportError means the backend never produced a reply.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewAPIError builds the error for a non-2xx reply, taking Detail from a JSON
// {"detail": ...} body when there is one.
func NewAPIError(status int, body []byte) *APIError {
	statusLine := strconv.Itoa(status) + " " + http.StatusText(status)
	detail := decodeDetail(body)
	if detail == "" {
		detail = statusLine
	}
	return &APIError{StatusCode: status, Status: statusLine, Detail: detail}
}

// decodeDetail reads the "detail" member of a JSON error body. Non-string details
// (validation error lists) are returned as raw JSON.
func decodeDetail(body []byte) string {
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return ""
	}

	var detail string
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "detail" {
			return d.Skip()
		}
		switch d.Next() {
		case jx.String:
			s, err := d.Str()
			detail = s
			return err
		case jx.Null:
			return d.Null()
		default:
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			detail = raw.String()
			return nil
		}
	})
	if err != nil {
		return ""
	}
	return detail
}
