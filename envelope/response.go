package envelope

import "encoding/json"

// NewResponse builds a response envelope whose body is v serialized to
// JSON text. A marshal failure degrades to a 500 error response rather
// than a half-built envelope.
func NewResponse(status int, v any) *Response {
	body := ""
	if v != nil {
		raw, err := json.Marshal(v)
		if err != nil {
			return ErrorResponse(500, "response serialization failed")
		}
		body = string(raw)
	}
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// ErrorResponse builds an error response envelope with a {"detail": ...}
// body, the shape target handlers use for every non-2xx status.
func ErrorResponse(status int, detail string) *Response {
	raw, _ := json.Marshal(map[string]string{"detail": detail})
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}
}
