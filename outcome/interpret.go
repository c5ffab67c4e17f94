package outcome

import (
	"encoding/json"
	"errors"
	"fmt"

	"storywire/envelope"
	"storywire/invoker"
)

// Interpret decodes the raw response envelope and classifies its status.
//
// The body is double-encoded: the outer document carries it as a JSON
// string which is decoded a second time — against v for 2xx statuses, and
// as an error document for everything else. Pass a nil v to skip result
// decoding for operations whose body is irrelevant.
func Interpret(raw []byte, v any) Outcome {
	var resp envelope.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Outcome{Kind: DecodeFailure, Err: fmt.Errorf("malformed response envelope: %w", err)}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if v != nil {
			if err := json.Unmarshal([]byte(resp.Body), v); err != nil {
				return Outcome{
					Kind:   DecodeFailure,
					Status: resp.StatusCode,
					Err:    fmt.Errorf("response body did not match expected shape: %w", err),
				}
			}
		}
		return Outcome{Kind: Success, Status: resp.StatusCode}
	case resp.StatusCode == 404:
		return Outcome{Kind: Absent, Status: resp.StatusCode}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Outcome{Kind: ClientError, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		return Outcome{Kind: ServerError, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	default:
		return Outcome{
			Kind:   DecodeFailure,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status code %d", resp.StatusCode),
		}
	}
}

// FromInvokeError maps an invocation client failure onto the outcome
// taxonomy. Timeout and transport conditions pass through unchanged.
func FromInvokeError(err error) Outcome {
	if errors.Is(err, invoker.ErrTimeout) {
		return Outcome{Kind: Timeout, Err: err}
	}
	return Outcome{Kind: TransportFailure, Err: err}
}

// errorMessage extracts the target's error text verbatim. Targets disagree
// on the field name ("detail" from the shipped data-service handlers,
// "error" or "message" elsewhere), so all three are tried before falling
// back to the raw body.
func errorMessage(body string) string {
	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if s, ok := doc[key].(string); ok && s != "" {
				return s
			}
		}
	}
	// The body may itself be a JSON-encoded plain string.
	var s string
	if err := json.Unmarshal([]byte(body), &s); err == nil && s != "" {
		return s
	}
	return body
}
