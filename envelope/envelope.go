// Package envelope defines the synthetic HTTP-shaped request and response
// envelopes that ride the invocation substrate.
//
// A Request is the "envelope" for every cross-service call. It is shaped like
// a gateway-proxied HTTP event so the receiving router can dispatch it exactly
// as if it had arrived over a real HTTP listener. The Body field is a
// JSON-encoded string, not nested JSON: the payload is serialized once into
// text and the envelope is serialized again around it.
package envelope

// Request carries one outbound call across the substrate.
//
//   - Built fresh per call by the Builder, never mutated after dispatch,
//     never reused across calls.
//   - Body is nil for parameter-less GET-style operations.
type Request struct {
	Resource              string            `json:"resource"`
	Path                  string            `json:"path"`
	HTTPMethod            string            `json:"httpMethod"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	PathParameters        map[string]string `json:"pathParameters"`
	RequestContext        RequestContext    `json:"requestContext"`
	Body                  *string           `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
}

// RequestContext is the synthetic caller-identity block. Targets do not
// require every field, but some routers inspect parts of it, so the Builder
// always populates it rather than leaving each call site to improvise.
type RequestContext struct {
	Stage            string   `json:"stage"`
	RequestID        string   `json:"requestId"`
	RequestTimeEpoch int64    `json:"requestTimeEpoch"`
	ResourcePath     string   `json:"resourcePath"`
	HTTPMethod       string   `json:"httpMethod"`
	Protocol         string   `json:"protocol"`
	Identity         Identity `json:"identity"`
}

// Identity names the calling service to the target.
type Identity struct {
	SourceIP  string `json:"sourceIp"`
	UserAgent string `json:"userAgent"`
}

// Response is what a target returns: a status code plus a body that is
// itself JSON-encoded text requiring a second decode step.
// Consumed exactly once by the outcome interpreter, then discarded.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}
