// Package headers defines the HTTP header names the Lumino API reads and writes.
package headers

const (
	// APIKey carries the caller's API key secret on every request.
	APIKey = "X-API-Key" //nolint:gosec // This is a header name, not a credential

	// UserAgent identifies the SDK build.
	UserAgent = "User-Agent"

	// Traceparent propagates W3C trace context when the caller's context carries a span.
	Traceparent = "Traceparent"

	// ContentType and Accept are set by the request pipeline.
	ContentType = "Content-Type"
	Accept      = "Accept"
)

// MIME types used by the request pipeline.
const (
	JSON = "application/json"
)
