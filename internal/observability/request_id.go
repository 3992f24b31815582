package observability

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID is the correlation header consumed and echoed per request.
const HeaderRequestID = "X-Request-Id"

const requestIDKey = "request_id"

type requestIDCtxKey struct{}

// RequestID middleware assigns a correlation id to every request. An inbound
// X-Request-Id header is reused when present, otherwise a fresh UUID is
// generated. The id is mirrored onto the response, stored in the request
// context for services, and carried by every log line and error envelope.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Locals(requestIDKey, requestID)
		c.SetUserContext(context.WithValue(c.UserContext(), requestIDCtxKey{}, requestID))
		c.Set(HeaderRequestID, requestID)
		return c.Next()
	}
}

// RequestIDFromContext returns the correlation id assigned to the request.
func RequestIDFromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return "unknown"
}

// RequestIDFrom extracts the correlation id from a plain context, as passed
// down into services.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDCtxKey{}).(string); ok {
		return id
	}
	return ""
}
