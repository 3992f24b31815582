package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/observability"
	apperrors "github.com/spec-kit/delivery-auth/pkg/util"
)

// errorEnvelope is the wire shape for every failure. Message is a string for
// most kinds and a list for validation failures.
type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Message    any    `json:"message"`
	Error      string `json:"error,omitempty"`
	RequestID  string `json:"requestId"`
}

// RegisterMiddlewares attaches the global pipeline: correlation id first,
// then timeout and request logging, with error translation innermost so the
// logger observes the final status code.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestID())
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the single point converting any failure into the
// structured envelope. Client errors are expected traffic and log as warnings;
// server errors log with a stack trace.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", observability.RequestIDFromContext(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			domainErr := classify(err)
			requestID := observability.RequestIDFromContext(c)
			if metrics != nil {
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			}

			envelope := errorEnvelope{
				StatusCode: domainErr.HTTPStatus,
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
				Path:       c.Path(),
				Method:     c.Method(),
				Message:    domainErr.Message,
				Error:      domainErr.Code,
				RequestID:  requestID,
			}
			if len(domainErr.Messages) > 0 {
				envelope.Message = domainErr.Messages
			}

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", domainErr.HTTPStatus),
				zap.String("code", domainErr.Code),
			}
			// Constraint violations keep their 4xx status on the wire but
			// still log at error level: they point at data integrity, not
			// client behavior.
			if domainErr.HTTPStatus >= fiber.StatusInternalServerError || domainErr.Severe {
				fields = append(fields, zap.Error(domainErr), zap.Stack("stack"))
				logger.Error("request failed", fields...)
			} else {
				logger.Warn("request rejected", fields...)
			}

			c.Status(domainErr.HTTPStatus)
			_ = c.JSON(envelope)
			err = nil
		}()
		return c.Next()
	}
}

// classify folds Fiber's own routing errors into the domain taxonomy before
// the generic translation runs.
func classify(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest:
			code = "VALIDATION_FAILED"
		}
		message := fiberErr.Message
		if message == "" {
			message = http.StatusText(fiberErr.Code)
		}
		return apperrors.NewDomainError(code, message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}
