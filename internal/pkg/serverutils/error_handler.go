package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

// ErrorHandlerMiddleware maps service errors onto HTTP statuses:
// invalid → 400, not found → 404, transient upstream → 503, permanent
// upstream → 502, everything else → 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch apperror.KindOf(err) {
		case apperror.KindInvalid:
			status = fiber.StatusBadRequest
		case apperror.KindNotFound:
			status = fiber.StatusNotFound
		case apperror.KindTransientUpstream:
			status = fiber.StatusServiceUnavailable
		case apperror.KindPermanentUpstream:
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(ErrorResponse(apperror.MessageOf(err)))
	}
}
