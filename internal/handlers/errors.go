package handlers

import (
	"errors"

	appErrors "antifraud/internal/errors"
	"antifraud/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind appErrors.Kind) int {
	switch kind {
	case appErrors.KindValidation:
		return fiber.StatusBadRequest
	case appErrors.KindNotFound:
		return fiber.StatusNotFound
	case appErrors.KindConflict:
		return fiber.StatusConflict
	case appErrors.KindUnprocessableFeedback:
		return fiber.StatusUnprocessableEntity
	case appErrors.KindCollaborator:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *ScreeningHandler) writeError(c *fiber.Ctx, operation string, err error) error {
	var domainErr *appErrors.DomainError
	if !errors.As(err, &domainErr) {
		h.logger.Error("unexpected failure",
			zap.String("operation", operation),
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		return response.ServerError(c, "Internal server error")
	}

	status := StatusFor(domainErr.Kind)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("collaborator failure",
			zap.String("operation", operation),
			zap.String("request_id", requestID(c)),
			zap.String("code", domainErr.Code),
			zap.Bool("retryable", domainErr.Retryable),
			zap.Error(err),
		)
	}
	return response.Fail(c, status, domainErr.Code, domainErr.Message, domainErr.Fields)
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
