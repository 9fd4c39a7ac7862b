package handlers

import (
	appErrors "antifraud/internal/errors"
	"antifraud/internal/models"
	"antifraud/internal/services/screening"
	"antifraud/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ScreeningHandler struct {
	screeningService screening.Service
	logger           *zap.Logger
}

func NewScreeningHandler(screeningService screening.Service, logger *zap.Logger) *ScreeningHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreeningHandler{
		screeningService: screeningService,
		logger:           logger,
	}
}

// ScoreTransaction handles POST /api/antifraud/transaction.
func (h *ScreeningHandler) ScoreTransaction(c *fiber.Ctx) error {
	var input transactionRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.screeningService.Score(c.UserContext(), input.toInput())
	if err != nil {
		return h.writeError(c, "score", err)
	}

	return c.JSON(scoreResponse{
		Result: result.Verdict,
		Info:   result.Reasons,
	})
}

// SubmitFeedback handles PUT /api/antifraud/transaction.
func (h *ScreeningHandler) SubmitFeedback(c *fiber.Ctx) error {
	var input feedbackRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	feedback, err := models.ParseVerdict(input.Feedback)
	if err != nil {
		return h.writeError(c, "feedback", appErrors.ErrInvalidFeedback.
			WithFields(map[string]string{"feedback": "must be one of ALLOWED, MANUAL_PROCESSING, PROHIBITED"}).
			WithCause(err))
	}

	tx, err := h.screeningService.ApplyFeedback(c.UserContext(), input.TransactionID, feedback)
	if err != nil {
		return h.writeError(c, "feedback", err)
	}

	return c.JSON(newTransactionResponse(tx))
}

// GetHistory handles GET /api/antifraud/history.
func (h *ScreeningHandler) GetHistory(c *fiber.Ctx) error {
	txs, err := h.screeningService.History(c.UserContext())
	if err != nil {
		return h.writeError(c, "history", err)
	}
	return c.JSON(newTransactionList(txs))
}

// GetCardHistory handles GET /api/antifraud/history/:number.
func (h *ScreeningHandler) GetCardHistory(c *fiber.Ctx) error {
	txs, err := h.screeningService.HistoryByCard(c.UserContext(), c.Params("number"))
	if err != nil {
		return h.writeError(c, "history_by_card", err)
	}
	return c.JSON(newTransactionList(txs))
}

func (h *ScreeningHandler) GetLimits(c *fiber.Ctx) error {
	return c.JSON(h.screeningService.Limits())
}
