package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/dto"
	"github.com/placementai/placement-predictor/internal/middleware"
	"github.com/placementai/placement-predictor/internal/usecase"
	"github.com/placementai/placement-predictor/internal/util"
)

type AssistantHandler struct {
	interview *usecase.InterviewUsecase
}

func NewAssistantHandler(interview *usecase.InterviewUsecase) *AssistantHandler {
	return &AssistantHandler{interview: interview}
}

func (h *AssistantHandler) RegisterRoutes(app *fiber.App) {
	assistant := app.Group("/assistant", middleware.RateLimiter(20, 1*time.Minute))
	assistant.Post("/interview", h.Interview)
	assistant.Post("/guidance", h.Guidance)
	assistant.Post("/quiz", h.Quiz)
}

// Interview continues a mock-interview transcript.
func (h *AssistantHandler) Interview(c *fiber.Ctx) error {
	var req dto.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "Invalid JSON body",
		}, err)
	}

	reply, err := h.interview.MockInterview(c.Context(), req.History, req.Message)
	if err != nil {
		return h.assistantError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Data: dto.InterviewResponse{Reply: reply},
	})
}

// Guidance answers a one-shot career question.
func (h *AssistantHandler) Guidance(c *fiber.Ctx) error {
	var req dto.GuidanceRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "Invalid JSON body",
		}, err)
	}

	advice, err := h.interview.Guidance(c.Context(), req.Query)
	if err != nil {
		return h.assistantError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Data: dto.GuidanceResponse{Advice: advice},
	})
}

// Quiz generates a multiple-choice skill test.
func (h *AssistantHandler) Quiz(c *fiber.Ctx) error {
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "Invalid JSON body",
		}, err)
	}

	quiz, err := h.interview.GenerateQuiz(c.Context(), req.Skill, req.Questions)
	if err != nil {
		return h.assistantError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success generate skill quiz",
		Data:    quiz,
	})
}

func (h *AssistantHandler) assistantError(c *fiber.Ctx, err error) error {
	switch {
	case apperror.IsValidation(err):
		var ve *apperror.ValidationError
		errors.As(err, &ve)
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: ve.Message,
		})
	case isUpstream(err):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadGateway,
			Error: "Upstream service unavailable",
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Error:   "Internal server error",
			Message: err.Error(),
		}, err)
	}
}

func isUpstream(err error) bool {
	var ue *apperror.UpstreamServiceError
	return errors.As(err, &ue)
}
