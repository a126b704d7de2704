package handler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/dto"
	"github.com/placementai/placement-predictor/internal/middleware"
	"github.com/placementai/placement-predictor/internal/model"
	"github.com/placementai/placement-predictor/internal/usecase"
	"github.com/placementai/placement-predictor/internal/util"
)

type ReportHandler struct {
	analysis *usecase.AnalysisUsecase
	explorer *usecase.ExplorerUsecase
}

func NewReportHandler(analysis *usecase.AnalysisUsecase, explorer *usecase.ExplorerUsecase) *ReportHandler {
	return &ReportHandler{analysis: analysis, explorer: explorer}
}

func (h *ReportHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/reports", h.CreateMockReport)
	app.Post("/analyze/resume", middleware.RateLimiter(1, 4*time.Second), h.AnalyzeResume)
	app.Get("/users/:id", h.Student)
	app.Get("/users/:id/reports", h.History)
	app.Post("/users/:id/skill-test", h.CompleteSkillTest)
	app.Get("/tpo/students", h.StudentSummaries)
	app.Get("/tpo/roster", h.StudentRoster)
	app.Get("/tracks", h.Tracks)
	app.Get("/tracks/explore", h.Explore)
	app.Post("/tracks/seed", h.SeedTracks)
}

// CreateMockReport is the spreadsheet-sync ingestion endpoint. The wire
// contract is fixed: 400 with {success:false,error} on a missing field,
// 200 with {success:true,data:{reportId,userId,probability,recommendedTrack}}
// on success.
func (h *ReportHandler) CreateMockReport(c *fiber.Ctx) error {
	var req dto.MockReportRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "Invalid JSON body",
		}, err)
	}

	result, err := h.analysis.IngestMockReport(c.Context(), req)
	if err != nil {
		return h.reportError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Mock report added successfully",
		Data:    result,
	})
}

// AnalyzeResume accepts a resume PDF upload and runs a full analysis event.
func (h *ReportHandler) AnalyzeResume(c *fiber.Ctx) error {
	userID := c.FormValue("userId")
	if userID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "userId is required",
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "resume file is required",
		}, err)
	}
	if file.Size > 5*1024*1024 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "resume file size is too large (max 5MB)",
		})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "only PDF files are supported",
		})
	}

	savePath := filepath.Join("./uploads/resume/", filepath.Base(file.Filename))
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Error: "cannot save resume file",
		}, err)
	}

	resumeText, err := util.ExtractPDFText(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "failed to extract resume text",
		}, err)
	}

	pdf, err := os.ReadFile(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Error: "cannot read resume file",
		}, err)
	}

	report, err := h.analysis.AnalyzeResume(c.Context(), userID, model.UserProfile{
		Email:       c.FormValue("userEmail"),
		DisplayName: c.FormValue("userName"),
	}, file.Filename, pdf, resumeText)
	if err != nil {
		return h.reportError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Resume analyzed successfully",
		Data:    report,
	})
}

// History renders a user's reports ascending by creation time for the
// progress chart.
func (h *ReportHandler) History(c *fiber.Ctx) error {
	userID := c.Params("id")
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	reports, pagination, err := h.analysis.History(c.Context(), userID, page, pageSize)
	if err != nil {
		return h.reportError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get report history",
		Data:       reports,
		Pagination: pagination,
	})
}

// CompleteSkillTest amends the latest report after a remedial skill test.
func (h *ReportHandler) CompleteSkillTest(c *fiber.Ctx) error {
	var req dto.SkillTestRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "Invalid JSON body",
		}, err)
	}
	if req.Score == nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: "Missing required fields: skillName, score",
		})
	}

	result, err := h.analysis.CompleteSkillTest(c.Context(), c.Params("id"), req.SkillName, *req.Score)
	if err != nil {
		return h.reportError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Report updated after skill test",
		Data:    result,
	})
}

// Student returns one user's profile.
func (h *ReportHandler) Student(c *fiber.Ctx) error {
	user, err := h.analysis.Student(c.Context(), c.Params("id"))
	if err != nil {
		return h.reportError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get user",
		Data:    user,
	})
}

// StudentRoster lists every registered student for the TPO dashboard.
func (h *ReportHandler) StudentRoster(c *fiber.Ctx) error {
	students, err := h.analysis.StudentRoster(c.Context())
	if err != nil {
		return h.reportError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get student roster",
		Data:    students,
	})
}

// StudentSummaries backs the TPO analytics dashboard.
func (h *ReportHandler) StudentSummaries(c *fiber.Ctx) error {
	summaries, err := h.analysis.StudentSummaries(c.Context())
	if err != nil {
		return h.reportError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get student summaries",
		Data:    summaries,
	})
}

// Tracks lists the career-track catalog.
func (h *ReportHandler) Tracks(c *fiber.Ctx) error {
	results, err := h.explorer.Tracks(c.Context())
	if err != nil {
		return h.reportError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get tracks",
		Data:    results,
	})
}

// Explore answers role-explorer queries with the closest career tracks.
func (h *ReportHandler) Explore(c *fiber.Ctx) error {
	results, err := h.explorer.Explore(c.Context(), c.Query("q"), c.QueryInt("top_k", 3))
	if err != nil {
		return h.reportError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success explore tracks",
		Data:    results,
	})
}

// SeedTracks builds the embedded career-track catalog.
func (h *ReportHandler) SeedTracks(c *fiber.Ctx) error {
	if err := h.explorer.SeedTracks(c.Context()); err != nil {
		return h.reportError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success seed career tracks",
	})
}

// reportError maps the error taxonomy onto HTTP statuses and the fixed
// error envelope.
func (h *ReportHandler) reportError(c *fiber.Ctx, err error) error {
	switch {
	case apperror.IsValidation(err):
		var ve *apperror.ValidationError
		errors.As(err, &ve)
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadRequest,
			Error: ve.Message,
		})
	case errors.Is(err, apperror.ErrNothingToAmend):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusNotFound,
			Error: "No report to amend",
		})
	case errors.Is(err, apperror.ErrNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusNotFound,
			Error: "Not found",
		})
	case isUpstream(err):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusBadGateway,
			Error: "Upstream service unavailable",
		}, err)
	case apperror.IsRetryable(err):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:  fiber.StatusServiceUnavailable,
			Error: "Temporary storage failure, please retry",
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Error:   "Internal server error",
			Message: err.Error(),
		}, err)
	}
}
