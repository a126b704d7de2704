package util

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/placementai/placement-predictor/internal/config"
	"github.com/placementai/placement-predictor/internal/response"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code    int
	Error   string
	Message string
	Details any
	Trace   string
}

type OrderedErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

// SuccessResponse sends the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Pagination: params.Pagination,
		Data:       params.Data,
	})
}

// ErrorResponse sends the standard error envelope. Outside production the
// underlying error and a stack trace ride along for debugging.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	resp := OrderedErrorResponse{
		Success: false,
		Error:   params.Error,
		Message: params.Message,
	}
	if config.LoadAppConfig().Env != "production" {
		if len(errs) > 0 && errs[0] != nil && resp.Message == "" {
			resp.Message = errs[0].Error()
		}
		if params.Details != nil {
			resp.Details = params.Details
		}
		if params.Trace != "" {
			resp.Trace = params.Trace
		} else if len(errs) > 0 && errs[0] != nil {
			resp.Trace = string(debug.Stack())
		}
	}

	code := params.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(resp)
}
