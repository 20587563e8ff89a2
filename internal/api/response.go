package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/game-catalog/internal/errors"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// 错误码到对外标识的映射
var errorCodes = map[apperrors.ErrorCode]string{
	apperrors.ErrNotFound:     "NOT_FOUND",
	apperrors.ErrInvalidParam: "INVALID_REQUEST",
	apperrors.ErrInvalidPage:  "INVALID_PAGE",
	apperrors.ErrFetchFailed:  "UPSTREAM_UNAVAILABLE",
	apperrors.ErrDecodeFailed: "UPSTREAM_UNAVAILABLE",
}

// handleError 把内部错误翻译成HTTP响应
func handleError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		code, exists := errorCodes[appErr.Code]
		if !exists {
			code = "INTERNAL_ERROR"
		}
		c.JSON(appErr.HTTPStatus(), ErrorResponse{
			Code:    code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "内部错误",
	})
}

// badRequest 参数错误响应
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    "INVALID_REQUEST",
		Message: message,
	})
}
