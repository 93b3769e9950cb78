package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error   string            `json:"error"`             // 에러 코드 (codes.go 참조)
	Message string            `json:"message"`           // 사용자에게 보여질 메시지
	Errors  []string          `json:"errors,omitempty"`  // 누적된 규칙 위반 목록
	Details interface{}       `json:"details,omitempty"` // 구조화된 상세 정보
	Fields  map[string]string `json:"fields,omitempty"`  // 필드별 오류 메시지
}

// RespondWithError 에러 응답 헬퍼
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithDetails attaches structured details, e.g. required vs available stock.
func RespondWithDetails(c *gin.Context, statusCode int, errorCode string, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
		Details: details,
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationError 필드 검증 오류 (400)
func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   ValidationInvalidInput,
		Message: "Invalid request body",
		Fields:  fields,
	})
}

// RespondWithSelectionErrors 번들 슬롯 선택 규칙 위반 (400)
func RespondWithSelectionErrors(c *gin.Context, errs []string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   BundleInvalidSelections,
		Message: "Invalid selections",
		Errors:  errs,
	})
}
