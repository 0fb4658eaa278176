package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor maps a business error kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation, KindBusiness:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err as a JSON error. Business errors keep their code;
// anything else is logged and reported as fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode string) {
	if be, ok := AsBusiness(err); ok {
		Write(c, StatusFor(be.Kind), be.Code, Message(be.Code))
		return
	}

	zap.L().Error("request failed",
		zap.String("path", c.FullPath()),
		zap.String("code", fallbackCode),
		zap.Error(err),
	)
	Internal(c, fallbackCode, "Internal error.")
}
