package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
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

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusFor maps a business code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case CodeInvalidRequest, CodeInvalidService, CodeInvalidSlot,
		CodeNoEligibleStylist, CodeInvalidBusinessHours:
		return http.StatusBadRequest
	case CodePaymentNotConfirmed, CodePaymentFailed, CodePaymentAlreadyUsed:
		return http.StatusPaymentRequired
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSlotNoLongerAvailable, CodeInvalidTransition:
		return http.StatusConflict
	case CodeCheckInWindowClosed:
		return http.StatusUnprocessableEntity
	case CodePaymentTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusBadRequest
}
