package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
)

var messages = map[string]string{
	httperr.CodeInvalidRequest:        "Invalid request.",
	httperr.CodeInvalidService:        "No pricing for this style and variation.",
	httperr.CodeInvalidSlot:           "The requested time is not a bookable slot.",
	httperr.CodeNoEligibleStylist:     "No stylist can perform this style.",
	httperr.CodeSlotNoLongerAvailable: "This slot was just taken. Please pick another time.",
	httperr.CodeInvalidTransition:     "The booking cannot move to that status.",
	httperr.CodeCheckInWindowClosed:   "Check-in opens 30 minutes before the appointment and closes 30 minutes after.",
	httperr.CodePaymentNotConfirmed:   "The deposit payment has not been confirmed.",
	httperr.CodePaymentFailed:         "The payment provider rejected the request.",
	httperr.CodePaymentTimeout:        "The payment provider did not answer in time.",
	httperr.CodePaymentAlreadyUsed:    "This payment was already applied to a booking.",
	httperr.CodeInvalidBusinessHours:  "Business hours are invalid.",
	httperr.CodeForbidden:             "Not allowed.",
	httperr.CodeNotFound:              "Not found.",
}

// writeError renders business errors with their mapped status and hides
// everything else behind a 500.
func writeError(c *gin.Context, err error) {
	code := httperr.Code(err)
	if code == "" {
		if httperr.IsNotFound(err) {
			code = httperr.CodeNotFound
		} else {
			_ = c.Error(err)
			httperr.Internal(c, "internal_error", "Something went wrong.")
			return
		}
	}
	httperr.Write(c, httperr.StatusFor(code), code, messages[code])
}

func badRequest(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
	}
	httperr.BadRequest(c, httperr.CodeInvalidRequest, messages[httperr.CodeInvalidRequest])
}

func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.Write(c, http.StatusBadRequest, httperr.CodeInvalidRequest, "Invalid id.")
		return 0, false
	}
	return uint(v), true
}

// optionalUint parses an optional numeric query value; ok is false on
// garbage.
func optionalUint(s string) (*uint, bool) {
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return nil, false
	}
	id := uint(v)
	return &id, true
}
