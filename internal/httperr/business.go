package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Code returns the business code carried by err, or "" when err is not a
// BusinessError.
func Code(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// ===============================
// Booking engine codes
// ===============================

const (
	CodeInvalidRequest        = "invalid_request"
	CodeInvalidService        = "invalid_service"
	CodeInvalidSlot           = "invalid_slot"
	CodeNoEligibleStylist     = "no_eligible_stylist"
	CodeSlotNoLongerAvailable = "slot_no_longer_available"
	CodeInvalidTransition     = "invalid_transition"
	CodeCheckInWindowClosed   = "check_in_window_closed"
	CodePaymentNotConfirmed   = "payment_not_confirmed"
	CodePaymentFailed         = "payment_failed"
	CodePaymentTimeout        = "payment_gateway_timeout"
	CodePaymentAlreadyUsed    = "payment_already_used"
	CodeInvalidBusinessHours  = "invalid_business_hours"
	CodeForbidden             = "forbidden"
	CodeNotFound              = "not_found"
)

var (
	ErrInvalidRequest        = ErrBusiness(CodeInvalidRequest)
	ErrInvalidService        = ErrBusiness(CodeInvalidService)
	ErrInvalidSlot           = ErrBusiness(CodeInvalidSlot)
	ErrNoEligibleStylist     = ErrBusiness(CodeNoEligibleStylist)
	ErrSlotNoLongerAvailable = ErrBusiness(CodeSlotNoLongerAvailable)
	ErrInvalidTransition     = ErrBusiness(CodeInvalidTransition)
	ErrCheckInWindowClosed   = ErrBusiness(CodeCheckInWindowClosed)
	ErrPaymentNotConfirmed   = ErrBusiness(CodePaymentNotConfirmed)
	ErrPaymentTimeout        = ErrBusiness(CodePaymentTimeout)
	ErrPaymentAlreadyUsed    = ErrBusiness(CodePaymentAlreadyUsed)
	ErrInvalidBusinessHours  = ErrBusiness(CodeInvalidBusinessHours)
	ErrForbidden             = ErrBusiness(CodeForbidden)
	ErrNotFound              = ErrBusiness(CodeNotFound)
)

// PaymentFailed keeps the gateway error reachable through errors.Unwrap while
// classifying it as payment_failed.
type PaymentFailed struct {
	Err error
}

func (e PaymentFailed) Error() string {
	return CodePaymentFailed + ": " + e.Err.Error()
}

func (e PaymentFailed) Unwrap() []error {
	return []error{BusinessError{Code: CodePaymentFailed}, e.Err}
}

// IsConflict reports whether err is a unique or exclusion constraint
// violation, whichever driver raised it.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}

// IsNotFound maps gorm's record-not-found onto the business taxonomy.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || IsBusiness(err, CodeNotFound)
}
