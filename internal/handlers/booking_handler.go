package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/dto"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/httpresp"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
	ucBooking "github.com/Seimmet/dolcie-salon/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability  *ucBooking.GetAvailability
	depositIntent *ucBooking.CreateDepositIntent
	reserve       *ucBooking.ReserveBooking
	reschedule    *ucBooking.RescheduleBooking
	updateStatus  *ucBooking.UpdateStatus
	assign        *ucBooking.AssignStylist
	checkIn       *ucBooking.CheckInBooking
	addPayment    *ucBooking.AddPayment
	get           *ucBooking.GetBooking
	list          *ucBooking.ListBookings
}

type BookingUseCases struct {
	Availability  *ucBooking.GetAvailability
	DepositIntent *ucBooking.CreateDepositIntent
	Reserve       *ucBooking.ReserveBooking
	Reschedule    *ucBooking.RescheduleBooking
	UpdateStatus  *ucBooking.UpdateStatus
	Assign        *ucBooking.AssignStylist
	CheckIn       *ucBooking.CheckInBooking
	AddPayment    *ucBooking.AddPayment
	Get           *ucBooking.GetBooking
	List          *ucBooking.ListBookings
}

func NewBookingHandler(uc BookingUseCases) *BookingHandler {
	return &BookingHandler{
		availability:  uc.Availability,
		depositIntent: uc.DepositIntent,
		reserve:       uc.Reserve,
		reschedule:    uc.Reschedule,
		updateStatus:  uc.UpdateStatus,
		assign:        uc.Assign,
		checkIn:       uc.CheckIn,
		addPayment:    uc.AddPayment,
		get:           uc.Get,
		list:          uc.List,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CustomerInfoRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	SMSConsent bool   `json:"smsConsent"`
}

type CreateBookingRequest struct {
	StyleID         uint                `json:"styleId" binding:"required"`
	VariationID     uint                `json:"variationId" binding:"required"`
	StylistID       *uint               `json:"stylistId"`
	Date            string              `json:"date" binding:"required"`
	Time            string              `json:"time" binding:"required"`
	CustomerInfo    CustomerInfoRequest `json:"customerInfo" binding:"required"`
	PaymentIntentID string              `json:"paymentIntentId" binding:"required"`
	PromoID         *uint               `json:"promoId"`
	Notes           string              `json:"notes" binding:"max=255"`
}

type DepositIntentRequest struct {
	StyleID     uint   `json:"styleId" binding:"required"`
	VariationID uint   `json:"variationId" binding:"required"`
	StylistID   *uint  `json:"stylistId"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Email       string `json:"email"`
}

// PatchBookingRequest carries exactly one change: a status, a stylist, or
// a new date and time.
type PatchBookingRequest struct {
	Status    *string `json:"status"`
	StylistID *uint   `json:"stylistId"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
}

type AddPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method" binding:"required"`
	GatewayRef string          `json:"gatewayRef"`
}

type CheckInRequest struct {
	Email string `json:"email"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	styleID, err1 := strconv.ParseUint(c.Query("styleId"), 10, 64)
	variationID, err2 := strconv.ParseUint(c.Query("variationId"), 10, 64)
	stylistID, ok1 := optionalUint(c.Query("stylistId"))
	excludeID, ok2 := optionalUint(c.Query("excludeBookingId"))
	if err1 != nil || err2 != nil || !ok1 || !ok2 {
		badRequest(c, nil)
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), availability.Query{
		Date:             c.Query("date"),
		StyleID:          uint(styleID),
		VariationID:      uint(variationID),
		StylistID:        stylistID,
		ExcludeBookingID: excludeID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  c.Query("date"),
		"slots": slots,
	})
}

// ======================================================
// DEPOSIT
// ======================================================

func (h *BookingHandler) CreateDepositIntent(c *gin.Context) {
	var req DepositIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	out, err := h.depositIntent.Execute(c.Request.Context(), ucBooking.CreateDepositIntentInput{
		StyleID:     req.StyleID,
		VariationID: req.VariationID,
		StylistID:   req.StylistID,
		Date:        req.Date,
		Time:        req.Time,
		Email:       req.Email,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.reserve.Execute(c.Request.Context(), ucBooking.ReserveBookingInput{
		Actor:       middleware.ActorFrom(c),
		StyleID:     req.StyleID,
		VariationID: req.VariationID,
		StylistID:   req.StylistID,
		Date:        req.Date,
		Time:        req.Time,
		Customer: domain.CustomerInfo{
			FullName:   req.CustomerInfo.Name,
			Email:      req.CustomerInfo.Email,
			Phone:      req.CustomerInfo.Phone,
			SMSConsent: req.CustomerInfo.SMSConsent,
		},
		PaymentIntentID: req.PaymentIntentID,
		PromoID:         req.PromoID,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, dto.NewBookingDTO(b))
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, dto.NewBookingDTO(b))
}

// List is a day schedule: ?date=YYYY-MM-DD[&stylistId=].
func (h *BookingHandler) List(c *gin.Context) {
	stylistID, ok := optionalUint(c.Query("stylistId"))
	if !ok {
		badRequest(c, nil)
		return
	}

	bookings, err := h.list.Execute(c.Request.Context(), ucBooking.ListBookingsInput{
		Actor:     middleware.ActorFrom(c),
		Date:      c.Query("date"),
		StylistID: stylistID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]dto.ScheduleItemDTO, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, dto.NewScheduleItemDTO(b))
	}
	httpresp.List(c, items)
}

// ======================================================
// PATCH
// ======================================================

func (h *BookingHandler) Patch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req PatchBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	changes := 0
	if req.Status != nil {
		changes++
	}
	if req.StylistID != nil {
		changes++
	}
	if req.Date != nil || req.Time != nil {
		changes++
		if req.Date == nil || req.Time == nil {
			badRequest(c, nil)
			return
		}
	}
	if changes != 1 {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Send exactly one of status, stylistId, or date and time.")
		return
	}

	ctx := c.Request.Context()
	actor := middleware.ActorFrom(c)

	var (
		err    error
		result interface{}
	)
	switch {
	case req.Status != nil:
		b, e := h.updateStatus.Execute(ctx, ucBooking.UpdateStatusInput{
			Actor:     actor,
			BookingID: id,
			Status:    domain.Status(strings.ToLower(strings.TrimSpace(*req.Status))),
		})
		err = e
		if e == nil {
			result = dto.NewBookingDTO(b)
		}

	case req.StylistID != nil:
		b, e := h.assign.Execute(ctx, ucBooking.AssignStylistInput{
			Actor:     actor,
			BookingID: id,
			StylistID: *req.StylistID,
		})
		err = e
		if e == nil {
			result = dto.NewBookingDTO(b)
		}

	default:
		b, e := h.reschedule.Execute(ctx, ucBooking.RescheduleBookingInput{
			Actor:     actor,
			BookingID: id,
			Date:      *req.Date,
			Time:      *req.Time,
		})
		err = e
		if e == nil {
			result = dto.NewBookingDTO(b)
		}
	}

	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.OK(c, result)
}

// ======================================================
// CHECK-IN
// ======================================================

func (h *BookingHandler) CheckIn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CheckInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	b, err := h.checkIn.Execute(c.Request.Context(), ucBooking.CheckInInput{
		Actor:     middleware.ActorFrom(c),
		BookingID: id,
		Email:     req.Email,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, dto.NewBookingDTO(b))
}

// ======================================================
// PAYMENTS
// ======================================================

func (h *BookingHandler) AddPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.addPayment.Execute(c.Request.Context(), ucBooking.AddPaymentInput{
		Actor:      middleware.ActorFrom(c),
		BookingID:  id,
		Amount:     req.Amount,
		Method:     req.Method,
		GatewayRef: req.GatewayRef,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, dto.NewBookingDTO(b))
}
