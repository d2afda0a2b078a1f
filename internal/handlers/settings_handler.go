package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/infra/repository"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
)

type SettingsHandler struct {
	repo  *repository.SettingsGormRepository
	cache CacheFlusher
	audit *audit.Dispatcher
}

func NewSettingsHandler(
	repo *repository.SettingsGormRepository,
	cache CacheFlusher,
	auditDispatcher *audit.Dispatcher,
) *SettingsHandler {
	return &SettingsHandler{repo: repo, cache: cache, audit: auditDispatcher}
}

type UpdateSettingsRequest struct {
	Name                 *string          `json:"name"`
	Email                *string          `json:"email"`
	Phone                *string          `json:"phone"`
	Timezone             *string          `json:"timezone"`
	Currency             *string          `json:"currency"`
	DepositAmount        *decimal.Decimal `json:"depositAmount"`
	ProcessingFeeRate    *decimal.Decimal `json:"processingFeeRate"`
	SlotIntervalMinutes  *int             `json:"slotIntervalMinutes"`
	MinAdvanceMinutes    *int             `json:"minAdvanceMinutes"`
	CheckInWindowMinutes *int             `json:"checkInWindowMinutes"`
	NotificationsEnabled *bool            `json:"notificationsEnabled"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.repo.GetSettings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.repo.GetSettings(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		s.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		s.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || *req.Timezone == "" {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		s.Timezone = *req.Timezone
	}
	if req.Currency != nil {
		cur := strings.ToLower(strings.TrimSpace(*req.Currency))
		if len(cur) != 3 {
			badRequest(c, nil)
			return
		}
		s.Currency = cur
	}
	if req.DepositAmount != nil {
		if req.DepositAmount.IsNegative() {
			badRequest(c, nil)
			return
		}
		s.DepositAmount = req.DepositAmount.Round(2)
	}
	if req.ProcessingFeeRate != nil {
		if req.ProcessingFeeRate.IsNegative() || req.ProcessingFeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			badRequest(c, nil)
			return
		}
		s.ProcessingFeeRate = *req.ProcessingFeeRate
	}
	if req.SlotIntervalMinutes != nil {
		if *req.SlotIntervalMinutes < 5 || *req.SlotIntervalMinutes > 240 {
			badRequest(c, nil)
			return
		}
		s.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			badRequest(c, nil)
			return
		}
		s.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.CheckInWindowMinutes != nil {
		if *req.CheckInWindowMinutes <= 0 {
			badRequest(c, nil)
			return
		}
		s.CheckInWindowMinutes = *req.CheckInWindowMinutes
	}
	if req.NotificationsEnabled != nil {
		s.NotificationsEnabled = *req.NotificationsEnabled
	}

	if err := h.repo.SaveSettings(ctx, s); err != nil {
		writeError(c, err)
		return
	}

	if h.cache != nil {
		h.cache.InvalidateAll(ctx)
	}

	actor := middleware.ActorFrom(c)
	h.audit.Dispatch(audit.Event{
		ActorID:   actor.UserID,
		ActorRole: string(actor.Role),
		Action:    "settings_updated",
		Entity:    "salon_settings",
		EntityID:  &s.ID,
		Metadata:  req,
	})

	c.JSON(http.StatusOK, s)
}
