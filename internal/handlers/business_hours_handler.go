package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	"github.com/Seimmet/dolcie-salon/internal/domain/calendar"
	"github.com/Seimmet/dolcie-salon/internal/infra/repository"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type BusinessHoursHandler struct {
	repo  *repository.SettingsGormRepository
	cache CacheFlusher
	audit *audit.Dispatcher
}

func NewBusinessHoursHandler(
	repo *repository.SettingsGormRepository,
	cache CacheFlusher,
	auditDispatcher *audit.Dispatcher,
) *BusinessHoursHandler {
	return &BusinessHoursHandler{repo: repo, cache: cache, audit: auditDispatcher}
}

type BusinessDayConfig struct {
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	IsOpen     bool   `json:"isOpen"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
}

type BusinessHoursUpdateRequest struct {
	Days []BusinessDayConfig `json:"days" binding:"required,max=7,dive"`
}

func (h *BusinessHoursHandler) Get(c *gin.Context) {
	hours, err := h.repo.ListBusinessHours(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

// Update replaces the weekly table. Days left out are closed.
func (h *BusinessHoursHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	seen := map[int]bool{}
	hours := make([]models.BusinessHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[*d.Weekday] {
			badRequest(c, nil)
			return
		}
		seen[*d.Weekday] = true

		hours = append(hours, models.BusinessHours{
			Weekday:    *d.Weekday,
			IsOpen:     d.IsOpen,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	if _, err := calendar.NewRules(hours, nil); err != nil {
		writeError(c, err)
		return
	}

	if err := h.repo.ReplaceBusinessHours(ctx, hours); err != nil {
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
		Action:    "business_hours_updated",
		Entity:    "business_hours",
		Metadata:  req.Days,
	})

	saved, err := h.repo.ListBusinessHours(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
