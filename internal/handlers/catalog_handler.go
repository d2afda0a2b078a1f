package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/httpresp"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

// CacheFlusher drops every cached availability listing.
type CacheFlusher interface {
	InvalidateAll(ctx context.Context)
}

type CatalogHandler struct {
	db    *gorm.DB
	cache CacheFlusher
	audit *audit.Dispatcher
}

func NewCatalogHandler(db *gorm.DB, cache CacheFlusher, auditDispatcher *audit.Dispatcher) *CatalogHandler {
	return &CatalogHandler{db: db, cache: cache, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateStyleRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
}

type UpdateStyleRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type CreatePricingRequest struct {
	StyleID         uint            `json:"styleId" binding:"required"`
	VariationID     uint            `json:"variationId" binding:"required"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"durationMinutes" binding:"required,min=1"`
}

// UpdatePricingRequest never touches existing bookings; they keep the
// price and duration they were reserved with.
type UpdatePricingRequest struct {
	Price           *decimal.Decimal `json:"price,omitempty"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
}

// --------- Public ---------

// Public lists what can be booked: active styles with their priced
// variations, and the active stylists with the styles they perform.
func (h *CatalogHandler) Public(c *gin.Context) {
	ctx := c.Request.Context()

	var styles []models.Style
	if err := h.db.WithContext(ctx).
		Preload("Pricing", func(db *gorm.DB) *gorm.DB { return db.Order("price ASC") }).
		Preload("Pricing.Variation").
		Where("active = ?", true).
		Order("name ASC").
		Find(&styles).Error; err != nil {
		writeError(c, err)
		return
	}

	var stylists []models.Stylist
	if err := h.db.WithContext(ctx).
		Preload("Styles").
		Where("active = ?", true).
		Order("id ASC").
		Find(&stylists).Error; err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"styles":   styles,
		"stylists": stylists,
	})
}

// --------- Styles ---------

func (h *CatalogHandler) CreateStyle(c *gin.Context) {
	var req CreateStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	style := models.Style{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Active:      true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&style).Error; err != nil {
		if httperr.IsConflict(err) {
			httperr.Write(c, http.StatusConflict, "style_exists", "A style with this name already exists.")
			return
		}
		writeError(c, err)
		return
	}

	h.record(c, "style_created", "style", style.ID, style.Name)
	httpresp.Created(c, style)
}

// UpdateStyle retires a style by deactivating it. Styles are never deleted
// since bookings keep pointing at them.
func (h *CatalogHandler) UpdateStyle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var style models.Style
	if err := h.db.WithContext(c.Request.Context()).First(&style, id).Error; err != nil {
		writeError(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		badRequest(c, nil)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(&style).Updates(updates).Error; err != nil {
		if httperr.IsConflict(err) {
			httperr.Write(c, http.StatusConflict, "style_exists", "A style with this name already exists.")
			return
		}
		writeError(c, err)
		return
	}
	var fresh models.Style
	if err := h.db.WithContext(c.Request.Context()).First(&fresh, id).Error; err != nil {
		writeError(c, err)
		return
	}

	if req.Active != nil {
		h.flushCache(c)
	}
	h.record(c, "style_updated", "style", style.ID, updates)
	c.JSON(http.StatusOK, fresh)
}

// --------- Pricing ---------

func (h *CatalogHandler) ListPricing(c *gin.Context) {
	styleID, ok := optionalUint(c.Query("styleId"))
	if !ok {
		badRequest(c, nil)
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("Style").
		Preload("Variation")
	if styleID != nil {
		q = q.Where("style_id = ?", *styleID)
	}

	var rows []models.Pricing
	if err := q.Order("style_id ASC, variation_id ASC").Find(&rows).Error; err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *CatalogHandler) CreatePricing(c *gin.Context) {
	var req CreatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Price.IsNegative() {
		badRequest(c, nil)
		return
	}

	p := models.Pricing{
		StyleID:         req.StyleID,
		VariationID:     req.VariationID,
		Price:           req.Price.Round(2),
		DurationMinutes: req.DurationMinutes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		if httperr.IsConflict(err) {
			httperr.Write(c, http.StatusConflict, "pricing_exists", "This style and variation already have a price.")
			return
		}
		writeError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "pricing_created", "pricing", p.ID, map[string]any{
		"price":            p.Price.String(),
		"duration_minutes": p.DurationMinutes,
	})
	httpresp.Created(c, p)
}

func (h *CatalogHandler) UpdatePricing(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var p models.Pricing
	if err := h.db.WithContext(c.Request.Context()).First(&p, id).Error; err != nil {
		writeError(c, err)
		return
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			badRequest(c, nil)
			return
		}
		p.Price = req.Price.Round(2)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			badRequest(c, nil)
			return
		}
		p.DurationMinutes = *req.DurationMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&p).Error; err != nil {
		writeError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "pricing_updated", "pricing", p.ID, map[string]any{
		"price":            p.Price.String(),
		"duration_minutes": p.DurationMinutes,
	})
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) record(c *gin.Context, action, entity string, id uint, meta any) {
	actor := middleware.ActorFrom(c)
	h.audit.Dispatch(audit.Event{
		ActorID:   actor.UserID,
		ActorRole: string(actor.Role),
		Action:    action,
		Entity:    entity,
		EntityID:  &id,
		Metadata:  meta,
	})
}

func (h *CatalogHandler) flushCache(c *gin.Context) {
	if h.cache != nil {
		h.cache.InvalidateAll(c.Request.Context())
	}
}
