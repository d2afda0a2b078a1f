package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/httpresp"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

var errUnknownReference = errors.New("unknown style or pricing")

// --------- Requests ---------

type StylistStyleRequest struct {
	StyleID   uint             `json:"styleId" binding:"required"`
	Surcharge *decimal.Decimal `json:"surcharge"`
}

type CreateStylistRequest struct {
	Name              string                `json:"name" binding:"required,max=100"`
	Email             string                `json:"email" binding:"omitempty,email,max=100"`
	Phone             string                `json:"phone" binding:"max=20"`
	SkillLevel        string                `json:"skillLevel" binding:"max=20"`
	UserID            *uint                 `json:"userId"`
	Active            *bool                 `json:"active"`
	SurchargeEligible bool                  `json:"surchargeEligible"`
	Surcharge         decimal.Decimal       `json:"surcharge"`
	Styles            []StylistStyleRequest `json:"styles" binding:"dive"`
}

// UpdateStylistRequest replaces the capable styles only when Styles is sent.
type UpdateStylistRequest struct {
	Name              *string                `json:"name"`
	Email             *string                `json:"email"`
	Phone             *string                `json:"phone"`
	SkillLevel        *string                `json:"skillLevel"`
	UserID            *uint                  `json:"userId"`
	Active            *bool                  `json:"active"`
	SurchargeEligible *bool                  `json:"surchargeEligible"`
	Surcharge         *decimal.Decimal       `json:"surcharge"`
	Styles            *[]StylistStyleRequest `json:"styles"`
}

type VariationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreatePromoRequest struct {
	Title              string          `json:"title" binding:"required,max=100"`
	PricingID          uint            `json:"pricingId" binding:"required"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	PromoPrice         decimal.Decimal `json:"promoPrice"`
	Month              int             `json:"month" binding:"min=0,max=12"`
	Year               int             `json:"year" binding:"min=0"`
	EndsAt             *time.Time      `json:"endsAt"`
	Active             *bool           `json:"active"`
}

type UpdatePromoRequest struct {
	Title              *string          `json:"title"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	PromoPrice         *decimal.Decimal `json:"promoPrice"`
	Month              *int             `json:"month"`
	Year               *int             `json:"year"`
	EndsAt             *time.Time       `json:"endsAt"`
	Active             *bool            `json:"active"`
}

// --------- Stylists ---------

func (h *CatalogHandler) ListStylists(c *gin.Context) {
	var rows []models.Stylist
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Styles").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *CatalogHandler) CreateStylist(c *gin.Context) {
	var req CreateStylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Surcharge.IsNegative() {
		badRequest(c, nil)
		return
	}

	styles, ok := stylistStyles(req.Styles)
	if !ok {
		badRequest(c, nil)
		return
	}

	st := models.Stylist{
		Name:              strings.TrimSpace(req.Name),
		Email:             req.Email,
		Phone:             req.Phone,
		SkillLevel:        req.SkillLevel,
		UserID:            req.UserID,
		Active:            req.Active == nil || *req.Active,
		SurchargeEligible: req.SurchargeEligible,
		Surcharge:         req.Surcharge.Round(2),
		Styles:            styles,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := requireStyles(tx, styles); err != nil {
			return err
		}
		return tx.Create(&st).Error
	})
	if err != nil {
		h.writeStylistError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "stylist_created", "stylist", st.ID, stylistAudit(st))
	httpresp.Created(c, st)
}

func (h *CatalogHandler) UpdateStylist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Surcharge != nil && req.Surcharge.IsNegative() {
		badRequest(c, nil)
		return
	}

	var styles []models.StylistStyle
	if req.Styles != nil {
		if styles, ok = stylistStyles(*req.Styles); !ok {
			badRequest(c, nil)
			return
		}
	}

	var st models.Stylist
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&st, id).Error; err != nil {
			return err
		}

		if req.Name != nil {
			st.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			st.Email = *req.Email
		}
		if req.Phone != nil {
			st.Phone = *req.Phone
		}
		if req.SkillLevel != nil {
			st.SkillLevel = *req.SkillLevel
		}
		if req.UserID != nil {
			st.UserID = req.UserID
		}
		if req.Active != nil {
			st.Active = *req.Active
		}
		if req.SurchargeEligible != nil {
			st.SurchargeEligible = *req.SurchargeEligible
		}
		if req.Surcharge != nil {
			st.Surcharge = req.Surcharge.Round(2)
		}

		if err := tx.Omit("Styles").Save(&st).Error; err != nil {
			return err
		}

		if req.Styles == nil {
			return nil
		}
		if err := requireStyles(tx, styles); err != nil {
			return err
		}
		if err := tx.Where("stylist_id = ?", st.ID).Delete(&models.StylistStyle{}).Error; err != nil {
			return err
		}
		for i := range styles {
			styles[i].StylistID = st.ID
		}
		if len(styles) == 0 {
			return nil
		}
		return tx.Create(&styles).Error
	})
	if err != nil {
		h.writeStylistError(c, err)
		return
	}

	var fresh models.Stylist
	if err := h.db.WithContext(c.Request.Context()).Preload("Styles").First(&fresh, id).Error; err != nil {
		writeError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "stylist_updated", "stylist", fresh.ID, stylistAudit(fresh))
	c.JSON(http.StatusOK, fresh)
}

// stylistStyles rejects a style listed twice.
func stylistStyles(in []StylistStyleRequest) ([]models.StylistStyle, bool) {
	seen := map[uint]bool{}
	out := make([]models.StylistStyle, 0, len(in))
	for _, s := range in {
		if seen[s.StyleID] {
			return nil, false
		}
		seen[s.StyleID] = true

		ss := models.StylistStyle{StyleID: s.StyleID}
		if s.Surcharge != nil {
			if s.Surcharge.IsNegative() {
				return nil, false
			}
			v := s.Surcharge.Round(2)
			ss.Surcharge = &v
		}
		out = append(out, ss)
	}
	return out, true
}

func requireStyles(tx *gorm.DB, styles []models.StylistStyle) error {
	if len(styles) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(styles))
	for _, s := range styles {
		ids = append(ids, s.StyleID)
	}

	var n int64
	if err := tx.Model(&models.Style{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return errUnknownReference
	}
	return nil
}

func (h *CatalogHandler) writeStylistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUnknownReference):
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Unknown style.")
	case httperr.IsConflict(err):
		httperr.Write(c, http.StatusConflict, "stylist_user_taken", "This user is already linked to a stylist.")
	default:
		writeError(c, err)
	}
}

func stylistAudit(st models.Stylist) map[string]any {
	styles := make([]uint, 0, len(st.Styles))
	for _, s := range st.Styles {
		styles = append(styles, s.StyleID)
	}
	return map[string]any{
		"active":             st.Active,
		"surcharge_eligible": st.SurchargeEligible,
		"surcharge":          st.Surcharge.String(),
		"styles":             styles,
	}
}

// --------- Variations ---------

func (h *CatalogHandler) ListVariations(c *gin.Context) {
	var rows []models.Variation
	if err := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&rows).Error; err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *CatalogHandler) CreateVariation(c *gin.Context) {
	var req VariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || len(*req.Name) > 50 {
		badRequest(c, nil)
		return
	}

	v := models.Variation{Name: strings.TrimSpace(*req.Name)}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&v).Error; err != nil {
		h.writeVariationError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "variation_created", "variation", v.ID, v.Name)
	httpresp.Created(c, v)
}

func (h *CatalogHandler) UpdateVariation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req VariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var v models.Variation
	if err := h.db.WithContext(c.Request.Context()).First(&v, id).Error; err != nil {
		writeError(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 50 {
			badRequest(c, nil)
			return
		}
		v.Name = name
	}
	if req.Description != nil {
		v.Description = *req.Description
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&v).Error; err != nil {
		h.writeVariationError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "variation_updated", "variation", v.ID, v.Name)
	c.JSON(http.StatusOK, v)
}

func (h *CatalogHandler) writeVariationError(c *gin.Context, err error) {
	if httperr.IsConflict(err) {
		httperr.Write(c, http.StatusConflict, "variation_exists", "A variation with this name already exists.")
		return
	}
	writeError(c, err)
}

// --------- Promos ---------

func (h *CatalogHandler) ListPromos(c *gin.Context) {
	var rows []models.Promo
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Pricing.Style").
		Preload("Pricing.Variation").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *CatalogHandler) CreatePromo(c *gin.Context) {
	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p := models.Promo{
		Title:              strings.TrimSpace(req.Title),
		PricingID:          req.PricingID,
		DiscountPercentage: req.DiscountPercentage.Round(2),
		PromoPrice:         req.PromoPrice.Round(2),
		Month:              req.Month,
		Year:               req.Year,
		Active:             req.Active == nil || *req.Active,
	}
	if req.EndsAt != nil {
		p.EndsAt = *req.EndsAt
	}
	if !validDiscount(p) {
		badRequest(c, nil)
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).First(&models.Pricing{}, p.PricingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.BadRequest(c, httperr.CodeInvalidRequest, "Unknown pricing.")
			return
		}
		writeError(c, err)
		return
	}

	if err := h.db.WithContext(ctx).Omit("Pricing").Create(&p).Error; err != nil {
		writeError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "promo_created", "promo", p.ID, promoAudit(p))
	httpresp.Created(c, p)
}

func (h *CatalogHandler) UpdatePromo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var p models.Promo
	if err := h.db.WithContext(c.Request.Context()).First(&p, id).Error; err != nil {
		writeError(c, err)
		return
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.DiscountPercentage != nil {
		p.DiscountPercentage = req.DiscountPercentage.Round(2)
	}
	if req.PromoPrice != nil {
		p.PromoPrice = req.PromoPrice.Round(2)
	}
	if req.Month != nil {
		p.Month = *req.Month
	}
	if req.Year != nil {
		p.Year = *req.Year
	}
	if req.EndsAt != nil {
		p.EndsAt = *req.EndsAt
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if p.Title == "" || p.Month < 0 || p.Month > 12 || p.Year < 0 || !validDiscount(p) {
		badRequest(c, nil)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Pricing").Save(&p).Error; err != nil {
		writeError(c, err)
		return
	}

	h.flushCache(c)
	h.record(c, "promo_updated", "promo", p.ID, promoAudit(p))
	c.JSON(http.StatusOK, p)
}

// validDiscount: a percentage in (0, 100] or a positive fixed price; the
// percentage wins when both are set.
func validDiscount(p models.Promo) bool {
	if p.DiscountPercentage.IsNegative() || p.PromoPrice.IsNegative() {
		return false
	}
	if p.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return false
	}
	return p.DiscountPercentage.IsPositive() || p.PromoPrice.IsPositive()
}

func promoAudit(p models.Promo) map[string]any {
	return map[string]any{
		"pricing_id":          p.PricingID,
		"discount_percentage": p.DiscountPercentage.String(),
		"promo_price":         p.PromoPrice.String(),
		"active":              p.Active,
	}
}
