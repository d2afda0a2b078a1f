package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe echoes the caller's identity with the stylist profile or customer
// record it maps to, if any.
func (h *MeHandler) GetMe(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.UserID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	resp := gin.H{
		"user_id": *actor.UserID,
		"role":    actor.Role,
	}

	db := h.db.WithContext(c.Request.Context())

	switch actor.Role {
	case domain.RoleStylist:
		if actor.StylistID != nil {
			var st models.Stylist
			if err := db.Preload("Styles").First(&st, *actor.StylistID).Error; err == nil {
				resp["stylist"] = st
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, err)
				return
			}
		}

	case domain.RoleCustomer:
		var cu models.Customer
		if err := db.Where("user_id = ?", *actor.UserID).First(&cu).Error; err == nil {
			resp["customer"] = cu
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
