package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Seimmet/dolcie-salon/internal/export"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
	ucBooking "github.com/Seimmet/dolcie-salon/internal/usecase/booking"
)

type ExportHandler struct {
	export *ucBooking.ExportBookings
}

func NewExportHandler(uc *ucBooking.ExportBookings) *ExportHandler {
	return &ExportHandler{export: uc}
}

// Bookings streams ?from&to as xlsx; archive=true also stores a copy.
func (h *ExportHandler) Bookings(c *gin.Context) {
	out, err := h.export.Execute(c.Request.Context(), ucBooking.ExportBookingsInput{
		Actor:   middleware.ActorFrom(c),
		From:    c.Query("from"),
		To:      c.Query("to"),
		Archive: c.Query("archive") == "true",
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if out.Location != "" {
		c.Header("X-Archive-Location", out.Location)
	}
	c.Header("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	c.Data(http.StatusOK, export.ContentType, out.Data)
}
