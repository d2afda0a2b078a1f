package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/export"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
)

type Archiver interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

type ExportBookingsInput struct {
	Actor   domain.Actor
	From    string
	To      string
	Archive bool
}

type ExportBookingsOutput struct {
	FileName string
	Data     []byte
	Location string
}

// maxExportDays keeps a single workbook bounded.
const maxExportDays = 366

type ExportBookings struct {
	repo     domain.Repository
	settings SettingsLoader
	archiver Archiver
	audit    *audit.Dispatcher
}

func NewExportBookings(
	repo domain.Repository,
	settings SettingsLoader,
	archiver Archiver,
	auditDispatcher *audit.Dispatcher,
) *ExportBookings {
	return &ExportBookings{
		repo:     repo,
		settings: settings,
		archiver: archiver,
		audit:    auditDispatcher,
	}
}

func (uc *ExportBookings) Execute(
	ctx context.Context,
	in ExportBookingsInput,
) (*ExportBookingsOutput, error) {

	if !in.Actor.IsAdmin() {
		return nil, httperr.ErrForbidden
	}

	from, err := time.Parse("2006-01-02", in.From)
	if err != nil {
		return nil, httperr.ErrInvalidRequest
	}
	to, err := time.Parse("2006-01-02", in.To)
	if err != nil || to.Before(from) || to.Sub(from) > maxExportDays*24*time.Hour {
		return nil, httperr.ErrInvalidRequest
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	bookings, err := uc.repo.ListBetween(ctx, in.From, in.To)
	if err != nil {
		return nil, err
	}

	data, err := export.BookingsWorkbook(bookings, cfg.Location)
	if err != nil {
		return nil, err
	}

	out := &ExportBookingsOutput{
		FileName: export.FileName(in.From, in.To),
		Data:     data,
	}

	if in.Archive {
		if uc.archiver == nil {
			return nil, httperr.ErrInvalidRequest
		}
		out.Location, err = uc.archiver.Put(ctx, out.FileName, data)
		if errors.Is(err, export.ErrArchiveDisabled) {
			return nil, httperr.ErrInvalidRequest
		}
		if err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.Actor.UserID,
		ActorRole: string(in.Actor.Role),
		Action:    "bookings_exported",
		Entity:    "booking",
		Metadata: map[string]any{
			"from":     in.From,
			"to":       in.To,
			"rows":     len(bookings),
			"location": out.Location,
		},
	})

	return out, nil
}
