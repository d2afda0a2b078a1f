package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Style").
		Preload("Variation").
		Preload("Stylist").
		Preload("Promo").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC, id ASC")
		})
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := withDetails(r.db.WithContext(ctx)).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListForDate(
	ctx context.Context,
	date string,
	stylistID *uint,
) ([]models.Booking, error) {

	q := withDetails(r.db.WithContext(ctx)).
		Where("booking_date = ?", date)

	if stylistID != nil {
		q = q.Where("stylist_id = ?", *stylistID)
	}

	var out []models.Booking
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) ListBetween(
	ctx context.Context,
	fromDate string,
	toDate string,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := withDetails(r.db.WithContext(ctx)).
		Where("booking_date >= ? AND booking_date <= ?", fromDate, toDate).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) ListActiveForStylists(
	ctx context.Context,
	stylistIDs []uint,
	from time.Time,
	to time.Time,
	excludeBookingID *uint,
) ([]models.Booking, error) {

	if len(stylistIDs) == 0 {
		return []models.Booking{}, nil
	}

	q := r.db.WithContext(ctx).
		Where("stylist_id IN ?", stylistIDs).
		Where("status <> ?", string(domain.StatusCancelled)).
		Where("start_time < ? AND end_time > ?", to.UTC(), from.UTC())

	if excludeBookingID != nil {
		q = q.Where("id <> ?", *excludeBookingID)
	}

	var out []models.Booking
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) FindPromo(
	ctx context.Context,
	id uint,
) (*models.Promo, error) {

	var p models.Promo
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Reserve
// --------------------------------------------------

func (r *BookingGormRepository) Reserve(
	ctx context.Context,
	req domain.ReserveRequest,
) (*models.Booking, error) {

	if len(req.Candidates) == 0 {
		return nil, httperr.ErrNoEligibleStylist
	}

	var created *models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		ids := make([]uint, 0, len(req.Candidates))
		for _, c := range req.Candidates {
			ids = append(ids, c.StylistID)
		}
		if err := lockStylists(tx, ids); err != nil {
			return err
		}

		// 1. first candidate whose calendar is still free
		var chosen *domain.Candidate
		for i := range req.Candidates {
			c := req.Candidates[i]
			conflict, err := hasConflict(tx, c.StylistID, req.Start, req.End(), nil)
			if err != nil {
				return err
			}
			if !conflict {
				chosen = &c
				break
			}
		}
		if chosen == nil {
			return httperr.ErrSlotNoLongerAvailable
		}

		// 2. the deposit intent must not already pay for another booking
		if req.Deposit.GatewayRef != nil {
			var used int64
			if err := tx.Model(&models.Payment{}).
				Where("gateway_ref = ?", *req.Deposit.GatewayRef).
				Count(&used).Error; err != nil {
				return err
			}
			if used > 0 {
				return httperr.ErrPaymentAlreadyUsed
			}
		}

		// 3. customer
		customer, err := getOrCreateCustomer(tx, req.Customer)
		if err != nil {
			return err
		}

		// 4. booking
		b := &models.Booking{
			CustomerID:      customer.ID,
			StyleID:         req.StyleID,
			VariationID:     req.VariationID,
			StylistID:       &chosen.StylistID,
			BookingDate:     req.BookingDate,
			StartTime:       req.Start,
			EndTime:         req.End(),
			DurationMinutes: req.DurationMinutes,
			ServicePrice:    chosen.ServicePrice,
			DepositAmount:   req.DepositAmount,
			Status:          string(domain.InitialStatus()),
			Notes:           req.Notes,
		}
		if chosen.PromoApplied {
			b.PromoID = req.PromoID
		}

		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			if httperr.IsConflict(err) {
				return httperr.ErrSlotNoLongerAvailable
			}
			return err
		}

		// 5. deposit payment
		p := req.Deposit
		p.BookingID = b.ID
		p.IsDeposit = true
		if err := tx.Create(&p).Error; err != nil {
			if httperr.IsConflict(err) {
				return httperr.ErrPaymentAlreadyUsed
			}
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBooking(ctx, created.ID)
}

// --------------------------------------------------
// Update
// --------------------------------------------------

func (r *BookingGormRepository) Update(
	ctx context.Context,
	id uint,
	mutate func(b *models.Booking) error,
) (*models.Booking, error) {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var b models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Customer").
			First(&b, id).Error; err != nil {
			return err
		}

		if err := mutate(&b); err != nil {
			return err
		}

		if domain.Status(b.Status).Live() && b.StylistID != nil {
			if err := lockStylists(tx, []uint{*b.StylistID}); err != nil {
				return err
			}
			conflict, err := hasConflict(tx, *b.StylistID, b.StartTime, b.EndTime, &b.ID)
			if err != nil {
				return err
			}
			if conflict {
				return httperr.ErrSlotNoLongerAvailable
			}
		}

		if err := tx.Omit(clause.Associations).Save(&b).Error; err != nil {
			if httperr.IsConflict(err) {
				return httperr.ErrSlotNoLongerAvailable
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBooking(ctx, id)
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *BookingGormRepository) AddPayment(
	ctx context.Context,
	bookingID uint,
	p *models.Payment,
) (*models.Booking, error) {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			First(&b, bookingID).Error; err != nil {
			return err
		}
		if domain.Status(b.Status) == domain.StatusCancelled {
			return httperr.ErrInvalidTransition
		}

		p.BookingID = bookingID
		if err := tx.Create(p).Error; err != nil {
			if httperr.IsConflict(err) {
				return httperr.ErrPaymentAlreadyUsed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBooking(ctx, bookingID)
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

// lockStylists takes row locks in ascending id order so concurrent
// reservations over overlapping candidate sets cannot deadlock.
func lockStylists(tx *gorm.DB, ids []uint) error {
	var locked []models.Stylist
	return tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&locked).Error
}

func hasConflict(
	tx *gorm.DB,
	stylistID uint,
	start time.Time,
	end time.Time,
	excludeID *uint,
) (bool, error) {

	q := tx.Model(&models.Booking{}).
		Where(
			"stylist_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			stylistID,
			string(domain.StatusCancelled),
			end.UTC(),
			start.UTC(),
		)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// getOrCreateCustomer matches a registered user by user id and a guest by
// email; the contact snapshot of an existing guest is kept as first seen.
func getOrCreateCustomer(tx *gorm.DB, info domain.CustomerInfo) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))

	var c models.Customer
	q := tx.Model(&models.Customer{})
	if info.UserID != nil {
		q = q.Where("user_id = ?", *info.UserID)
	} else {
		q = q.Where("user_id IS NULL AND email = ?", email)
	}

	err := q.First(&c).Error
	if err == nil {
		if info.SMSConsent && !c.SMSConsent {
			if err := tx.Model(&c).Update("sms_consent", true).Error; err != nil {
				return nil, err
			}
		}
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = models.Customer{
		UserID:     info.UserID,
		FullName:   strings.TrimSpace(info.FullName),
		Email:      email,
		Phone:      strings.TrimSpace(info.Phone),
		SMSConsent: info.SMSConsent,
	}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

var _ domain.Repository = (*BookingGormRepository)(nil)
