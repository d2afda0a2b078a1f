package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	"github.com/Seimmet/dolcie-salon/internal/domain/salon"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/infra/cache"
	"github.com/Seimmet/dolcie-salon/internal/payment"
)

func TestGetAvailabilityUsesCacheAndInvalidatesOnReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	slotCache := cache.NewAvailabilityCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0, nil)

	uc := NewGetAvailability(f.settings, f.engine, slotCache, f.metrics)
	q := availability.Query{Date: testDate, StyleID: f.cat.BoxBraids.ID, VariationID: f.cat.Medium.ID, StylistID: &f.cat.Amara.ID}

	slots, err := uc.Execute(ctx, q)
	require.NoError(t, err)
	s, ok := availability.Find(slots, "10:00")
	require.True(t, ok)
	assert.True(t, s.Available)

	_, err = uc.Execute(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AvailabilityRequests.WithLabelValues("hit")))

	reserve := f.reserver()
	reserve.cache = slotCache
	_, err = reserve.Execute(ctx, f.reserveInput("10:00", f.paidIntent("pi_cache"), &f.cat.Amara.ID))
	require.NoError(t, err)

	slots, err = uc.Execute(ctx, q)
	require.NoError(t, err)
	s, _ = availability.Find(slots, "10:00")
	assert.False(t, s.Available)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.AvailabilityRequests.WithLabelValues("miss")))
}

func TestCachedAvailabilityExpiresPassedStarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	slotCache := cache.NewAvailabilityCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0, nil)

	uc := NewGetAvailability(f.settings, f.engine, slotCache, f.metrics)
	q := availability.Query{Date: testDate, StyleID: f.cat.BoxBraids.ID, VariationID: f.cat.Medium.ID}

	f.now = f.at("09:59")
	slots, err := uc.Execute(ctx, q)
	require.NoError(t, err)
	s, _ := availability.Find(slots, "10:00")
	assert.True(t, s.Available)

	f.now = f.at("10:01")
	slots, err = uc.Execute(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AvailabilityRequests.WithLabelValues("hit")))

	s, _ = availability.Find(slots, "10:00")
	assert.False(t, s.Available)
	s, _ = availability.Find(slots, "10:30")
	assert.True(t, s.Available)

	direct, err := f.engine.GetSlots(ctx, mustLoad(t, f), q)
	require.NoError(t, err)
	assert.Equal(t, availableTimes(direct), availableTimes(slots))
}

func TestGetAvailabilityValidatesQuery(t *testing.T) {
	f := newFixture(t)
	uc := NewGetAvailability(f.settings, f.engine, nil, f.metrics)

	_, err := uc.Execute(context.Background(), availability.Query{Date: "2030-13-40", StyleID: 1, VariationID: 1})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))

	_, err = uc.Execute(context.Background(), availability.Query{Date: testDate})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}

func TestCreateDepositIntent(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateDepositIntent(f.settings, f.engine, f.payments)

	out, err := uc.Execute(context.Background(), CreateDepositIntentInput{
		StyleID:     f.cat.BoxBraids.ID,
		VariationID: f.cat.Medium.ID,
		Date:        testDate,
		Time:        "10:00",
		Email:       "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5175), out.Quote.TotalCents)
	assert.Equal(t, int64(5175), out.Intent.AmountCents)
	assert.Equal(t, payment.StatusPending, out.Intent.Status)

	_, err = uc.Execute(context.Background(), CreateDepositIntentInput{
		StyleID:     f.cat.BoxBraids.ID,
		VariationID: f.cat.Medium.ID,
		Date:        testDate,
		Time:        "18:30",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidSlot))
}

type memArchiver struct {
	name string
	data []byte
	err  error
}

func (a *memArchiver) Put(_ context.Context, name string, data []byte) (string, error) {
	a.name, a.data = name, data
	return "s3://bucket/archive/" + name, a.err
}

func TestExportBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "10:00", &f.cat.Amara)

	arch := &memArchiver{}
	uc := NewExportBookings(f.repo, f.settings, arch, nil)

	_, err := uc.Execute(ctx, ExportBookingsInput{Actor: stylistActor(f.cat.Amara.ID), From: testDate, To: testDate})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(ctx, ExportBookingsInput{Actor: admin(), From: "2030-03-06", To: testDate})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))

	out, err := uc.Execute(ctx, ExportBookingsInput{Actor: admin(), From: "2030-03-01", To: "2030-03-31", Archive: true})
	require.NoError(t, err)
	assert.Equal(t, "bookings_2030-03-01_2030-03-31.xlsx", out.FileName)
	assert.NotEmpty(t, out.Data)
	assert.Equal(t, out.Data, arch.data)
	assert.Equal(t, "s3://bucket/archive/"+out.FileName, out.Location)

	arch.err = errors.New("unreachable")
	_, err = uc.Execute(ctx, ExportBookingsInput{Actor: admin(), From: "2030-03-01", To: "2030-03-31", Archive: true})
	assert.Error(t, err)
}

func mustLoad(t *testing.T, f *fixture) *salon.Config {
	t.Helper()
	cfg, err := f.settings.Load(context.Background())
	require.NoError(t, err)
	return cfg
}

func availableTimes(slots []availability.Slot) []string {
	out := []string{}
	for _, s := range slots {
		if s.Available {
			out = append(out, s.Time)
		}
	}
	return out
}
