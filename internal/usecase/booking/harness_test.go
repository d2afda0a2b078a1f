package booking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/domain/capability"
	"github.com/Seimmet/dolcie-salon/internal/infra/repository"
	"github.com/Seimmet/dolcie-salon/internal/metrics"
	"github.com/Seimmet/dolcie-salon/internal/notification"
	"github.com/Seimmet/dolcie-salon/internal/payment"
	"github.com/Seimmet/dolcie-salon/internal/testutil"
	"github.com/Seimmet/dolcie-salon/internal/validators"
)

const testDate = "2030-03-05" // a Tuesday

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *recordingNotifier) Dispatch(msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) events() []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.Event, 0, len(n.msgs))
	for _, m := range n.msgs {
		out = append(out, m.Event)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	cat      *testutil.Catalog
	loc      *time.Location
	now      time.Time
	repo     *repository.BookingGormRepository
	settings *repository.SettingsGormRepository
	resolver *capability.Resolver
	engine   *availability.Engine
	gateway  *payment.MemoryGateway
	payments *payment.Coordinator
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	seq      int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		cat:      testutil.Seed(t, db),
		loc:      loc,
		now:      time.Date(2030, 3, 1, 12, 0, 0, 0, loc),
		repo:     repository.NewBookingGormRepository(db),
		settings: repository.NewSettingsGormRepository(db),
		gateway:  payment.NewMemoryGateway(),
		notifier: &recordingNotifier{},
		metrics:  metrics.NewNop(),
	}
	f.resolver = capability.NewResolver(repository.NewCatalogGormRepository(db))
	f.engine = availability.NewEngine(f.resolver, f.repo, f.clock)
	f.payments = payment.NewCoordinator(f.gateway, time.Second, nil)
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) at(hm string) time.Time {
	ts, err := time.ParseInLocation("2006-01-02 15:04", testDate+" "+hm, f.loc)
	if err != nil {
		panic(err)
	}
	return ts
}

// paidIntent registers a settled deposit intent for the salon's quote.
func (f *fixture) paidIntent(id string) string {
	f.gateway.Add(payment.Intent{ID: id, AmountCents: 5175, Currency: "usd", Status: payment.StatusSucceeded})
	return id
}

func (f *fixture) reserver() *ReserveBooking {
	return NewReserveBooking(ReserveBookingDeps{
		Repo:     f.repo,
		Settings: f.settings,
		Resolver: f.resolver,
		Engine:   f.engine,
		Payments: f.payments,
		Contacts: validators.NewContactChecker(false),
		Notifier: f.notifier,
		Metrics:  f.metrics,
		Now:      f.clock,
	})
}

func (f *fixture) reserveInput(hm, intentID string, stylistID *uint) ReserveBookingInput {
	return ReserveBookingInput{
		StyleID:         f.cat.BoxBraids.ID,
		VariationID:     f.cat.Medium.ID,
		StylistID:       stylistID,
		Date:            testDate,
		Time:            hm,
		PaymentIntentID: intentID,
		Customer: domain.CustomerInfo{
			FullName: "Ada Obi",
			Email:    "ada@example.com",
			Phone:    "+1 (555) 010-2030",
		},
	}
}

func admin() domain.Actor {
	id := uint(1)
	return domain.Actor{UserID: &id, Role: domain.RoleAdmin}
}

func stylistActor(id uint) domain.Actor {
	uid := uint(100 + id)
	return domain.Actor{UserID: &uid, Role: domain.RoleStylist, StylistID: &id}
}

func uintPtr(v uint) *uint { return &v }

func paymentIntent(id string, cents int64, succeeded bool) payment.Intent {
	st := payment.StatusPending
	if succeeded {
		st = payment.StatusSucceeded
	}
	return payment.Intent{ID: id, AmountCents: cents, Currency: "usd", Status: st}
}
