package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/internal/customers"
	"github.com/richxcame/carwash-booking/internal/notifications"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/eventbus"
	"github.com/richxcame/carwash-booking/pkg/geo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPhone = "+967771234567"

var windowStart = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repo       *MockRepository
	customers  *MockCustomers
	catalog    *MockCatalog
	dispatcher *MockDispatcher
	events     *chanPublisher
	service    *Service
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		repo:       new(MockRepository),
		customers:  new(MockCustomers),
		catalog:    new(MockCatalog),
		dispatcher: new(MockDispatcher),
		events:     newChanPublisher(),
	}
	f.service = NewService(f.repo, f.customers, f.catalog, f.dispatcher, f.events, opts)
	return f
}

func exteriorWash() *catalog.WashService {
	return &catalog.WashService{
		ID:            1,
		NameAr:        "غسيل خارجي",
		NameEn:        "Exterior wash",
		BasePriceTeam: decimal.NewFromInt(15000),
		BasePriceSolo: decimal.NewFromInt(12000),
		EstMinutes:    45,
	}
}

func waxAddon() *catalog.Addon {
	return &catalog.Addon{ID: 10, Price: decimal.NewFromInt(3000), EstMinutes: 20}
}

func createRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		Customer:        CustomerInput{Name: "Ali", Phone: testPhone},
		ServiceID:       1,
		AddonIDs:        []int64{10},
		CarType:         catalog.CarTypeSedan,
		ZoneID:          3,
		AddressText:     " Hadda St ",
		GeoPoint:        &geo.Point{Lat: 12.8, Lng: 45.0},
		ScheduledWindow: Window{Start: windowStart, End: windowStart.Add(2 * time.Hour)},
	}
}

// stubCatalog makes the exterior wash, the wax addon and zone 3 resolvable
func (f *fixture) stubCatalog() {
	f.customers.On("Resolve", mock.Anything, "Ali", testPhone).
		Return(&customers.Customer{ID: 7, Name: "Ali", Phone: testPhone}, nil)
	f.catalog.On("GetService", mock.Anything, int64(1)).Return(exteriorWash(), nil)
	f.catalog.On("ResolveAddons", mock.Anything, []int64{10}).
		Return(map[int64]*catalog.Addon{10: waxAddon()}, nil)
	f.catalog.On("GetZone", mock.Anything, int64(3)).Return(&catalog.Zone{ID: 3}, nil)
}

func awaitSubject(t *testing.T, p *chanPublisher) string {
	t.Helper()
	select {
	case s := <-p.subjects:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
		return ""
	}
}

// ============== CreateBooking Tests ==============

func TestCreateBooking_TeamPrice(t *testing.T) {
	f := newFixture(Options{})
	f.stubCatalog()

	var stored *Booking
	f.repo.On("CreateBooking", mock.Anything, mock.AnythingOfType("*bookings.Booking")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*Booking)
			stored.ID = 42
		}).Return(nil)
	f.dispatcher.On("Enqueue", mock.Anything, mock.MatchedBy(func(m *notifications.Message) bool {
		return m.Template == notifications.TemplateConfirm &&
			m.Phone == testPhone &&
			m.Vars["booking_id"] == "BK000042" &&
			m.Vars["service_name"] == "غسيل خارجي"
	})).Return("wam_abc")

	resp, err := f.service.CreateBooking(context.Background(), createRequest())

	require.NoError(t, err)
	assert.Equal(t, "BK000042", resp.BookingID)
	assert.Equal(t, 18000.0, resp.PriceTotal)
	require.NotNil(t, resp.NotificationID)
	assert.Equal(t, "wam_abc", *resp.NotificationID)

	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.Equal(t, int64(7), stored.CustomerID)
	assert.Equal(t, "Hadda St", stored.AddressText)
	assert.Nil(t, stored.DistanceFee)
	assert.JSONEq(t, `{"type":"Point","coordinates":[45,12.8]}`, stored.GeoPoint)
	assert.Equal(t, eventbus.SubjectBookingCreated, awaitSubject(t, f.events))
}

func TestCreateBooking_ConfirmationDateInBookingTimezone(t *testing.T) {
	aden, err := time.LoadLocation("Asia/Aden")
	require.NoError(t, err)

	f := newFixture(Options{Location: aden})
	f.stubCatalog()
	f.repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)

	var sent *notifications.Message
	f.dispatcher.On("Enqueue", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*notifications.Message) }).
		Return("wam_abc")

	_, err = f.service.CreateBooking(context.Background(), createRequest())

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "2026-06-01 12:00", sent.Vars["date"])
}

func TestCreateBooking_DateDefaultsToUTC(t *testing.T) {
	f := newFixture(Options{})
	f.stubCatalog()
	f.repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)

	req := createRequest()
	req.ScheduledWindow = Window{
		Start: windowStart.In(time.FixedZone("UTC+5", 5*3600)),
		End:   windowStart.Add(time.Hour),
	}
	f.dispatcher.On("Enqueue", mock.Anything, mock.MatchedBy(func(m *notifications.Message) bool {
		return m.Vars["date"] == "2026-06-01 09:00"
	})).Return("wam_abc")

	_, err := f.service.CreateBooking(context.Background(), req)

	require.NoError(t, err)
	f.dispatcher.AssertNumberOfCalls(t, "Enqueue", 1)
}

func TestCreateBooking_RequiresGeoPoint(t *testing.T) {
	f := newFixture(Options{})
	req := createRequest()
	req.GeoPoint = nil

	_, err := f.service.CreateBooking(context.Background(), req)

	require.Error(t, err)
	assert.True(t, common.IsBadRequest(err))
	f.customers.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_SoloPrice(t *testing.T) {
	f := newFixture(Options{})
	f.stubCatalog()
	f.repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)
	f.dispatcher.On("Enqueue", mock.Anything, mock.Anything).Return("wam_1")

	req := createRequest()
	req.IsSolo = true
	resp, err := f.service.CreateBooking(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 15000.0, resp.PriceTotal)
}

func TestCreateBooking_DuplicateAddonsChargedEachTime(t *testing.T) {
	f := newFixture(Options{})
	f.customers.On("Resolve", mock.Anything, "Ali", testPhone).Return(&customers.Customer{ID: 7, Phone: testPhone}, nil)
	f.catalog.On("GetService", mock.Anything, int64(1)).Return(exteriorWash(), nil)
	f.catalog.On("ResolveAddons", mock.Anything, []int64{10, 10}).
		Return(map[int64]*catalog.Addon{10: waxAddon()}, nil)
	f.catalog.On("GetZone", mock.Anything, int64(3)).Return(&catalog.Zone{ID: 3}, nil)
	f.repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)
	f.dispatcher.On("Enqueue", mock.Anything, mock.Anything).Return("wam_1")

	req := createRequest()
	req.AddonIDs = []int64{10, 10}
	resp, err := f.service.CreateBooking(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 21000.0, resp.PriceTotal)
}

func TestCreateBooking_WithoutDispatcher(t *testing.T) {
	f := newFixture(Options{})
	f.service = NewService(f.repo, f.customers, f.catalog, nil, nil, Options{})
	f.stubCatalog()
	f.repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.CreateBooking(context.Background(), createRequest())

	require.NoError(t, err)
	assert.Nil(t, resp.NotificationID)

	b, _ := json.Marshal(resp)
	assert.Contains(t, string(b), `"notification_id":null`)
}

func TestCreateBooking_ReferenceNotFound(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		message string
	}{
		{
			name: "service",
			setup: func(f *fixture) {
				f.catalog.On("GetService", mock.Anything, int64(1)).
					Return(nil, common.NewNotFoundError("service 1 not found", nil))
			},
			message: "service 1 not found",
		},
		{
			name: "addon",
			setup: func(f *fixture) {
				f.catalog.On("GetService", mock.Anything, int64(1)).Return(exteriorWash(), nil)
				f.catalog.On("ResolveAddons", mock.Anything, []int64{10}).
					Return(nil, common.NewNotFoundError("addons not found: [10]", nil))
			},
			message: "addons not found: [10]",
		},
		{
			name: "zone",
			setup: func(f *fixture) {
				f.catalog.On("GetService", mock.Anything, int64(1)).Return(exteriorWash(), nil)
				f.catalog.On("ResolveAddons", mock.Anything, []int64{10}).
					Return(map[int64]*catalog.Addon{10: waxAddon()}, nil)
				f.catalog.On("GetZone", mock.Anything, int64(3)).
					Return(nil, common.NewNotFoundError("zone 3 not found", nil))
			},
			message: "zone 3 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Options{})
			f.customers.On("Resolve", mock.Anything, "Ali", testPhone).
				Return(&customers.Customer{ID: 7, Phone: testPhone}, nil)
			tt.setup(f)

			_, err := f.service.CreateBooking(context.Background(), createRequest())

			require.Error(t, err)
			assert.True(t, common.IsNotFound(err))
			assert.Equal(t, tt.message, err.Error())
			f.repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
			f.dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_WindowMustBeOrdered(t *testing.T) {
	f := newFixture(Options{})

	req := createRequest()
	req.ScheduledWindow.End = req.ScheduledWindow.Start
	_, err := f.service.CreateBooking(context.Background(), req)

	require.Error(t, err)
	assert.True(t, common.IsBadRequest(err))
	f.customers.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_ForeignKeyViolationNamesZone(t *testing.T) {
	f := newFixture(Options{})
	f.stubCatalog()
	f.repo.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23503", ConstraintName: "bookings_zone_id_fkey"})

	_, err := f.service.CreateBooking(context.Background(), createRequest())

	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
	assert.Contains(t, err.Error(), "zone 3 not found")
}

func TestCreateBooking_TransientWriteFailure(t *testing.T) {
	f := newFixture(Options{})
	f.stubCatalog()
	f.repo.On("CreateBooking", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "08006"})

	_, err := f.service.CreateBooking(context.Background(), createRequest())

	assert.True(t, common.IsTransient(err))
}

// ============== UpdateBooking Tests ==============

func storedBooking(status Status) *Booking {
	return &Booking{
		ID:              42,
		CustomerID:      7,
		ServiceID:       1,
		Status:          status,
		PriceTotal:      decimal.NewFromInt(18000),
		ScheduledWindow: Window{Start: windowStart, End: windowStart.Add(time.Hour)},
	}
}

func statusPtr(s Status) *Status { return &s }

func TestUpdateBooking_PartialFields(t *testing.T) {
	f := newFixture(Options{})

	newEnd := windowStart.Add(-time.Hour)
	address := "  New address "
	f.repo.On("UpdateBooking", mock.Anything, int64(42), mock.MatchedBy(func(p *Patch) bool {
		return p.Status == nil &&
			p.WindowStart == nil &&
			p.WindowEnd != nil && p.WindowEnd.Equal(newEnd) &&
			*p.AddressText == "New address" &&
			*p.GeoPoint == `{"type":"Point","coordinates":[44.2,15.3]}`
	})).Return(storedBooking(StatusConfirmed), StatusConfirmed, nil)

	b, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{
		ScheduledWindow: &WindowPatch{End: &newEnd},
		AddressText:     &address,
		GeoPoint:        &geo.Point{Lat: 15.3, Lng: 44.2},
	})

	require.NoError(t, err)
	assert.Equal(t, "BK000042", b.BookingID)
	f.dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestUpdateBooking_EmptyPatchReturnsCurrent(t *testing.T) {
	f := newFixture(Options{})
	f.repo.On("GetBooking", mock.Anything, int64(42)).Return(storedBooking(StatusStarted), nil)

	b, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{})

	require.NoError(t, err)
	assert.Equal(t, StatusStarted, b.Status)
	f.repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBooking_InvalidStatus(t *testing.T) {
	f := newFixture(Options{})

	_, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr("done")})

	require.Error(t, err)
	assert.True(t, common.IsBadRequest(err))
}

func TestUpdateBooking_NotFound(t *testing.T) {
	f := newFixture(Options{})
	f.repo.On("UpdateBooking", mock.Anything, int64(12), mock.Anything).
		Return(nil, Status(""), fmt.Errorf("failed to lock booking: %w", pgx.ErrNoRows))

	_, err := f.service.UpdateBooking(context.Background(), 12, &UpdateBookingRequest{Status: statusPtr(StatusCanceled)})

	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
	assert.Contains(t, err.Error(), "booking 12 not found")
}

func TestUpdateBooking_StatusNotifications(t *testing.T) {
	tests := []struct {
		to       Status
		template notifications.TemplateKey
		notifies bool
	}{
		{StatusOnTheWay, notifications.TemplateOnTheWay, true},
		{StatusFinished, notifications.TemplateReview, true},
		{StatusCanceled, notifications.TemplateCanceled, true},
		{StatusPostponed, notifications.TemplatePostponed, true},
		{StatusStarted, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.to), func(t *testing.T) {
			f := newFixture(Options{ReviewURL: "https://example.test/review"})
			f.repo.On("UpdateBooking", mock.Anything, int64(42), mock.Anything).
				Return(storedBooking(tt.to), StatusConfirmed, nil)
			f.customers.On("Get", mock.Anything, int64(7)).Return(&customers.Customer{ID: 7, Phone: testPhone}, nil)
			f.dispatcher.On("Enqueue", mock.Anything, mock.MatchedBy(func(m *notifications.Message) bool {
				return m.Template == tt.template && m.Vars["booking_id"] == "BK000042"
			})).Return("wam_1")

			_, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr(tt.to)})

			require.NoError(t, err)
			if tt.notifies {
				f.dispatcher.AssertNumberOfCalls(t, "Enqueue", 1)
			} else {
				f.dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
			}
			assert.Equal(t, eventbus.SubjectBookingStatusChanged, awaitSubject(t, f.events))
		})
	}
}

func TestUpdateBooking_StatusMessageUsesBookingTimezone(t *testing.T) {
	aden, err := time.LoadLocation("Asia/Aden")
	require.NoError(t, err)

	f := newFixture(Options{Location: aden})
	f.repo.On("UpdateBooking", mock.Anything, int64(42), mock.Anything).
		Return(storedBooking(StatusOnTheWay), StatusConfirmed, nil)
	f.customers.On("Get", mock.Anything, int64(7)).Return(&customers.Customer{ID: 7, Phone: testPhone}, nil)

	var sent *notifications.Message
	f.dispatcher.On("Enqueue", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*notifications.Message) }).
		Return("wam_1")

	_, err = f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr(StatusOnTheWay)})

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "2026-06-01 12:00", sent.Vars["date"])
}

func TestUpdateBooking_EventCarriesLockedPreviousStatus(t *testing.T) {
	f := newFixture(Options{})
	events := &recordingPublisher{done: make(chan struct{}, 1)}
	f.service = NewService(f.repo, f.customers, f.catalog, nil, events, Options{})
	f.repo.On("UpdateBooking", mock.Anything, int64(42), mock.Anything).
		Return(storedBooking(StatusStarted), StatusOnTheWay, nil)

	_, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr(StatusStarted)})

	require.NoError(t, err)
	select {
	case <-events.done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}
	evt, ok := events.data.(*StatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusOnTheWay, evt.From)
	assert.Equal(t, StatusStarted, evt.To)
}

func TestUpdateBooking_SameStatusDoesNotNotify(t *testing.T) {
	f := newFixture(Options{})
	f.repo.On("UpdateBooking", mock.Anything, int64(42), mock.Anything).
		Return(storedBooking(StatusCanceled), StatusCanceled, nil)

	_, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr(StatusCanceled)})

	require.NoError(t, err)
	f.dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestUpdateBooking_AnyTransitionWhenNotEnforced(t *testing.T) {
	f := newFixture(Options{})
	f.repo.On("UpdateBooking", mock.Anything, int64(42), mock.MatchedBy(func(p *Patch) bool {
		return p.Guard == nil
	})).Return(storedBooking(StatusConfirmed), StatusFinished, nil)

	b, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr(StatusConfirmed)})

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
}

// lockedStatus makes the repository mock run the patch guard against from,
// the way the repository does while the row is locked
func (f *fixture) lockedStatus(id int64, from Status) {
	f.repo.On("UpdateBooking", mock.Anything, id, mock.Anything).
		Return(func(ctx context.Context, id int64, p *Patch) (*Booking, Status, error) {
			if p.Guard != nil {
				if err := p.Guard(from); err != nil {
					return nil, "", err
				}
			}
			return storedBooking(*p.Status), from, nil
		})
}

func TestUpdateBooking_EnforcedTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"finished cannot reopen", StatusFinished, StatusConfirmed, false},
		{"confirmed cannot skip to finished", StatusConfirmed, StatusFinished, false},
		{"confirmed to on the way", StatusConfirmed, StatusOnTheWay, true},
		{"started to finished", StatusStarted, StatusFinished, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Options{EnforceTransitions: true})
			f.customers.On("Get", mock.Anything, int64(7)).Return(&customers.Customer{ID: 7, Phone: testPhone}, nil)
			f.dispatcher.On("Enqueue", mock.Anything, mock.Anything).Return("wam_1")
			f.lockedStatus(42, tt.from)

			_, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr(tt.to)})

			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, common.IsBadRequest(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("cannot move booking from %s to %s", tt.from, tt.to))
			f.dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		})
	}
}

func TestTransitionGuard(t *testing.T) {
	guard := transitionGuard(StatusStarted)

	assert.NoError(t, guard(StatusOnTheWay))
	assert.NoError(t, guard(StatusStarted))

	var terr *TransitionError
	require.ErrorAs(t, guard(StatusConfirmed), &terr)
	assert.Equal(t, StatusConfirmed, terr.From)
	assert.Equal(t, StatusStarted, terr.To)
}

func TestUpdateBooking_CustomerLookupFailureIsNotFatal(t *testing.T) {
	f := newFixture(Options{})
	f.repo.On("UpdateBooking", mock.Anything, int64(42), mock.Anything).
		Return(storedBooking(StatusCanceled), StatusConfirmed, nil)
	f.customers.On("Get", mock.Anything, int64(7)).Return(nil, errors.New("db down"))

	_, err := f.service.UpdateBooking(context.Background(), 42, &UpdateBookingRequest{Status: statusPtr(StatusCanceled)})

	require.NoError(t, err)
	f.dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

// ============== Query Tests ==============

func TestListBookings_SetsHumanIDs(t *testing.T) {
	f := newFixture(Options{})
	filter := &ListFilter{Status: statusPtr(StatusConfirmed)}
	f.repo.On("ListBookings", mock.Anything, filter, 20, 0).
		Return([]*Booking{{ID: 1}, {ID: 1234567}}, int64(2), nil)

	bookings, total, err := f.service.ListBookings(context.Background(), filter, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "BK000001", bookings[0].BookingID)
	assert.Equal(t, "BK1234567", bookings[1].BookingID)
}

func TestStatusHistory(t *testing.T) {
	f := newFixture(Options{})
	f.repo.On("GetBooking", mock.Anything, int64(42)).Return(storedBooking(StatusOnTheWay), nil)
	f.repo.On("ListStatusHistory", mock.Anything, int64(42)).Return([]*StatusChange{
		{BookingID: 42, ToStatus: StatusConfirmed},
		{BookingID: 42, FromStatus: statusPtr(StatusConfirmed), ToStatus: StatusOnTheWay},
	}, nil)

	history, err := f.service.StatusHistory(context.Background(), 42)

	require.NoError(t, err)
	assert.Len(t, history, 2)
}
