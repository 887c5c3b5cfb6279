package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/internal/notifications"
	"github.com/richxcame/carwash-booking/internal/pricing"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/database"
	"github.com/richxcame/carwash-booking/pkg/eventbus"
	"github.com/richxcame/carwash-booking/pkg/i18n"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/richxcame/carwash-booking/pkg/money"
	"github.com/richxcame/carwash-booking/pkg/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/richxcame/carwash-booking/internal/bookings")

const dateLayout = "2006-01-02 15:04"

// Options tunes booking intake and the lifecycle manager
type Options struct {
	IDFormat           IDFormat
	EnforceTransitions bool
	DefaultLang        string
	ReviewURL          string
	// Location is the zone booking times are shown in to customers
	Location *time.Location
}

// Service handles booking intake and lifecycle updates
type Service struct {
	repo       RepositoryInterface
	customers  CustomerDirectory
	catalog    Catalog
	dispatcher Dispatcher
	events     eventbus.Publisher
	opts       Options
}

// NewService creates a new booking service. dispatcher and events may be nil.
func NewService(repo RepositoryInterface, customers CustomerDirectory, cat Catalog, dispatcher Dispatcher, events eventbus.Publisher, opts Options) *Service {
	if opts.IDFormat.Prefix == "" && opts.IDFormat.Width == 0 {
		opts.IDFormat = DefaultIDFormat
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = i18n.DefaultLang
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		repo:       repo,
		customers:  customers,
		catalog:    cat,
		dispatcher: dispatcher,
		events:     events,
		opts:       opts,
	}
}

// IDFormat returns the human booking id format in use
func (s *Service) IDFormat() IDFormat {
	return s.opts.IDFormat
}

// CreateBooking resolves the customer, prices the selection and stores a
// confirmed booking. A newly created customer is kept even when the booking
// fails afterwards.
func (s *Service) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	ctx, span := tracer.Start(ctx, "bookings.CreateBooking")
	defer span.End()

	resp, err := s.createBooking(ctx, req)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("booking_id", resp.BookingID))
	return resp, nil
}

func (s *Service) createBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	if !req.ScheduledWindow.Start.Before(req.ScheduledWindow.End) {
		return nil, common.NewBadRequestError("scheduled window start must be before end", nil)
	}
	if req.GeoPoint == nil {
		return nil, common.NewBadRequestError("geo_point is required", nil)
	}

	customer, err := s.customers.Resolve(ctx, req.Customer.Name, req.Customer.Phone)
	if err != nil {
		return nil, err
	}

	svc, err := s.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	byID, err := s.catalog.ResolveAddons(ctx, req.AddonIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetZone(ctx, req.ZoneID); err != nil {
		return nil, err
	}

	// intake charges base plus addons; rules and coupons only apply to quotes
	breakdown := pricing.Calculate(pricing.Inputs{
		Service: svc,
		Addons:  pricing.Occurrences(req.AddonIDs, byID),
		IsSolo:  req.IsSolo,
		CarType: req.CarType,
	})

	geoPoint, err := req.GeoPoint.Encode()
	if err != nil {
		return nil, common.NewBadRequestError("invalid geo point", err)
	}

	addonIDs := req.AddonIDs
	if addonIDs == nil {
		addonIDs = []int64{}
	}

	booking := &Booking{
		CustomerID:      customer.ID,
		ServiceID:       svc.ID,
		AddonIDs:        addonIDs,
		CarType:         req.CarType,
		ZoneID:          req.ZoneID,
		AddressText:     strings.TrimSpace(req.AddressText),
		GeoPoint:        geoPoint,
		ScheduledWindow: req.ScheduledWindow,
		Status:          StatusConfirmed,
		PriceTotal:      breakdown.TotalPrice,
		IsSolo:          req.IsSolo,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, s.writeError(err, req)
	}
	booking.BookingID = s.opts.IDFormat.Format(booking.ID)
	bookingsCreated.Inc()

	logger.WithContext(ctx).Info("booking created",
		zap.String("booking_id", booking.BookingID),
		zap.Int64("customer_id", customer.ID),
		zap.String("price_total", money.String(booking.PriceTotal)),
	)

	lang := i18n.ResolveLang(req.Lang, s.opts.DefaultLang)
	notificationID := s.notify(ctx, customer.Phone, notifications.TemplateConfirm, lang, map[string]string{
		"booking_id":   booking.BookingID,
		"service_name": serviceName(svc, lang),
		"date":         s.localDate(booking.ScheduledWindow.Start),
		"total":        i18n.FormatAmount(booking.PriceTotal, lang),
	})

	eventbus.PublishAsync(ctx, s.events, eventbus.SubjectBookingCreated, &CreatedEvent{
		ID:         booking.ID,
		BookingID:  booking.BookingID,
		CustomerID: booking.CustomerID,
		ServiceID:  booking.ServiceID,
		ZoneID:     booking.ZoneID,
		PriceTotal: money.ToFloat(booking.PriceTotal),
		Start:      booking.ScheduledWindow.Start,
	})

	return &CreateBookingResponse{
		BookingID:      booking.BookingID,
		PriceTotal:     money.ToFloat(booking.PriceTotal),
		NotificationID: notificationID,
	}, nil
}

// writeError maps insert failures. References were checked before the
// insert, so a foreign key violation means a row vanished in between.
func (s *Service) writeError(err error, req *CreateBookingRequest) error {
	switch {
	case database.IsForeignKeyViolation(err):
		switch constraint := database.ConstraintName(err); {
		case strings.Contains(constraint, "zone"):
			return common.NewNotFoundError(fmt.Sprintf("zone %d not found", req.ZoneID), err)
		case strings.Contains(constraint, "service"):
			return common.NewNotFoundError(fmt.Sprintf("service %d not found", req.ServiceID), err)
		}
		return common.NewBadRequestError("booking references a missing record", err)
	case database.IsTransient(err):
		return common.NewServiceUnavailableError("bookings temporarily unavailable", err)
	}
	return err
}

// GetBooking returns a booking by internal id
func (s *Service) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, common.NewNotFoundError(fmt.Sprintf("booking %d not found", id), err)
		}
		return nil, err
	}
	b.BookingID = s.opts.IDFormat.Format(b.ID)
	return b, nil
}

// ListBookings returns a page of bookings and the total match count
func (s *Service) ListBookings(ctx context.Context, filter *ListFilter, limit, offset int) ([]*Booking, int64, error) {
	bookings, total, err := s.repo.ListBookings(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, b := range bookings {
		b.BookingID = s.opts.IDFormat.Format(b.ID)
	}
	return bookings, total, nil
}

// StatusHistory returns the recorded status changes of a booking
func (s *Service) StatusHistory(ctx context.Context, id int64) ([]*StatusChange, error) {
	if _, err := s.GetBooking(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListStatusHistory(ctx, id)
}

// UpdateBooking applies a partial update. Window ends are not checked
// against each other. Moving to a user-facing status notifies the customer.
func (s *Service) UpdateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*Booking, error) {
	ctx, span := tracer.Start(ctx, "bookings.UpdateBooking")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", id))

	b, err := s.updateBooking(ctx, id, req)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return b, nil
}

func (s *Service) updateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*Booking, error) {
	patch, err := toPatch(req)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return s.GetBooking(ctx, id)
	}
	if patch.Status != nil && s.opts.EnforceTransitions {
		patch.Guard = transitionGuard(*patch.Status)
	}

	updated, previous, err := s.repo.UpdateBooking(ctx, id, patch)
	if err != nil {
		var terr *TransitionError
		switch {
		case errors.As(err, &terr):
			return nil, common.NewBadRequestError(terr.Error(), err)
		case database.IsNoRows(err):
			return nil, common.NewNotFoundError(fmt.Sprintf("booking %d not found", id), err)
		case database.IsTransient(err):
			return nil, common.NewServiceUnavailableError("bookings temporarily unavailable", err)
		}
		return nil, err
	}
	updated.BookingID = s.opts.IDFormat.Format(updated.ID)

	logger.WithContext(ctx).Info("booking updated", zap.String("booking_id", updated.BookingID))

	if patch.Status != nil && *patch.Status != previous {
		statusChanges.WithLabelValues(string(updated.Status)).Inc()
		s.onStatusChanged(ctx, previous, updated)
	}
	return updated, nil
}

// transitionGuard rejects moves to to that the transition table forbids
func transitionGuard(to Status) func(from Status) error {
	return func(from Status) error {
		if !CanTransition(from, to) {
			return &TransitionError{From: from, To: to}
		}
		return nil
	}
}

func toPatch(req *UpdateBookingRequest) (*Patch, error) {
	patch := &Patch{}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, common.NewBadRequestError(fmt.Sprintf("invalid status %q", *req.Status), nil)
		}
		patch.Status = req.Status
	}
	if req.ScheduledWindow != nil {
		patch.WindowStart = req.ScheduledWindow.Start
		patch.WindowEnd = req.ScheduledWindow.End
	}
	if req.AddressText != nil {
		address := strings.TrimSpace(*req.AddressText)
		patch.AddressText = &address
	}
	if req.GeoPoint != nil {
		encoded, err := req.GeoPoint.Encode()
		if err != nil {
			return nil, common.NewBadRequestError("invalid geo point", err)
		}
		patch.GeoPoint = &encoded
	}
	return patch, nil
}

// statusTemplates maps user-facing statuses to their message template
var statusTemplates = map[Status]notifications.TemplateKey{
	StatusOnTheWay:  notifications.TemplateOnTheWay,
	StatusFinished:  notifications.TemplateReview,
	StatusCanceled:  notifications.TemplateCanceled,
	StatusPostponed: notifications.TemplatePostponed,
}

func (s *Service) onStatusChanged(ctx context.Context, from Status, b *Booking) {
	eventbus.PublishAsync(ctx, s.events, eventbus.SubjectBookingStatusChanged, &StatusChangedEvent{
		ID:        b.ID,
		BookingID: b.BookingID,
		From:      from,
		To:        b.Status,
	})

	template, ok := statusTemplates[b.Status]
	if !ok || s.dispatcher == nil {
		return
	}

	customer, err := s.customers.Get(ctx, b.CustomerID)
	if err != nil {
		logger.WithContext(ctx).Warn("failed to load customer for status notification",
			zap.String("booking_id", b.BookingID),
			zap.Error(err),
		)
		return
	}

	s.notify(ctx, customer.Phone, template, s.opts.DefaultLang, map[string]string{
		"booking_id":  b.BookingID,
		"date":        s.localDate(b.ScheduledWindow.Start),
		"review_link": s.opts.ReviewURL,
	})
}

// localDate renders t for a customer message in the booking timezone
func (s *Service) localDate(t time.Time) string {
	return t.In(s.opts.Location).Format(dateLayout)
}

// notify queues a message and returns its id, or nil without a dispatcher
func (s *Service) notify(ctx context.Context, phone string, template notifications.TemplateKey, lang string, vars map[string]string) *string {
	if s.dispatcher == nil {
		return nil
	}
	id := s.dispatcher.Enqueue(ctx, &notifications.Message{
		Phone:    phone,
		Template: template,
		Vars:     vars,
		Lang:     lang,
	})
	return &id
}

func serviceName(svc *catalog.WashService, lang string) string {
	if lang == "en" {
		return svc.NameEn
	}
	return svc.NameAr
}
