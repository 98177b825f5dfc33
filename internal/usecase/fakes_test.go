//go:build unit

package usecase_test

import (
	"context"
	"time"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/payment"
	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/infra/repository"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
)

// In-memory stand-ins for the persistence ports. The transaction runner just
// invokes the closure; transactional semantics are covered by the e2e suite.

type fakeRunner struct {
	calls int
}

func (r *fakeRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	r.calls++
	return fn(ctx, nil)
}

func notFoundErr() error {
	return infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
}

type fakeBookingStore struct {
	bookings map[uuid.UUID]*booking.Booking
	overlap  bool

	locked    []uuid.UUID
	inserted  []*booking.Booking
	updated   []*booking.Booking
	paid      []uuid.UUID
	statuses  map[uuid.UUID]booking.Status
	overlapEx []uuid.UUID
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		bookings: make(map[uuid.UUID]*booking.Booking),
		statuses: make(map[uuid.UUID]booking.Status),
	}
}

func (s *fakeBookingStore) LockRoomSchedule(_ context.Context, _ db.DBTX, roomID uuid.UUID) error {
	s.locked = append(s.locked, roomID)
	return nil
}

func (s *fakeBookingStore) HasOverlap(_ context.Context, _ db.DBTX, _ uuid.UUID, _, _ time.Time, excludeID uuid.UUID) (bool, error) {
	s.overlapEx = append(s.overlapEx, excludeID)
	return s.overlap, nil
}

func (s *fakeBookingStore) Insert(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	s.inserted = append(s.inserted, b)
	s.bookings[b.ID()] = b
	return nil
}

func (s *fakeBookingStore) FindForUpdate(_ context.Context, _ db.DBTX, id, ownerID uuid.UUID) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok || b.UserID() != ownerID {
		return nil, notFoundErr()
	}
	return b, nil
}

func (s *fakeBookingStore) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, notFoundErr()
	}
	return b, nil
}

func (s *fakeBookingStore) UpdateSchedule(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	s.updated = append(s.updated, b)
	return nil
}

func (s *fakeBookingStore) MarkPaid(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	s.paid = append(s.paid, id)
	if b, ok := s.bookings[id]; ok {
		b.MarkPaid()
	}
	return nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status booking.Status) error {
	s.statuses[id] = status
	return nil
}

type fakePaymentStore struct {
	payments map[uuid.UUID]*payment.Payment

	upserted       []*payment.Payment
	linked         map[uuid.UUID]string
	statusUpdates  map[uuid.UUID]payment.Status
	refundsApplied []uuid.UUID
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{
		payments:      make(map[uuid.UUID]*payment.Payment),
		linked:        make(map[uuid.UUID]string),
		statusUpdates: make(map[uuid.UUID]payment.Status),
	}
}

func (s *fakePaymentStore) add(p *payment.Payment) {
	s.payments[p.ID()] = p
}

func (s *fakePaymentStore) UpsertActive(_ context.Context, _ db.DBTX, p *payment.Payment) (uuid.UUID, error) {
	s.upserted = append(s.upserted, p)
	s.payments[p.ID()] = p
	return p.ID(), nil
}

func (s *fakePaymentStore) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, notFoundErr()
	}
	return p, nil
}

func (s *fakePaymentStore) FindActiveByBooking(_ context.Context, _ db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	for _, p := range s.payments {
		if p.BookingID() == bookingID && !p.Status().IsTerminal() {
			return p, nil
		}
	}
	return nil, notFoundErr()
}

func (s *fakePaymentStore) FindLatestByBooking(_ context.Context, _ db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	for _, p := range s.payments {
		if p.BookingID() == bookingID {
			return p, nil
		}
	}
	return nil, notFoundErr()
}

func (s *fakePaymentStore) FindByPreferenceID(_ context.Context, _ db.DBTX, preferenceID string) (*payment.Payment, error) {
	for _, p := range s.payments {
		if p.PreferenceID() == preferenceID {
			return p, nil
		}
	}
	return nil, notFoundErr()
}

func (s *fakePaymentStore) FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	return s.FindByID(ctx, tx, id)
}

func (s *fakePaymentStore) LinkProviderPayment(_ context.Context, _ db.DBTX, id uuid.UUID, providerPaymentID string) error {
	s.linked[id] = providerPaymentID
	return nil
}

func (s *fakePaymentStore) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status payment.Status, _ *time.Time) error {
	s.statusUpdates[id] = status
	return nil
}

func (s *fakePaymentStore) ApplyRefund(_ context.Context, _ db.DBTX, p *payment.Payment) error {
	s.refundsApplied = append(s.refundsApplied, p.ID())
	return nil
}

type appendedEvent struct {
	paymentID *uuid.UUID
	eventType string
}

type fakeEventStore struct {
	events []appendedEvent
}

func (s *fakeEventStore) Append(_ context.Context, _ db.DBTX, paymentID *uuid.UUID, _, eventType string, _ []byte) error {
	s.events = append(s.events, appendedEvent{paymentID: paymentID, eventType: eventType})
	return nil
}

func (s *fakeEventStore) types() []string {
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.eventType
	}
	return out
}

type fakeConversationStore struct {
	conversationID uuid.UUID
}

func (s *fakeConversationStore) FindOrCreateForBooking(_ context.Context, _ db.DBTX, _, _, _, _ uuid.UUID) (uuid.UUID, error) {
	if s.conversationID == uuid.Nil {
		s.conversationID = uuid.New()
	}
	return s.conversationID, nil
}

type fakeNotificationStore struct {
	notified []uuid.UUID
}

func (s *fakeNotificationStore) NotifyUser(_ context.Context, _ db.DBTX, userID uuid.UUID, _ repository.NotificationPayload) error {
	s.notified = append(s.notified, userID)
	return nil
}

type fakeRoomReader struct {
	rooms    map[uuid.UUID]*queries.RoomView
	accounts map[uuid.UUID]*queries.AccountView
}

func newFakeRoomReader() *fakeRoomReader {
	return &fakeRoomReader{
		rooms:    make(map[uuid.UUID]*queries.RoomView),
		accounts: make(map[uuid.UUID]*queries.AccountView),
	}
}

func (r *fakeRoomReader) FindByID(_ context.Context, id uuid.UUID) (*queries.RoomView, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, notFoundErr()
	}
	return room, nil
}

func (r *fakeRoomReader) FindAccountByStudio(_ context.Context, studioID uuid.UUID, provider string) (*queries.AccountView, error) {
	for _, a := range r.accounts {
		if a.StudioID == studioID && a.Provider == provider {
			return a, nil
		}
	}
	return nil, notFoundErr()
}

func (r *fakeRoomReader) FindAccountByID(_ context.Context, id uuid.UUID) (*queries.AccountView, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, notFoundErr()
	}
	return a, nil
}

type fakeGatewaySelector struct {
	gateway paygate.Gateway
	err     error
}

func (s *fakeGatewaySelector) Select(string) (paygate.Gateway, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.gateway, nil
}

type fakeMPAPI struct {
	payments map[string]*paygate.MPPaymentInfo
	orders   map[int64]*paygate.MPMerchantOrder

	getPaymentCalls int
	failUntilCall   int
}

func newFakeMPAPI() *fakeMPAPI {
	return &fakeMPAPI{
		payments: make(map[string]*paygate.MPPaymentInfo),
		orders:   make(map[int64]*paygate.MPMerchantOrder),
	}
}

func (m *fakeMPAPI) GetPayment(_ context.Context, _, paymentID string) (*paygate.MPPaymentInfo, error) {
	m.getPaymentCalls++
	if m.getPaymentCalls <= m.failUntilCall {
		return nil, paygate.ErrMPPaymentNotFound
	}
	info, ok := m.payments[paymentID]
	if !ok {
		return nil, paygate.ErrMPPaymentNotFound
	}
	return info, nil
}

func (m *fakeMPAPI) GetMerchantOrder(_ context.Context, _ string, orderID int64) (*paygate.MPMerchantOrder, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, paygate.ErrMPPaymentNotFound
	}
	return order, nil
}
