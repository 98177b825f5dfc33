//go:build e2e

package payment_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"studiobook/internal/domain/payment"
	"studiobook/internal/handler/dto/response"
	"studiobook/internal/infra/db"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/infra/readstore"
	"studiobook/internal/infra/repository"
	"studiobook/internal/pkg/clock"
	"studiobook/internal/usecase"
	"studiobook/tests/common/authtest"
	"studiobook/tests/common/builder"
	"studiobook/tests/common/dbtest"
	"studiobook/tests/common/httptest"
	"studiobook/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PaymentSuite struct {
	e2e.SharedSuite
}

func (s *PaymentSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestPaymentSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PaymentSuite))
}

// mpStub serves the provider endpoints the payment flows call, so the real
// HTTP client and gateway run unmodified against a local server.
type mpStub struct {
	mu       sync.Mutex
	prefSeq  int
	payments map[string]map[string]any
}

func newMPStub() *mpStub {
	return &mpStub{payments: make(map[string]map[string]any)}
}

func (m *mpStub) setPayment(id string, info map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[id] = info
}

func (m *mpStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/checkout/preferences":
		m.prefSeq++
		writeJSON(w, map[string]any{
			"id":         fmt.Sprintf("pref-%d", m.prefSeq),
			"init_point": "https://provider.test/checkout",
		})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/payments/"):
		id := strings.TrimPrefix(r.URL.Path, "/v1/payments/")
		info, ok := m.payments[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, info)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *PaymentSuite) seedStudioRoom(t *testing.T) (roomID, studioID uuid.UUID) {
	t.Helper()

	studioID = dbtest.CreateTestStudio(t, s.DB, "Groove Studio", uuid.New())
	roomID = dbtest.CreateTestRoom(t, s.DB, studioID, "Rehearsal Room A",
		50, "UTC", dbtest.WeekdayHours("09:00-18:00"))
	return roomID, studioID
}

func (s *PaymentSuite) reserveBooking(t *testing.T, roomID, userID uuid.UUID) uuid.UUID {
	t.Helper()

	token := authtest.TokenFor(t, s.Config, userID, "user")
	w := httptest.PerformRequest(t, s.Router, http.MethodPost,
		"/api/bookings/rooms/"+roomID.String()+"/reserve",
		builder.NewBookingBuilder().BuildCreateRequestDTO(), token)

	var created response.CreateBookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
	return created.IDBooking
}

// paymentUsecase wires the production payment stack over the suite's pool,
// pointing the provider client at the stub server.
func (s *PaymentSuite) paymentUsecase(baseURL string) usecase.PaymentUsecase {
	client := paygate.NewMercadoPagoClient(baseURL)
	gw := paygate.NewMercadoPagoGateway(client, s.Config.Payments)
	return usecase.NewPaymentUsecase(
		db.NewPoolRunner(s.DB), s.DB,
		repository.NewBookingRepository(), repository.NewPaymentRepository(),
		repository.NewPaymentEventRepository(), readstore.NewRoomReadStore(s.DB),
		paygate.NewDispatcher(payment.ProviderMercadoPago, gw),
		clock.NewRealClock(),
	)
}

func (s *PaymentSuite) webhookUsecase(baseURL string) usecase.WebhookUsecase {
	return usecase.NewWebhookUsecase(
		db.NewPoolRunner(s.DB), s.DB,
		repository.NewBookingRepository(), repository.NewPaymentRepository(),
		repository.NewPaymentEventRepository(), repository.NewNotificationRepository(),
		readstore.NewRoomReadStore(s.DB),
		paygate.NewMercadoPagoClient(baseURL),
		clock.NewRealClock(),
	)
}

func (s *PaymentSuite) TestCreateForBooking() {
	s.Run("Concurrency: simultaneous creations share one active row", func() {
		t := s.T()
		ctx := context.Background()

		roomID, studioID := s.seedStudioRoom(t)
		dbtest.CreateTestPaymentAccount(t, s.DB, studioID, "mercadopago", "APP_USR-test-token")
		userID := uuid.New()
		bookingID := s.reserveBooking(t, roomID, userID)

		stub := newMPStub()
		srv := nethttptest.NewServer(stub)
		defer srv.Close()
		uc := s.paymentUsecase(srv.URL)

		// Two clients race to open a payment for the same booking. The
		// partial unique index collapses both onto one row.
		results := make([]*usecase.PaymentInitResult, 2)
		errors := make([]error, 2)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errors[i] = uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
					BookingID:  bookingID,
					UserID:     userID,
					PayerEmail: "payer@example.com",
				})
			}(i)
		}
		wg.Wait()

		require.NoError(t, errors[0])
		require.NoError(t, errors[1])
		require.Equal(t, results[0].PaymentID, results[1].PaymentID)

		var active int
		err := s.DB.QueryRow(ctx,
			"SELECT count(*) FROM payments WHERE booking_id = $1 AND status IN ('created', 'pending', 'in_process')",
			bookingID).Scan(&active)
		require.NoError(t, err)
		require.Equal(t, 1, active)
	})

	s.Run("Normal case: retried creation refreshes the same row", func() {
		t := s.T()
		ctx := context.Background()

		roomID, studioID := s.seedStudioRoom(t)
		dbtest.CreateTestPaymentAccount(t, s.DB, studioID, "mercadopago", "APP_USR-test-token")
		userID := uuid.New()
		bookingID := s.reserveBooking(t, roomID, userID)

		stub := newMPStub()
		srv := nethttptest.NewServer(stub)
		defer srv.Close()
		uc := s.paymentUsecase(srv.URL)

		input := usecase.CreatePaymentInput{
			BookingID:  bookingID,
			UserID:     userID,
			PayerEmail: "payer@example.com",
		}
		first, err := uc.CreateForBooking(ctx, input)
		require.NoError(t, err)
		second, err := uc.CreateForBooking(ctx, input)
		require.NoError(t, err)

		require.Equal(t, first.PaymentID, second.PaymentID)
		require.NotEqual(t, first.PreferenceID, second.PreferenceID)

		// The row carries the latest preference.
		var storedPreference string
		err = s.DB.QueryRow(ctx,
			"SELECT preference_id FROM payments WHERE id = $1", first.PaymentID).Scan(&storedPreference)
		require.NoError(t, err)
		require.Equal(t, second.PreferenceID, storedPreference)
	})
}

func (s *PaymentSuite) TestWebhook() {
	s.Run("Normal case: redelivered approval applies once", func() {
		t := s.T()
		ctx := context.Background()

		roomID, studioID := s.seedStudioRoom(t)
		accountID := dbtest.CreateTestPaymentAccount(t, s.DB, studioID, "mercadopago", "APP_USR-test-token")
		userID := uuid.New()
		bookingID := s.reserveBooking(t, roomID, userID)

		stub := newMPStub()
		srv := nethttptest.NewServer(stub)
		defer srv.Close()

		created, err := s.paymentUsecase(srv.URL).CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID:  bookingID,
			UserID:     userID,
			PayerEmail: "payer@example.com",
		})
		require.NoError(t, err)

		stub.setPayment("987654", map[string]any{
			"id":                 987654,
			"status":             "approved",
			"external_reference": "booking:" + bookingID.String(),
			"transaction_amount": 100,
			"currency_id":        "ARS",
			"metadata":           map[string]any{"booking_id": bookingID.String()},
		})

		whUC := s.webhookUsecase(srv.URL)
		input := usecase.WebhookInput{
			Topic:         "payment",
			ResourceID:    "987654",
			AccountIDHint: &accountID,
			Body:          []byte(`{"type":"payment","data":{"id":"987654"}}`),
		}

		first, err := whUC.Process(ctx, input)
		require.NoError(t, err)
		require.True(t, first.Matched)
		require.True(t, first.Applied)
		require.Equal(t, created.PaymentID, first.PaymentID)
		require.Equal(t, bookingID, first.BookingID)

		var firstPaidAt time.Time
		err = s.DB.QueryRow(ctx,
			"SELECT paid_at FROM payments WHERE id = $1", first.PaymentID).Scan(&firstPaidAt)
		require.NoError(t, err)

		// The provider redelivers the exact same event.
		second, err := whUC.Process(ctx, input)
		require.NoError(t, err)
		require.True(t, second.Matched)
		require.False(t, second.Applied)
		require.Equal(t, payment.StatusApproved.String(), second.Status)

		var status string
		var secondPaidAt time.Time
		err = s.DB.QueryRow(ctx,
			"SELECT status, paid_at FROM payments WHERE id = $1", first.PaymentID).Scan(&status, &secondPaidAt)
		require.NoError(t, err)
		require.Equal(t, "approved", status)
		require.True(t, firstPaidAt.Equal(secondPaidAt))

		var bookingStatus string
		err = s.DB.QueryRow(ctx,
			"SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&bookingStatus)
		require.NoError(t, err)
		require.Equal(t, "paid", bookingStatus)

		// Both deliveries land in the audit trail.
		var events int
		err = s.DB.QueryRow(ctx,
			"SELECT count(*) FROM payment_events WHERE payment_id = $1 AND event_type = 'webhook_payment'",
			first.PaymentID).Scan(&events)
		require.NoError(t, err)
		require.Equal(t, 2, events)
	})

	s.Run("Error case: event with no local payment is stored as unmatched", func() {
		t := s.T()
		ctx := context.Background()

		_, studioID := s.seedStudioRoom(t)
		accountID := dbtest.CreateTestPaymentAccount(t, s.DB, studioID, "mercadopago", "APP_USR-test-token")

		stub := newMPStub()
		srv := nethttptest.NewServer(stub)
		defer srv.Close()

		stub.setPayment("424242", map[string]any{
			"id":                 424242,
			"status":             "approved",
			"external_reference": "order:legacy-1",
			"transaction_amount": 10,
			"currency_id":        "ARS",
		})

		result, err := s.webhookUsecase(srv.URL).Process(ctx, usecase.WebhookInput{
			Topic:         "payment",
			ResourceID:    "424242",
			AccountIDHint: &accountID,
			Body:          []byte(`{"type":"payment","data":{"id":"424242"}}`),
		})
		require.NoError(t, err)
		require.False(t, result.Matched)

		var events int
		err = s.DB.QueryRow(ctx,
			"SELECT count(*) FROM payment_events WHERE event_type = 'webhook_unmatched'").Scan(&events)
		require.NoError(t, err)
		require.Equal(t, 1, events)
	})
}
