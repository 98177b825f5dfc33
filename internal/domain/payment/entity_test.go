//go:build unit

package payment_test

import (
	"testing"
	"time"

	"studiobook/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayment(amount float64) *payment.Payment {
	return payment.New(uuid.New(), amount, "ARS", payment.ProviderMercadoPago, "pref-1", uuid.New(), "payer@example.com", nil)
}

func TestApplyStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("transition sets paid at once", func(t *testing.T) {
		p := newPayment(100)

		assert.True(t, p.ApplyStatus(payment.StatusPending, now))
		assert.Nil(t, p.PaidAt())

		assert.True(t, p.ApplyStatus(payment.StatusApproved, now))
		require.NotNil(t, p.PaidAt())
		assert.Equal(t, now, *p.PaidAt())
	})

	t.Run("repeated transition is a no-op", func(t *testing.T) {
		p := newPayment(100)
		require.True(t, p.ApplyStatus(payment.StatusApproved, now))
		first := *p.PaidAt()

		assert.False(t, p.ApplyStatus(payment.StatusApproved, now.Add(time.Hour)))
		assert.Equal(t, payment.StatusApproved, p.Status())
		assert.Equal(t, first, *p.PaidAt())
	})

	t.Run("re-approval keeps the original paid at", func(t *testing.T) {
		p := newPayment(100)
		require.True(t, p.ApplyStatus(payment.StatusApproved, now))
		require.True(t, p.ApplyStatus(payment.StatusInProcess, now.Add(time.Minute)))

		assert.True(t, p.ApplyStatus(payment.StatusApproved, now.Add(time.Hour)))
		assert.Equal(t, now, *p.PaidAt())
	})
}

func TestLinkProviderPayment(t *testing.T) {
	p := newPayment(100)

	assert.False(t, p.LinkProviderPayment(""))
	assert.Nil(t, p.ProviderPaymentID())

	assert.True(t, p.LinkProviderPayment("mp-123"))
	require.NotNil(t, p.ProviderPaymentID())
	assert.Equal(t, "mp-123", *p.ProviderPaymentID())

	// First link wins; later events never overwrite it.
	assert.False(t, p.LinkProviderPayment("mp-456"))
	assert.Equal(t, "mp-123", *p.ProviderPaymentID())
}

func TestApplyRefund(t *testing.T) {
	t.Run("partial then completing refund", func(t *testing.T) {
		p := newPayment(100)

		require.NoError(t, p.ApplyRefund(30))
		assert.Equal(t, payment.StatusPartiallyRefunded, p.Status())
		assert.InDelta(t, 70, p.RemainingRefundable(), 1e-9)

		require.NoError(t, p.ApplyRefund(70))
		assert.Equal(t, payment.StatusRefunded, p.Status())
		assert.InDelta(t, 0, p.RemainingRefundable(), 1e-9)
	})

	t.Run("float drift within epsilon settles as refunded", func(t *testing.T) {
		p := newPayment(100)

		require.NoError(t, p.ApplyRefund(33.335))
		require.NoError(t, p.ApplyRefund(33.335))
		require.NoError(t, p.ApplyRefund(33.325))
		assert.Equal(t, payment.StatusRefunded, p.Status())
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		p := newPayment(100)
		assert.ErrorIs(t, p.ApplyRefund(0), payment.ErrNothingToRefund)
		assert.ErrorIs(t, p.ApplyRefund(-5), payment.ErrNothingToRefund)
	})
}

func TestRemainingRefundable(t *testing.T) {
	p := payment.Reconstruct(
		uuid.New(), uuid.New(),
		100, "ARS", payment.ProviderMercadoPago, "pref-1", nil,
		payment.StatusApproved, uuid.New(), "", 120, nil, nil,
		time.Now(), time.Now(),
	)
	assert.Zero(t, p.RemainingRefundable())
}

func TestStatusPredicates(t *testing.T) {
	assert.False(t, payment.StatusCreated.IsTerminal())
	assert.False(t, payment.StatusPending.IsTerminal())
	assert.False(t, payment.StatusInProcess.IsTerminal())
	assert.True(t, payment.StatusApproved.IsTerminal())
	assert.True(t, payment.StatusFailed.IsTerminal())
	assert.True(t, payment.StatusRefunded.IsTerminal())

	assert.True(t, payment.StatusRefunded.IsRefunded())
	assert.True(t, payment.StatusPartiallyRefunded.IsRefunded())
	assert.False(t, payment.StatusApproved.IsRefunded())
}
