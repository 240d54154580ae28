package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Okpara007/buzz4less/internal/model"
)

var adminRecipients = []string{"admin@buzz4less.example.com"}

func newWithdrawalService(store *memStore, mailer *fakeMailer) *WithdrawalService {
	logger := zap.NewNop()
	refs := NewReferralService(store, testCommissionRate, testBaseURL, logger)
	return NewWithdrawalService(store, refs, mailer, testBaseURL, adminRecipients, logger)
}

func withdrawalInput(amount string) WithdrawalInput {
	return WithdrawalInput{
		Name:           "Alice Doe",
		Email:          "alice@example.com",
		Method:         model.WithdrawalMethodPayPal,
		Amount:         decimal.RequireFromString(amount),
		PayPalUsername: strPtr("alice-pays"),
	}
}

// seedEarnings gives referrerID exactly the given payable total through one
// referred user's record.
func seedEarnings(t *testing.T, store *memStore, referrerID int64, total string) {
	t.Helper()
	referred := seedReferredUser(t, store, "earner", referrerID)
	require.NoError(t, store.CreditEarnings(context.Background(), referred.ID, decimal.RequireFromString(total)))
}

func TestSubmitBelowMinimum(t *testing.T) {
	store := newMemStore()
	mailer := &fakeMailer{}
	svc := newWithdrawalService(store, mailer)
	alice := seedUser(t, store, "alice")
	seedEarnings(t, store, alice.ID, "100")

	_, err := svc.Submit(context.Background(), alice.ID, withdrawalInput("9.99"))
	require.ErrorIs(t, err, ErrAmountBelowMinimum)
	require.Empty(t, store.withdrawals)
	require.Empty(t, mailer.sent)
}

func TestSubmitBounds(t *testing.T) {
	store := newMemStore()
	svc := newWithdrawalService(store, &fakeMailer{})
	alice := seedUser(t, store, "alice")
	seedEarnings(t, store, alice.ID, "50")

	// One cent over the payable total is rejected; exactly the total is
	// accepted.
	_, err := svc.Submit(context.Background(), alice.ID, withdrawalInput("50.01"))
	require.ErrorIs(t, err, ErrAmountExceedsEarnings)

	w, err := svc.Submit(context.Background(), alice.ID, withdrawalInput("50"))
	require.NoError(t, err)
	require.True(t, w.Amount.Equal(decimal.RequireFromString("50")))
	require.Len(t, store.withdrawals, 1)
}

func TestSubmitExactMinimum(t *testing.T) {
	store := newMemStore()
	svc := newWithdrawalService(store, &fakeMailer{})
	alice := seedUser(t, store, "alice")
	seedEarnings(t, store, alice.ID, "10")

	_, err := svc.Submit(context.Background(), alice.ID, withdrawalInput("10"))
	require.NoError(t, err)
}

func TestSubmitInvalidMethod(t *testing.T) {
	store := newMemStore()
	svc := newWithdrawalService(store, &fakeMailer{})
	alice := seedUser(t, store, "alice")
	seedEarnings(t, store, alice.ID, "100")

	in := withdrawalInput("20")
	in.Method = "venmo"
	_, err := svc.Submit(context.Background(), alice.ID, in)
	require.ErrorIs(t, err, ErrInvalidWithdrawalMethod)
}

func TestSubmitNotifiesAdmins(t *testing.T) {
	store := newMemStore()
	mailer := &fakeMailer{}
	svc := newWithdrawalService(store, mailer)
	alice := seedUser(t, store, "alice")
	seedEarnings(t, store, alice.ID, "100")

	_, err := svc.Submit(context.Background(), alice.ID, withdrawalInput("25.50"))
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, adminRecipients, mailer.sent[0].To)
	require.Equal(t, "paypal withdrawal", mailer.sent[0].Subject)
	require.Contains(t, mailer.sent[0].Body, "$25.50")
}

func TestSubmitNotificationFailure(t *testing.T) {
	store := newMemStore()
	svc := newWithdrawalService(store, &fakeMailer{err: errProviderDown})
	alice := seedUser(t, store, "alice")
	seedEarnings(t, store, alice.ID, "100")

	_, err := svc.Submit(context.Background(), alice.ID, withdrawalInput("20"))
	require.Error(t, err)
	// The row is already written; only the notification failed.
	require.Len(t, store.withdrawals, 1)
}
