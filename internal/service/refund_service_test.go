package service

import (
	"context"
	"testing"

	"github.com/spacehub/spacehub-backend/internal/model"
)

type refundFixture struct {
	refunds  RefundService
	payments PaymentService
	wallet   WalletService

	paymentRepo *fakePaymentRepo
	walletRepo  *fakeWalletRepo
	notifier    *fakeNotifier
}

func newRefundFixture() *refundFixture {
	paymentRepo := newFakePaymentRepo()
	refundRepo := newFakeRefundRepo()
	quoteRepo := newFakeQuoteRepo()
	walletRepo := newFakeWalletRepo()
	notifier := &fakeNotifier{}
	wallet := NewWalletService(walletRepo, notifier)
	return &refundFixture{
		refunds:     NewRefundService(refundRepo, paymentRepo, wallet, notifier),
		payments:    NewPaymentService(paymentRepo, quoteRepo, wallet, notifier),
		wallet:      wallet,
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		notifier:    notifier,
	}
}

// completedPayment seeds a completed payment whose payout already sits in the
// host wallet.
func (f *refundFixture) completedPayment(t *testing.T, amount int64) *model.Payment {
	t.Helper()
	ctx := context.Background()
	fee := ServiceFee(amount)
	p := &model.Payment{
		RefCode:     "ref-test",
		QuoteID:     1,
		GuestUID:    "guest",
		HostUID:     "host",
		Amount:      amount,
		ServiceFee:  fee,
		TotalAmount: amount + fee,
		Status:      model.PaymentStatusPending,
	}
	if err := f.paymentRepo.Create(ctx, p); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	done, err := f.payments.Complete(ctx, p.ID, "guest")
	if err != nil {
		t.Fatalf("complete payment: %v", err)
	}
	return done
}

func TestRefundLifecycle(t *testing.T) {
	f := newRefundFixture()
	ctx := context.Background()
	p := f.completedPayment(t, 100000)

	rf, err := f.refunds.Request(ctx, p.ID, "guest", "event canceled")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if rf.Status != model.RefundStatusRequested {
		t.Fatalf("status = %s, want requested", rf.Status)
	}
	if rf.OriginalAmount != 100000 {
		t.Fatalf("original amount = %d, want 100000", rf.OriginalAmount)
	}

	if _, err := f.refunds.MarkProcessing(ctx, rf.ID, "host"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}

	done, err := f.refunds.Complete(ctx, rf.ID, "host", nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != model.RefundStatusCompleted || done.CompletedAt == nil {
		t.Fatalf("expected completed refund with stamp")
	}
	if done.RefundAmount == nil || *done.RefundAmount != 100000 {
		t.Fatalf("refund amount = %v, want 100000", done.RefundAmount)
	}

	// payment moved to refunded, keeping its paidAt
	updated, _ := f.paymentRepo.FindByID(ctx, p.ID)
	if updated.Status != model.PaymentStatusRefunded {
		t.Fatalf("payment status = %s, want refunded", updated.Status)
	}
	if updated.PaidAt == nil || updated.RefundedAt == nil {
		t.Fatalf("expected paidAt retained and refundedAt stamped")
	}

	// payout clawed back
	w, _ := f.wallet.Get(ctx, "host")
	if w.Cash != 0 {
		t.Fatalf("host wallet = %d, want 0", w.Cash)
	}
	if f.notifier.countType(model.NotificationTypeRefundCompleted) != 1 {
		t.Fatalf("expected one refund_completed notification")
	}
}

func TestRefundPartialAmount(t *testing.T) {
	f := newRefundFixture()
	ctx := context.Background()
	p := f.completedPayment(t, 100000)

	rf, err := f.refunds.Request(ctx, p.ID, "guest", "half the rooms unusable")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := f.refunds.MarkProcessing(ctx, rf.ID, "host"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}

	bad := int64(100001)
	if _, err := f.refunds.Complete(ctx, rf.ID, "host", &bad); err == nil {
		t.Fatalf("expected error for amount over the original")
	}
	zero := int64(0)
	if _, err := f.refunds.Complete(ctx, rf.ID, "host", &zero); err == nil {
		t.Fatalf("expected error for zero amount")
	}

	half := int64(50000)
	done, err := f.refunds.Complete(ctx, rf.ID, "host", &half)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.RefundAmount == nil || *done.RefundAmount != 50000 {
		t.Fatalf("refund amount = %v, want 50000", done.RefundAmount)
	}
	w, _ := f.wallet.Get(ctx, "host")
	if w.Cash != 50000 {
		t.Fatalf("host wallet = %d, want 50000", w.Cash)
	}
}

func TestRefundTransitionsAreForwardOnly(t *testing.T) {
	f := newRefundFixture()
	ctx := context.Background()
	p := f.completedPayment(t, 60000)

	rf, err := f.refunds.Request(ctx, p.ID, "guest", "reason")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// complete requires processing first
	if _, err := f.refunds.Complete(ctx, rf.ID, "host", nil); err != ErrInvalidTransition {
		t.Fatalf("Complete from requested err = %v, want ErrInvalidTransition", err)
	}
	if _, err := f.refunds.MarkProcessing(ctx, rf.ID, "host"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if _, err := f.refunds.MarkProcessing(ctx, rf.ID, "host"); err != ErrInvalidTransition {
		t.Fatalf("second MarkProcessing err = %v, want ErrInvalidTransition", err)
	}
	if _, err := f.refunds.Complete(ctx, rf.ID, "host", nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := f.refunds.Reject(ctx, rf.ID, "host"); err != ErrInvalidTransition {
		t.Fatalf("Reject after complete err = %v, want ErrInvalidTransition", err)
	}
}

func TestRefundRequestGuards(t *testing.T) {
	f := newRefundFixture()
	ctx := context.Background()
	p := f.completedPayment(t, 60000)

	if _, err := f.refunds.Request(ctx, p.ID, "stranger", ""); err != ErrForbidden {
		t.Fatalf("stranger Request err = %v, want ErrForbidden", err)
	}

	rf, err := f.refunds.Request(ctx, p.ID, "guest", "reason")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := f.refunds.Request(ctx, p.ID, "guest", "again"); err != ErrRefundExists {
		t.Fatalf("duplicate Request err = %v, want ErrRefundExists", err)
	}

	// a rejected refund frees the payment for a new request
	if _, err := f.refunds.Reject(ctx, rf.ID, "host"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := f.refunds.Request(ctx, p.ID, "guest", "second try"); err != nil {
		t.Fatalf("Request after reject: %v", err)
	}
}

func TestRefundRequiresCompletedPayment(t *testing.T) {
	f := newRefundFixture()
	ctx := context.Background()

	p := &model.Payment{
		RefCode: "ref-pending", QuoteID: 1, GuestUID: "guest", HostUID: "host",
		Amount: 60000, Status: model.PaymentStatusPending,
	}
	if err := f.paymentRepo.Create(ctx, p); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	if _, err := f.refunds.Request(ctx, p.ID, "guest", ""); err != ErrInvalidTransition {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestRefundCompleteInsufficientWallet(t *testing.T) {
	f := newRefundFixture()
	ctx := context.Background()
	p := f.completedPayment(t, 60000)

	// drain the payout before the refund settles
	if _, err := f.wallet.Deduct(ctx, "host", 60000, "withdrawal"); err != nil {
		t.Fatalf("Deduct: %v", err)
	}

	rf, err := f.refunds.Request(ctx, p.ID, "guest", "reason")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := f.refunds.MarkProcessing(ctx, rf.ID, "host"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if _, err := f.refunds.Complete(ctx, rf.ID, "host", nil); err != ErrInsufficientBalance {
		t.Fatalf("Complete err = %v, want ErrInsufficientBalance", err)
	}
	// refund stays processing, payment stays completed
	stuck, _ := f.refunds.Get(ctx, rf.ID, "host")
	if stuck.Status != model.RefundStatusProcessing {
		t.Fatalf("refund status = %s, want processing", stuck.Status)
	}
	pay, _ := f.paymentRepo.FindByID(ctx, p.ID)
	if pay.Status != model.PaymentStatusCompleted {
		t.Fatalf("payment status = %s, want completed", pay.Status)
	}
}
