package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spacehub/spacehub-backend/internal/metrics"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrRefundExists = errors.New("refund_exists")

type RefundService interface {
	Request(ctx context.Context, paymentID uint64, guestUID, reason string) (*model.Refund, error)
	Get(ctx context.Context, id uint64, uid string) (*model.Refund, error)
	ListMine(ctx context.Context, uid string) ([]model.Refund, error)
	MarkProcessing(ctx context.Context, id uint64, hostUID string) (*model.Refund, error)
	Complete(ctx context.Context, id uint64, hostUID string, refundAmount *int64) (*model.Refund, error)
	Reject(ctx context.Context, id uint64, hostUID string) (*model.Refund, error)
}

type refundService struct {
	refundRepo  repository.RefundRepository
	paymentRepo repository.PaymentRepository
	wallet      WalletService
	notify      NotificationService
}

func NewRefundService(refundRepo repository.RefundRepository, paymentRepo repository.PaymentRepository, wallet WalletService, notify NotificationService) RefundService {
	return &refundService{refundRepo: refundRepo, paymentRepo: paymentRepo, wallet: wallet, notify: notify}
}

func (s *refundService) Request(ctx context.Context, paymentID uint64, guestUID, reason string) (*model.Refund, error) {
	if guestUID == "" {
		return nil, errors.New("guest is required")
	}
	p, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.GuestUID != guestUID {
		return nil, ErrForbidden
	}
	if p.Status != model.PaymentStatusCompleted {
		return nil, ErrInvalidTransition
	}
	if existing, err := s.refundRepo.FindByPayment(ctx, paymentID); err == nil && existing != nil {
		if existing.Status != model.RefundStatusRejected {
			return existing, ErrRefundExists
		}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rf := &model.Refund{
		PaymentID:      paymentID,
		GuestUID:       p.GuestUID,
		HostUID:        p.HostUID,
		OriginalAmount: p.Amount,
		RefundReason:   strings.TrimSpace(reason),
		Status:         model.RefundStatusRequested,
	}
	if err := s.refundRepo.Create(ctx, rf); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, p.HostUID, model.NotificationTypeRefundRequested,
		"Refund requested",
		fmt.Sprintf("The guest requested a refund on payment %s.", p.RefCode),
		nil, &p.QuoteID, &p.ID)
	return rf, nil
}

func (s *refundService) Get(ctx context.Context, id uint64, uid string) (*model.Refund, error) {
	rf, err := s.refundRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if uid != rf.GuestUID && uid != rf.HostUID {
		return nil, ErrForbidden
	}
	return rf, nil
}

func (s *refundService) ListMine(ctx context.Context, uid string) ([]model.Refund, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	return s.refundRepo.ListByUser(ctx, uid)
}

func (s *refundService) MarkProcessing(ctx context.Context, id uint64, hostUID string) (*model.Refund, error) {
	rf, err := s.refundRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rf.HostUID != hostUID {
		return nil, ErrForbidden
	}
	if rf.Status != model.RefundStatusRequested {
		return nil, ErrInvalidTransition
	}
	rf.Status = model.RefundStatusProcessing
	if err := s.refundRepo.Update(ctx, rf); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, rf.GuestUID, model.NotificationTypeRefundProcessing,
		"Refund in progress",
		"Your refund request is being processed.",
		nil, nil, &rf.PaymentID)
	return rf, nil
}

// Complete finishes the refund: the refund row gets its amount and
// completion stamp, the payment moves completed -> refunded keeping paidAt,
// and the payout is clawed back from the host wallet.
func (s *refundService) Complete(ctx context.Context, id uint64, hostUID string, refundAmount *int64) (*model.Refund, error) {
	rf, err := s.refundRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rf.HostUID != hostUID {
		return nil, ErrForbidden
	}
	if rf.Status != model.RefundStatusProcessing {
		return nil, ErrInvalidTransition
	}
	p, err := s.paymentRepo.FindByID(ctx, rf.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Status != model.PaymentStatusCompleted {
		return nil, ErrInvalidTransition
	}

	amount := rf.OriginalAmount
	if refundAmount != nil {
		if *refundAmount <= 0 || *refundAmount > rf.OriginalAmount {
			return nil, errors.New("invalid refund amount")
		}
		amount = *refundAmount
	}
	if _, err := s.wallet.Deduct(ctx, hostUID, amount, fmt.Sprintf("refund for payment %s", p.RefCode)); err != nil {
		return nil, err
	}

	now := time.Now()
	rf.Status = model.RefundStatusCompleted
	rf.RefundAmount = &amount
	rf.CompletedAt = &now
	if err := s.refundRepo.Update(ctx, rf); err != nil {
		return nil, err
	}
	p.Status = model.PaymentStatusRefunded
	p.RefundedAt = &now
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	metrics.RefundsCompleted.Inc()
	s.notify.Notify(ctx, rf.GuestUID, model.NotificationTypeRefundCompleted,
		"Refund completed",
		fmt.Sprintf("%d was refunded for payment %s.", amount, p.RefCode),
		nil, &p.QuoteID, &p.ID)
	return rf, nil
}

func (s *refundService) Reject(ctx context.Context, id uint64, hostUID string) (*model.Refund, error) {
	rf, err := s.refundRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rf.HostUID != hostUID {
		return nil, ErrForbidden
	}
	if rf.Status != model.RefundStatusRequested && rf.Status != model.RefundStatusProcessing {
		return nil, ErrInvalidTransition
	}
	rf.Status = model.RefundStatusRejected
	if err := s.refundRepo.Update(ctx, rf); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, rf.GuestUID, model.NotificationTypeRefundRejected,
		"Refund rejected",
		"The host rejected your refund request.",
		nil, nil, &rf.PaymentID)
	return rf, nil
}
