package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacehub/spacehub-backend/internal/metrics"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrAlreadyPaid = errors.New("already_paid")
var ErrInvalidTransition = errors.New("invalid_transition")

// ServiceFee is the 5% platform fee, rounded half up, computed from the
// pre-fee amount only.
func ServiceFee(amount int64) int64 {
	return int64(math.Round(float64(amount) * 0.05))
}

type PaymentService interface {
	CreateFromQuote(ctx context.Context, quoteID uint64, guestUID, paymentMethod string) (*model.Payment, error)
	Get(ctx context.Context, id uint64, uid string) (*model.Payment, error)
	Complete(ctx context.Context, id uint64, guestUID string) (*model.Payment, error)
	Cancel(ctx context.Context, id uint64, guestUID string) (*model.Payment, error)
	ListByGuest(ctx context.Context, guestUID string) ([]model.Payment, error)
	ListByHost(ctx context.Context, hostUID string) ([]model.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	quoteRepo   repository.QuoteRepository
	wallet      WalletService
	notify      NotificationService
}

func NewPaymentService(paymentRepo repository.PaymentRepository, quoteRepo repository.QuoteRepository, wallet WalletService, notify NotificationService) PaymentService {
	return &paymentService{paymentRepo: paymentRepo, quoteRepo: quoteRepo, wallet: wallet, notify: notify}
}

func (s *paymentService) CreateFromQuote(ctx context.Context, quoteID uint64, guestUID, paymentMethod string) (*model.Payment, error) {
	if guestUID == "" {
		return nil, errors.New("guest is required")
	}
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if q.GuestUID != guestUID {
		return nil, ErrForbidden
	}
	// One non-canceled payment per quote.
	if existing, err := s.paymentRepo.FindActiveByQuote(ctx, quoteID); err == nil && existing != nil {
		return existing, ErrAlreadyPaid
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fee := ServiceFee(q.Price)
	p := &model.Payment{
		RefCode:       uuid.NewString(),
		QuoteID:       quoteID,
		GuestUID:      q.GuestUID,
		HostUID:       q.HostUID,
		Amount:        q.Price,
		ServiceFee:    fee,
		TotalAmount:   q.Price + fee,
		Status:        model.PaymentStatusPending,
		PaymentMethod: strings.TrimSpace(paymentMethod),
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	metrics.PaymentsCreated.Inc()
	s.notify.Notify(ctx, q.HostUID, model.NotificationTypePaymentCreated,
		"Checkout started",
		fmt.Sprintf("The guest started checkout on your quote for %s.", q.SpaceName),
		&q.RequestID, &q.ID, &p.ID)
	return p, nil
}

func (s *paymentService) Get(ctx context.Context, id uint64, uid string) (*model.Payment, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if uid != "" && uid != p.GuestUID && uid != p.HostUID {
		return nil, ErrForbidden
	}
	return p, nil
}

// Complete moves pending to completed, stamps paidAt and credits the host
// wallet with the pre-fee amount.
func (s *paymentService) Complete(ctx context.Context, id uint64, guestUID string) (*model.Payment, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.GuestUID != guestUID {
		return nil, ErrForbidden
	}
	if p.Status != model.PaymentStatusPending {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	p.Status = model.PaymentStatusCompleted
	p.PaidAt = &now
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	metrics.PaymentsCompleted.Inc()
	metrics.ServiceFeeCollected.Add(float64(p.ServiceFee))
	if _, err := s.wallet.Charge(ctx, p.HostUID, p.Amount, nil, fmt.Sprintf("payout for payment %s", p.RefCode)); err != nil {
		log.Printf("wallet credit failed payment=%d host=%s: %v", p.ID, p.HostUID, err)
	}
	s.notify.Notify(ctx, p.HostUID, model.NotificationTypePaymentCompleted,
		"Payment completed",
		fmt.Sprintf("Payment of %d was completed.", p.TotalAmount),
		nil, &p.QuoteID, &p.ID)
	s.notify.Notify(ctx, p.GuestUID, model.NotificationTypePaymentCompleted,
		"Payment completed",
		fmt.Sprintf("Your payment of %d was completed.", p.TotalAmount),
		nil, &p.QuoteID, &p.ID)
	return p, nil
}

func (s *paymentService) Cancel(ctx context.Context, id uint64, guestUID string) (*model.Payment, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.GuestUID != guestUID {
		return nil, ErrForbidden
	}
	if p.Status != model.PaymentStatusPending {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	p.Status = model.PaymentStatusCanceled
	p.CanceledAt = &now
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, p.HostUID, model.NotificationTypePaymentCanceled,
		"Payment canceled",
		"The guest canceled checkout before paying.",
		nil, &p.QuoteID, &p.ID)
	return p, nil
}

func (s *paymentService) ListByGuest(ctx context.Context, guestUID string) ([]model.Payment, error) {
	if guestUID == "" {
		return nil, errors.New("guest is required")
	}
	return s.paymentRepo.ListByGuest(ctx, guestUID)
}

func (s *paymentService) ListByHost(ctx context.Context, hostUID string) ([]model.Payment, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	return s.paymentRepo.ListByHost(ctx, hostUID)
}
