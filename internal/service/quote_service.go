package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spacehub/spacehub-backend/internal/metrics"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/repository"
	"gorm.io/gorm"
)

type QuoteItemInput struct {
	Name  string
	Price int64
}

type QuoteInput struct {
	SpaceName         string
	Price             int64
	Description       string
	EstimatedDuration string
	PhotoURL          *string
	Items             []QuoteItemInput
}

type QuoteService interface {
	Submit(ctx context.Context, requestID uint64, hostUID string, in QuoteInput) (*model.Quote, error)
	Get(ctx context.Context, id uint64, uid string) (*model.Quote, error)
	ListByRequest(ctx context.Context, requestID uint64, uid string) ([]model.Quote, error)
	ListByHost(ctx context.Context, hostUID string) ([]model.Quote, error)
}

type quoteService struct {
	quoteRepo   repository.QuoteRepository
	requestRepo repository.RequestRepository
	notify      NotificationService
}

func NewQuoteService(quoteRepo repository.QuoteRepository, requestRepo repository.RequestRepository, notify NotificationService) QuoteService {
	return &quoteService{quoteRepo: quoteRepo, requestRepo: requestRepo, notify: notify}
}

func (s *quoteService) Submit(ctx context.Context, requestID uint64, hostUID string, in QuoteInput) (*model.Quote, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.GuestUID == hostUID {
		return nil, errors.New("cannot quote your own request")
	}
	spaceName := strings.TrimSpace(in.SpaceName)
	if spaceName == "" {
		return nil, errors.New("space name is required")
	}
	if in.Price <= 0 {
		return nil, errors.New("price must be positive")
	}

	q := &model.Quote{
		RequestID:         requestID,
		GuestUID:          req.GuestUID,
		HostUID:           hostUID,
		SpaceName:         spaceName,
		Price:             in.Price,
		Description:       strings.TrimSpace(in.Description),
		EstimatedDuration: strings.TrimSpace(in.EstimatedDuration),
		PhotoURL:          in.PhotoURL,
		Status:            model.QuoteStatusUnread,
	}
	for _, it := range in.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, errors.New("item name is required")
		}
		q.Items = append(q.Items, model.QuoteItem{Name: name, Price: it.Price})
	}
	if err := s.quoteRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	if err := s.requestRepo.MarkQuoted(ctx, requestID); err != nil {
		return nil, err
	}
	metrics.QuotesSubmitted.Inc()
	s.notify.Notify(ctx, req.GuestUID, model.NotificationTypeQuoteReceived,
		"New quote received",
		fmt.Sprintf("A quote for %s arrived on your request.", spaceName),
		&requestID, &q.ID, nil)
	return q, nil
}

// Get marks the quote read on the guest's first view. The transition is
// one-way; later reads and host reads change nothing.
func (s *quoteService) Get(ctx context.Context, id uint64, uid string) (*model.Quote, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if uid != q.GuestUID && uid != q.HostUID {
		return nil, ErrForbidden
	}
	if uid == q.GuestUID && q.Status == model.QuoteStatusUnread {
		n, err := s.quoteRepo.MarkReadIfUnread(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			s.notify.Notify(ctx, q.HostUID, model.NotificationTypeQuoteRead,
				"Quote viewed",
				fmt.Sprintf("The guest viewed your quote for %s.", q.SpaceName),
				&q.RequestID, &q.ID, nil)
			return s.quoteRepo.FindByID(ctx, id)
		}
	}
	return q, nil
}

func (s *quoteService) ListByRequest(ctx context.Context, requestID uint64, uid string) ([]model.Quote, error) {
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.GuestUID != uid {
		return nil, ErrForbidden
	}
	return s.quoteRepo.ListByRequest(ctx, requestID)
}

func (s *quoteService) ListByHost(ctx context.Context, hostUID string) ([]model.Quote, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	return s.quoteRepo.ListByHost(ctx, hostUID)
}
