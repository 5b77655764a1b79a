package service

import (
	"context"
	"log"

	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/notifcache"
	"github.com/spacehub/spacehub-backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, userUID, typ, title, body string, requestID, quoteID, paymentID *uint64)
	List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, userUID string, id uint64) error
	MarkMessagesRead(ctx context.Context, userUID string, requestID uint64) error
	MarkAllRead(ctx context.Context, userUID string) error
}

type notificationService struct {
	repo  repository.NotificationRepository
	cache *notifcache.Cache
}

func NewNotificationService(repo repository.NotificationRepository, cache *notifcache.Cache) NotificationService {
	return &notificationService{repo: repo, cache: cache}
}

// Notify is best-effort; it logs errors but does not return them to avoid breaking main flows.
func (s *notificationService) Notify(ctx context.Context, userUID, typ, title, body string, requestID, quoteID, paymentID *uint64) {
	if userUID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		UserUID:   userUID,
		Type:      typ,
		Title:     title,
		Body:      body,
		RequestID: requestID,
		QuoteID:   quoteID,
		PaymentID: paymentID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("notify failed uid=%s type=%s: %v", userUID, typ, err)
		return
	}
	s.cache.Invalidate(ctx, userUID)
}

func (s *notificationService) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userUID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userUID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, ok := s.cache.GetUnread(ctx, userUID)
	if !ok {
		cnt, err = s.repo.CountUnread(ctx, userUID)
		if err != nil {
			return list, 0, err
		}
		s.cache.SetUnread(ctx, userUID, cnt)
	}
	return list, cnt, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userUID string, id uint64) error {
	if userUID == "" {
		return nil
	}
	n, err := s.repo.MarkRead(ctx, userUID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.cache.Invalidate(ctx, userUID)
	}
	return nil
}

// MarkMessagesRead clears the message notifications a conversation produced
// for its request.
func (s *notificationService) MarkMessagesRead(ctx context.Context, userUID string, requestID uint64) error {
	if userUID == "" {
		return nil
	}
	n, err := s.repo.MarkReadByRequest(ctx, userUID, requestID, model.NotificationTypeMessageReceived)
	if err != nil {
		return err
	}
	if n > 0 {
		s.cache.Invalidate(ctx, userUID)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string) error {
	if userUID == "" {
		return nil
	}
	if err := s.repo.MarkAllRead(ctx, userUID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userUID)
	return nil
}
