package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/repository"
	"gorm.io/gorm"
)

type ConversationService interface {
	OpenFromRequest(ctx context.Context, requestID uint64, callerUID, hostUID string) (*model.Conversation, error)
	ListByUser(ctx context.Context, uid string) ([]model.Conversation, error)
	ListMessages(ctx context.Context, convID uint64, uid string) ([]model.Message, error)
	PostMessage(ctx context.Context, convID uint64, uid, senderName, body string) error
	MarkRead(ctx context.Context, convID uint64, uid string) error
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	requestRepo repository.RequestRepository
	notify      NotificationService
}

func NewConversationService(convRepo repository.ConversationRepository, requestRepo repository.RequestRepository, notify NotificationService) ConversationService {
	return &conversationService{convRepo: convRepo, requestRepo: requestRepo, notify: notify}
}

// OpenFromRequest opens (or returns) the conversation between the request's
// guest and a host. A host opens it for themselves; the guest must name the
// host they want to talk to.
func (s *conversationService) OpenFromRequest(ctx context.Context, requestID uint64, callerUID, hostUID string) (*model.Conversation, error) {
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if callerUID == req.GuestUID {
		if hostUID == "" {
			return nil, errors.New("host uid is required")
		}
	} else {
		hostUID = callerUID
	}
	if hostUID == req.GuestUID {
		return nil, errors.New("cannot chat with yourself")
	}
	return s.convRepo.FindOrCreate(ctx, requestID, req.GuestUID, hostUID)
}

func (s *conversationService) ListByUser(ctx context.Context, uid string) ([]model.Conversation, error) {
	return s.convRepo.FindByUser(ctx, uid)
}

func (s *conversationService) ListMessages(ctx context.Context, convID uint64, uid string) ([]model.Message, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.GuestUID != uid && cv.HostUID != uid {
		return nil, ErrForbidden
	}
	return s.convRepo.ListMessages(ctx, convID)
}

func (s *conversationService) PostMessage(ctx context.Context, convID uint64, uid, senderName, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return errors.New("body is required")
	}
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if cv.GuestUID != uid && cv.HostUID != uid {
		return ErrForbidden
	}
	msg := &model.Message{
		ConversationID: convID,
		SenderUID:      uid,
		SenderName:     senderName,
		Body:           body,
	}
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return err
	}
	recipient := cv.GuestUID
	if uid == cv.GuestUID {
		recipient = cv.HostUID
	}
	s.notify.Notify(ctx, recipient, model.NotificationTypeMessageReceived,
		"New message", body, &cv.RequestID, nil, nil)
	return nil
}

// MarkRead clears the caller's message notifications for this conversation.
func (s *conversationService) MarkRead(ctx context.Context, convID uint64, uid string) error {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if cv.GuestUID != uid && cv.HostUID != uid {
		return ErrForbidden
	}
	return s.notify.MarkMessagesRead(ctx, uid, cv.RequestID)
}
