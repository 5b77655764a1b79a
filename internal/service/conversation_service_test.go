package service

import (
	"context"
	"testing"

	"github.com/spacehub/spacehub-backend/internal/model"
	"gorm.io/gorm"
)

type fakeConversationRepo struct {
	nextID        uint64
	conversations map[uint64]*model.Conversation
	messages      []model.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{nextID: 1, conversations: map[uint64]*model.Conversation{}}
}

func (r *fakeConversationRepo) FindOrCreate(ctx context.Context, requestID uint64, guestUID, hostUID string) (*model.Conversation, error) {
	for _, cv := range r.conversations {
		if cv.RequestID == requestID && cv.HostUID == hostUID {
			cp := *cv
			return &cp, nil
		}
	}
	cv := &model.Conversation{ID: r.nextID, RequestID: requestID, GuestUID: guestUID, HostUID: hostUID}
	r.nextID++
	r.conversations[cv.ID] = cv
	cp := *cv
	return &cp, nil
}

func (r *fakeConversationRepo) FindByUser(ctx context.Context, uid string) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, cv := range r.conversations {
		if cv.GuestUID == uid || cv.HostUID == uid {
			out = append(out, *cv)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	cv, ok := r.conversations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *cv
	return &cp, nil
}

func (r *fakeConversationRepo) CreateMessage(ctx context.Context, msg *model.Message) error {
	msg.ID = uint64(len(r.messages) + 1)
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, convID uint64) ([]model.Message, error) {
	var out []model.Message
	for _, m := range r.messages {
		if m.ConversationID == convID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) SetDB(db *gorm.DB) {}

func newConversationFixture(t *testing.T) (ConversationService, *fakeConversationRepo, *fakeRequestRepo, *fakeNotifier, *model.SpaceRequest) {
	t.Helper()
	convRepo := newFakeConversationRepo()
	requestRepo := newFakeRequestRepo()
	notifier := &fakeNotifier{}
	svc := NewConversationService(convRepo, requestRepo, notifier)
	req := seedRequest(t, requestRepo, "guest")
	return svc, convRepo, requestRepo, notifier, req
}

func TestOpenFromRequest(t *testing.T) {
	svc, _, _, _, req := newConversationFixture(t)
	ctx := context.Background()

	// host opens for themselves
	cv, err := svc.OpenFromRequest(ctx, req.ID, "host", "")
	if err != nil {
		t.Fatalf("host OpenFromRequest: %v", err)
	}
	if cv.GuestUID != "guest" || cv.HostUID != "host" {
		t.Fatalf("participants = %s/%s, want guest/host", cv.GuestUID, cv.HostUID)
	}

	// guest reopens the same pair and gets the same conversation
	same, err := svc.OpenFromRequest(ctx, req.ID, "guest", "host")
	if err != nil {
		t.Fatalf("guest OpenFromRequest: %v", err)
	}
	if same.ID != cv.ID {
		t.Fatalf("expected the existing conversation, got %d and %d", cv.ID, same.ID)
	}

	// guest must name a host
	if _, err := svc.OpenFromRequest(ctx, req.ID, "guest", ""); err == nil {
		t.Fatalf("expected error for guest without host uid")
	}
	// no chatting with yourself
	if _, err := svc.OpenFromRequest(ctx, req.ID, "guest", "guest"); err == nil {
		t.Fatalf("expected error for self chat")
	}
	if _, err := svc.OpenFromRequest(ctx, 999, "host", ""); err != ErrNotFound {
		t.Fatalf("missing request err = %v, want ErrNotFound", err)
	}
}

func TestPostMessage(t *testing.T) {
	svc, _, _, notifier, req := newConversationFixture(t)
	ctx := context.Background()

	cv, err := svc.OpenFromRequest(ctx, req.ID, "host", "")
	if err != nil {
		t.Fatalf("OpenFromRequest: %v", err)
	}

	if err := svc.PostMessage(ctx, cv.ID, "host", "Host Taro", "Is the date flexible?"); err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if err := svc.PostMessage(ctx, cv.ID, "stranger", "X", "hi"); err != ErrForbidden {
		t.Fatalf("stranger PostMessage err = %v, want ErrForbidden", err)
	}
	if err := svc.PostMessage(ctx, cv.ID, "guest", "Guest", "   "); err == nil {
		t.Fatalf("expected error for blank body")
	}

	msgs, err := svc.ListMessages(ctx, cv.ID, "guest")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].SenderUID != "host" {
		t.Fatalf("messages = %+v, want one from host", msgs)
	}
	if _, err := svc.ListMessages(ctx, cv.ID, "stranger"); err != ErrForbidden {
		t.Fatalf("stranger ListMessages err = %v, want ErrForbidden", err)
	}

	// the counterparty gets notified, the sender does not
	if notifier.countType(model.NotificationTypeMessageReceived) != 1 {
		t.Fatalf("expected one message_received notification")
	}
	if notifier.sent[0].UserUID != "guest" {
		t.Fatalf("notified %s, want guest", notifier.sent[0].UserUID)
	}
}

func TestConversationMarkRead(t *testing.T) {
	svc, _, _, _, req := newConversationFixture(t)
	ctx := context.Background()

	cv, err := svc.OpenFromRequest(ctx, req.ID, "host", "")
	if err != nil {
		t.Fatalf("OpenFromRequest: %v", err)
	}
	if err := svc.MarkRead(ctx, cv.ID, "guest"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := svc.MarkRead(ctx, cv.ID, "stranger"); err != ErrForbidden {
		t.Fatalf("stranger MarkRead err = %v, want ErrForbidden", err)
	}
	if err := svc.MarkRead(ctx, 999, "guest"); err != ErrNotFound {
		t.Fatalf("missing conversation err = %v, want ErrNotFound", err)
	}
}
