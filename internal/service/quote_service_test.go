package service

import (
	"context"
	"testing"

	"github.com/spacehub/spacehub-backend/internal/model"
)

func newQuoteFixture() (QuoteService, *fakeQuoteRepo, *fakeRequestRepo, *fakeNotifier) {
	quoteRepo := newFakeQuoteRepo()
	requestRepo := newFakeRequestRepo()
	notifier := &fakeNotifier{}
	svc := NewQuoteService(quoteRepo, requestRepo, notifier)
	return svc, quoteRepo, requestRepo, notifier
}

func seedRequest(t *testing.T, repo *fakeRequestRepo, guestUID string) *model.SpaceRequest {
	t.Helper()
	req := &model.SpaceRequest{
		GuestUID: guestUID,
		Location: "Shibuya",
		Purpose:  "team offsite",
		Capacity: 10,
		Status:   model.RequestStatusPending,
	}
	if err := repo.Create(context.Background(), req); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func TestSubmitQuoteMarksRequestQuoted(t *testing.T) {
	svc, _, requestRepo, notifier := newQuoteFixture()
	ctx := context.Background()
	req := seedRequest(t, requestRepo, "guest")

	q, err := svc.Submit(ctx, req.ID, "host", QuoteInput{SpaceName: "Loft A", Price: 60000})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if q.Status != model.QuoteStatusUnread {
		t.Fatalf("status = %s, want unread", q.Status)
	}
	if q.GuestUID != "guest" {
		t.Fatalf("guest uid = %s, want guest", q.GuestUID)
	}
	updated, _ := requestRepo.FindByID(ctx, req.ID)
	if updated.Status != model.RequestStatusQuoted {
		t.Fatalf("request status = %s, want quoted", updated.Status)
	}
	if notifier.countType(model.NotificationTypeQuoteReceived) != 1 {
		t.Fatalf("expected one quote_received notification")
	}
}

func TestSubmitQuoteValidation(t *testing.T) {
	svc, _, requestRepo, _ := newQuoteFixture()
	ctx := context.Background()
	req := seedRequest(t, requestRepo, "guest")

	cases := []struct {
		name    string
		hostUID string
		in      QuoteInput
	}{
		{name: "self quote", hostUID: "guest", in: QuoteInput{SpaceName: "Loft A", Price: 60000}},
		{name: "missing space name", hostUID: "host", in: QuoteInput{Price: 60000}},
		{name: "zero price", hostUID: "host", in: QuoteInput{SpaceName: "Loft A"}},
		{name: "empty item name", hostUID: "host", in: QuoteInput{SpaceName: "Loft A", Price: 60000, Items: []QuoteItemInput{{Name: " ", Price: 100}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, req.ID, tc.hostUID, tc.in); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestQuoteReadOnGuestFirstView(t *testing.T) {
	svc, _, requestRepo, notifier := newQuoteFixture()
	ctx := context.Background()
	req := seedRequest(t, requestRepo, "guest")

	q, err := svc.Submit(ctx, req.ID, "host", QuoteInput{SpaceName: "Loft A", Price: 60000})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// host views: stays unread
	hostView, err := svc.Get(ctx, q.ID, "host")
	if err != nil {
		t.Fatalf("host Get: %v", err)
	}
	if hostView.Status != model.QuoteStatusUnread {
		t.Fatalf("after host view status = %s, want unread", hostView.Status)
	}

	// guest first view flips to read and notifies the host
	guestView, err := svc.Get(ctx, q.ID, "guest")
	if err != nil {
		t.Fatalf("guest Get: %v", err)
	}
	if guestView.Status != model.QuoteStatusRead || guestView.ReadAt == nil {
		t.Fatalf("after guest view status = %s readAt = %v, want read with stamp", guestView.Status, guestView.ReadAt)
	}
	if notifier.countType(model.NotificationTypeQuoteRead) != 1 {
		t.Fatalf("expected one quote_read notification")
	}

	// later views change nothing
	firstReadAt := *guestView.ReadAt
	again, err := svc.Get(ctx, q.ID, "guest")
	if err != nil {
		t.Fatalf("second guest Get: %v", err)
	}
	if again.ReadAt == nil || !again.ReadAt.Equal(firstReadAt) {
		t.Fatalf("readAt changed on second view")
	}
	if notifier.countType(model.NotificationTypeQuoteRead) != 1 {
		t.Fatalf("expected no second quote_read notification")
	}
}

func TestQuoteAccessControl(t *testing.T) {
	svc, _, requestRepo, _ := newQuoteFixture()
	ctx := context.Background()
	req := seedRequest(t, requestRepo, "guest")

	q, err := svc.Submit(ctx, req.ID, "host", QuoteInput{SpaceName: "Loft A", Price: 60000})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Get(ctx, q.ID, "stranger"); err != ErrForbidden {
		t.Fatalf("stranger Get err = %v, want ErrForbidden", err)
	}
	if _, err := svc.ListByRequest(ctx, req.ID, "host"); err != ErrForbidden {
		t.Fatalf("non-owner ListByRequest err = %v, want ErrForbidden", err)
	}
	list, err := svc.ListByRequest(ctx, req.ID, "guest")
	if err != nil {
		t.Fatalf("owner ListByRequest: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("quotes = %d, want 1", len(list))
	}
}

func TestTwoQuotesOnOneRequest(t *testing.T) {
	svc, _, requestRepo, _ := newQuoteFixture()
	ctx := context.Background()
	req := seedRequest(t, requestRepo, "guest")

	if _, err := svc.Submit(ctx, req.ID, "host-a", QuoteInput{SpaceName: "Loft A", Price: 60000}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if _, err := svc.Submit(ctx, req.ID, "host-b", QuoteInput{SpaceName: "Studio B", Price: 45000}); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	list, err := svc.ListByRequest(ctx, req.ID, "guest")
	if err != nil {
		t.Fatalf("ListByRequest: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("quotes = %d, want 2", len(list))
	}
	updated, _ := requestRepo.FindByID(ctx, req.ID)
	if updated.Status != model.RequestStatusQuoted {
		t.Fatalf("request status = %s, want quoted", updated.Status)
	}
}
