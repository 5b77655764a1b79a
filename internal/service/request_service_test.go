package service

import (
	"context"
	"testing"

	"github.com/spacehub/spacehub-backend/internal/model"
)

func newRequestFixture() (RequestService, *fakeRequestRepo) {
	repo := newFakeRequestRepo()
	return NewRequestService(repo), repo
}

func TestCreateRequestDefaults(t *testing.T) {
	svc, _ := newRequestFixture()
	ctx := context.Background()

	req, err := svc.Create(ctx, "guest", RequestInput{
		OriginalQuery: "  party space in Shibuya  ",
		Location:      " Shibuya ",
		Capacity:      20,
		Equipment:     []string{"projector"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.ID == 0 {
		t.Fatalf("expected an assigned id")
	}
	if req.Status != model.RequestStatusPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}
	if req.Location != "Shibuya" || req.OriginalQuery != "party space in Shibuya" {
		t.Fatalf("expected trimmed fields, got %q / %q", req.Location, req.OriginalQuery)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _ := newRequestFixture()
	ctx := context.Background()

	cases := []struct {
		name     string
		guestUID string
		in       RequestInput
	}{
		{name: "missing guest", guestUID: "", in: RequestInput{Location: "Shibuya"}},
		{name: "missing location", guestUID: "guest", in: RequestInput{}},
		{name: "blank location", guestUID: "guest", in: RequestInput{Location: "   "}},
		{name: "negative capacity", guestUID: "guest", in: RequestInput{Location: "Shibuya", Capacity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.guestUID, tc.in); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestUpdateRequestPatch(t *testing.T) {
	svc, _ := newRequestFixture()
	ctx := context.Background()

	req, err := svc.Create(ctx, "guest", RequestInput{Location: "Shibuya", Purpose: "offsite", Capacity: 10})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	capacity := 25
	catering := true
	updated, err := svc.Update(ctx, req.ID, "guest", RequestPatch{
		Capacity: &capacity,
		Catering: &catering,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Capacity != 25 || !updated.Catering {
		t.Fatalf("patched fields not applied: capacity=%d catering=%v", updated.Capacity, updated.Catering)
	}
	// untouched fields survive
	if updated.Location != "Shibuya" || updated.Purpose != "offsite" {
		t.Fatalf("unpatched fields changed: %q / %q", updated.Location, updated.Purpose)
	}

	empty := " "
	if _, err := svc.Update(ctx, req.ID, "guest", RequestPatch{Location: &empty}); err == nil {
		t.Fatalf("expected error clearing location")
	}
	if _, err := svc.Update(ctx, req.ID, "stranger", RequestPatch{Capacity: &capacity}); err != ErrForbidden {
		t.Fatalf("stranger Update err = %v, want ErrForbidden", err)
	}
}

func TestRequestMissingID(t *testing.T) {
	svc, _ := newRequestFixture()
	ctx := context.Background()

	if _, err := svc.Get(ctx, 999); err != ErrNotFound {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, 999, "guest", RequestPatch{}); err != ErrNotFound {
		t.Fatalf("Update err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 999, "guest"); err != ErrNotFound {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRequest(t *testing.T) {
	svc, _ := newRequestFixture()
	ctx := context.Background()

	req, err := svc.Create(ctx, "guest", RequestInput{Location: "Shibuya"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, req.ID, "stranger"); err != ErrForbidden {
		t.Fatalf("stranger Delete err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, req.ID, "guest"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, req.ID); err != ErrNotFound {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
}
