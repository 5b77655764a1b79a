package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type RequestInput struct {
	OriginalQuery     string
	SpaceType         string
	Purpose           string
	Capacity          int
	Equipment         []string
	Catering          bool
	Parking           bool
	AdditionalRequest string
	Date              string
	Location          string
	TimeSlot          string
	Category          string
}

// RequestPatch carries the fields a guest may change after submitting;
// nil means "leave as is".
type RequestPatch struct {
	SpaceType         *string
	Purpose           *string
	Capacity          *int
	Equipment         []string
	Catering          *bool
	Parking           *bool
	AdditionalRequest *string
	Date              *string
	Location          *string
	TimeSlot          *string
	Category          *string
}

type RequestService interface {
	Create(ctx context.Context, guestUID string, in RequestInput) (*model.SpaceRequest, error)
	Get(ctx context.Context, id uint64) (*model.SpaceRequest, error)
	ListMine(ctx context.Context, guestUID string) ([]model.SpaceRequest, error)
	ListOpen(ctx context.Context, limit, offset int) ([]model.SpaceRequest, int64, error)
	Update(ctx context.Context, id uint64, guestUID string, patch RequestPatch) (*model.SpaceRequest, error)
	Delete(ctx context.Context, id uint64, guestUID string) error
}

type requestService struct {
	repo repository.RequestRepository
}

func NewRequestService(repo repository.RequestRepository) RequestService {
	return &requestService{repo: repo}
}

func (s *requestService) Create(ctx context.Context, guestUID string, in RequestInput) (*model.SpaceRequest, error) {
	if guestUID == "" {
		return nil, errors.New("guest is required")
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, errors.New("location is required")
	}
	if in.Capacity < 0 {
		return nil, errors.New("capacity must not be negative")
	}
	req := &model.SpaceRequest{
		GuestUID:          guestUID,
		OriginalQuery:     strings.TrimSpace(in.OriginalQuery),
		SpaceType:         strings.TrimSpace(in.SpaceType),
		Purpose:           strings.TrimSpace(in.Purpose),
		Capacity:          in.Capacity,
		Equipment:         in.Equipment,
		Catering:          in.Catering,
		Parking:           in.Parking,
		AdditionalRequest: strings.TrimSpace(in.AdditionalRequest),
		Date:              strings.TrimSpace(in.Date),
		Location:          location,
		TimeSlot:          strings.TrimSpace(in.TimeSlot),
		Category:          strings.TrimSpace(in.Category),
		Status:            model.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestService) Get(ctx context.Context, id uint64) (*model.SpaceRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *requestService) ListMine(ctx context.Context, guestUID string) ([]model.SpaceRequest, error) {
	if guestUID == "" {
		return nil, errors.New("guest is required")
	}
	return s.repo.ListByGuest(ctx, guestUID)
}

func (s *requestService) ListOpen(ctx context.Context, limit, offset int) ([]model.SpaceRequest, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListOpen(ctx, limit, offset)
}

func (s *requestService) Update(ctx context.Context, id uint64, guestUID string, patch RequestPatch) (*model.SpaceRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.GuestUID != guestUID {
		return nil, ErrForbidden
	}
	if patch.SpaceType != nil {
		req.SpaceType = strings.TrimSpace(*patch.SpaceType)
	}
	if patch.Purpose != nil {
		req.Purpose = strings.TrimSpace(*patch.Purpose)
	}
	if patch.Capacity != nil {
		if *patch.Capacity < 0 {
			return nil, errors.New("capacity must not be negative")
		}
		req.Capacity = *patch.Capacity
	}
	if patch.Equipment != nil {
		req.Equipment = patch.Equipment
	}
	if patch.Catering != nil {
		req.Catering = *patch.Catering
	}
	if patch.Parking != nil {
		req.Parking = *patch.Parking
	}
	if patch.AdditionalRequest != nil {
		req.AdditionalRequest = strings.TrimSpace(*patch.AdditionalRequest)
	}
	if patch.Date != nil {
		req.Date = strings.TrimSpace(*patch.Date)
	}
	if patch.Location != nil {
		loc := strings.TrimSpace(*patch.Location)
		if loc == "" {
			return nil, errors.New("location is required")
		}
		req.Location = loc
	}
	if patch.TimeSlot != nil {
		req.TimeSlot = strings.TrimSpace(*patch.TimeSlot)
	}
	if patch.Category != nil {
		req.Category = strings.TrimSpace(*patch.Category)
	}
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestService) Delete(ctx context.Context, id uint64, guestUID string) error {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if req.GuestUID != guestUID {
		return ErrForbidden
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
