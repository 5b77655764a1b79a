package service

import (
	"context"
	"time"

	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory repositories backing the service tests.

type fakeRequestRepo struct {
	nextID   uint64
	requests map[uint64]*model.SpaceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{nextID: 1, requests: map[uint64]*model.SpaceRequest{}}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *model.SpaceRequest) error {
	req.ID = r.nextID
	r.nextID++
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) FindByID(ctx context.Context, id uint64) (*model.SpaceRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequestRepo) ListByGuest(ctx context.Context, guestUID string) ([]model.SpaceRequest, error) {
	var out []model.SpaceRequest
	for _, req := range r.requests {
		if req.GuestUID == guestUID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListOpen(ctx context.Context, limit, offset int) ([]model.SpaceRequest, int64, error) {
	var out []model.SpaceRequest
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, req *model.SpaceRequest) error {
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) MarkQuoted(ctx context.Context, id uint64) error {
	if req, ok := r.requests[id]; ok && req.Status == model.RequestStatusPending {
		req.Status = model.RequestStatusQuoted
	}
	return nil
}

func (r *fakeRequestRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	if _, ok := r.requests[id]; !ok {
		return 0, nil
	}
	delete(r.requests, id)
	return 1, nil
}

func (r *fakeRequestRepo) SetDB(db *gorm.DB) {}

type fakeQuoteRepo struct {
	nextID uint64
	quotes map[uint64]*model.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{nextID: 1, quotes: map[uint64]*model.Quote{}}
}

func (r *fakeQuoteRepo) Create(ctx context.Context, q *model.Quote) error {
	q.ID = r.nextID
	r.nextID++
	cp := *q
	r.quotes[q.ID] = &cp
	return nil
}

func (r *fakeQuoteRepo) FindByID(ctx context.Context, id uint64) (*model.Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuoteRepo) ListByRequest(ctx context.Context, requestID uint64) ([]model.Quote, error) {
	var out []model.Quote
	for _, q := range r.quotes {
		if q.RequestID == requestID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) ListByHost(ctx context.Context, hostUID string) ([]model.Quote, error) {
	var out []model.Quote
	for _, q := range r.quotes {
		if q.HostUID == hostUID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) MarkReadIfUnread(ctx context.Context, id uint64) (int64, error) {
	q, ok := r.quotes[id]
	if !ok || q.Status != model.QuoteStatusUnread {
		return 0, nil
	}
	now := time.Now()
	q.Status = model.QuoteStatusRead
	q.ReadAt = &now
	return 1, nil
}

func (r *fakeQuoteRepo) SetDB(db *gorm.DB) {}

type fakePaymentRepo struct {
	nextID   uint64
	payments map[uint64]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1, payments: map[uint64]*model.Payment{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindActiveByQuote(ctx context.Context, quoteID uint64) (*model.Payment, error) {
	for _, p := range r.payments {
		if p.QuoteID == quoteID && p.Status != model.PaymentStatusCanceled {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) Update(ctx context.Context, p *model.Payment) error {
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) ListByGuest(ctx context.Context, guestUID string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.GuestUID == guestUID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByHost(ctx context.Context, hostUID string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.HostUID == hostUID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) SetDB(db *gorm.DB) {}

type fakeRefundRepo struct {
	nextID  uint64
	refunds map[uint64]*model.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{nextID: 1, refunds: map[uint64]*model.Refund{}}
}

func (r *fakeRefundRepo) Create(ctx context.Context, rf *model.Refund) error {
	rf.ID = r.nextID
	r.nextID++
	cp := *rf
	r.refunds[rf.ID] = &cp
	return nil
}

func (r *fakeRefundRepo) FindByID(ctx context.Context, id uint64) (*model.Refund, error) {
	rf, ok := r.refunds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rf
	return &cp, nil
}

func (r *fakeRefundRepo) FindByPayment(ctx context.Context, paymentID uint64) (*model.Refund, error) {
	for _, rf := range r.refunds {
		if rf.PaymentID == paymentID {
			cp := *rf
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefundRepo) Update(ctx context.Context, rf *model.Refund) error {
	cp := *rf
	r.refunds[rf.ID] = &cp
	return nil
}

func (r *fakeRefundRepo) ListByUser(ctx context.Context, uid string) ([]model.Refund, error) {
	var out []model.Refund
	for _, rf := range r.refunds {
		if rf.GuestUID == uid || rf.HostUID == uid {
			out = append(out, *rf)
		}
	}
	return out, nil
}

func (r *fakeRefundRepo) SetDB(db *gorm.DB) {}

type fakeWalletRepo struct {
	wallets  map[string]*model.Wallet
	entries  []model.CashHistoryEntry
	settings map[string]*model.AutoChargeSetting
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets:  map[string]*model.Wallet{},
		settings: map[string]*model.AutoChargeSetting{},
	}
}

func (r *fakeWalletRepo) wallet(hostUID string) *model.Wallet {
	w, ok := r.wallets[hostUID]
	if !ok {
		w = &model.Wallet{HostUID: hostUID}
		r.wallets[hostUID] = w
	}
	return w
}

func (r *fakeWalletRepo) Get(ctx context.Context, hostUID string) (*model.Wallet, error) {
	cp := *r.wallet(hostUID)
	return &cp, nil
}

func (r *fakeWalletRepo) ChargeCash(ctx context.Context, hostUID string, amount int64, method *string, description string) (*model.CashHistoryEntry, error) {
	w := r.wallet(hostUID)
	w.Cash += amount
	entry := model.CashHistoryEntry{
		ID:          uint64(len(r.entries) + 1),
		HostUID:     hostUID,
		Type:        model.CashHistoryTypeCharge,
		Amount:      amount,
		Balance:     w.Cash,
		Method:      method,
		Description: description,
	}
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *fakeWalletRepo) DeductCash(ctx context.Context, hostUID string, amount int64, description string) (*model.CashHistoryEntry, error) {
	w := r.wallet(hostUID)
	if w.Cash < amount {
		return nil, repository.ErrInsufficientCash
	}
	w.Cash -= amount
	entry := model.CashHistoryEntry{
		ID:          uint64(len(r.entries) + 1),
		HostUID:     hostUID,
		Type:        model.CashHistoryTypeUse,
		Amount:      -amount,
		Balance:     w.Cash,
		Description: description,
	}
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *fakeWalletRepo) ListHistory(ctx context.Context, hostUID string, limit int) ([]model.CashHistoryEntry, error) {
	var out []model.CashHistoryEntry
	for _, e := range r.entries {
		if e.HostUID == hostUID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeWalletRepo) GetAutoCharge(ctx context.Context, hostUID string) (*model.AutoChargeSetting, error) {
	s, ok := r.settings[hostUID]
	if !ok {
		s = &model.AutoChargeSetting{HostUID: hostUID}
		r.settings[hostUID] = s
	}
	cp := *s
	return &cp, nil
}

func (r *fakeWalletRepo) SaveAutoCharge(ctx context.Context, s *model.AutoChargeSetting) error {
	cp := *s
	r.settings[s.HostUID] = &cp
	return nil
}

func (r *fakeWalletRepo) SetDB(db *gorm.DB) {}

// fakeNotifier records notifications instead of persisting them.

type sentNotification struct {
	UserUID string
	Type    string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(ctx context.Context, userUID, typ, title, body string, requestID, quoteID, paymentID *uint64) {
	f.sent = append(f.sent, sentNotification{UserUID: userUID, Type: typ})
}

func (f *fakeNotifier) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, userUID string, id uint64) error {
	return nil
}

func (f *fakeNotifier) MarkMessagesRead(ctx context.Context, userUID string, requestID uint64) error {
	return nil
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, userUID string) error {
	return nil
}

func (f *fakeNotifier) countType(typ string) int {
	n := 0
	for _, s := range f.sent {
		if s.Type == typ {
			n++
		}
	}
	return n
}
