package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Okpara007/buzz4less/internal/model"
	"github.com/Okpara007/buzz4less/internal/payment"
	"github.com/Okpara007/buzz4less/internal/repository"
)

// memStore is an in-memory stand-in for *repository.Repository. It mirrors
// the database constraints the services lean on: unique usernames, emails
// and referral codes, and the (user, plan) subscription upsert key.
type memStore struct {
	nextUserID     int64
	nextProfileID  int64
	nextReferralID int64

	users         map[int64]*model.User
	profiles      map[int64]*model.VerificationProfile
	referrals     []*model.ReferralRecord
	services      map[uuid.UUID]*model.Service
	plans         map[uuid.UUID]*model.Plan
	subscriptions map[uuid.UUID]*model.Subscription
	withdrawals   []*model.Withdrawal
	contacts      []*model.Contact
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[int64]*model.User),
		profiles:      make(map[int64]*model.VerificationProfile),
		services:      make(map[uuid.UUID]*model.Service),
		plans:         make(map[uuid.UUID]*model.Plan),
		subscriptions: make(map[uuid.UUID]*model.Subscription),
	}
}

func (m *memStore) GetUser(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) CreateAccount(_ context.Context, user *model.User, profile *model.VerificationProfile, referrerID int64, referralCode string) error {
	for _, r := range m.referrals {
		if r.ReferralCode == referralCode {
			return repository.ErrReferralCodeTaken
		}
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	m.users[user.ID] = user

	m.nextProfileID++
	profile.ID = m.nextProfileID
	profile.UserID = user.ID
	m.profiles[user.ID] = profile

	if referrerID == 0 {
		referrerID = user.ID
	}
	m.nextReferralID++
	m.referrals = append(m.referrals, &model.ReferralRecord{
		ID:             m.nextReferralID,
		ReferrerID:     referrerID,
		ReferredUserID: user.ID,
		ReferralCode:   referralCode,
		Earnings:       decimal.Zero,
	})
	return nil
}

func (m *memStore) GetVerificationProfile(_ context.Context, userID int64) (*model.VerificationProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrVerificationNotFound
}

func (m *memStore) MarkVerified(_ context.Context, userID int64) error {
	p, ok := m.profiles[userID]
	if !ok {
		return repository.ErrVerificationNotFound
	}
	p.Verified = true
	m.users[userID].IsActive = true
	return nil
}

func (m *memStore) GetReferralByCode(_ context.Context, code string) (*model.ReferralRecord, error) {
	for _, r := range m.referrals {
		if r.ReferralCode == code {
			return r, nil
		}
	}
	return nil, repository.ErrReferralNotFound
}

func (m *memStore) GetReferralByReferredUser(_ context.Context, referredUserID int64) (*model.ReferralRecord, error) {
	for _, r := range m.referrals {
		if r.ReferredUserID == referredUserID {
			return r, nil
		}
	}
	return nil, repository.ErrReferralNotFound
}

func (m *memStore) CreateReferral(_ context.Context, record *model.ReferralRecord) error {
	for _, r := range m.referrals {
		if r.ReferralCode == record.ReferralCode {
			return repository.ErrReferralCodeTaken
		}
	}
	m.nextReferralID++
	record.ID = m.nextReferralID
	m.referrals = append(m.referrals, record)
	return nil
}

func (m *memStore) CreditEarnings(_ context.Context, referredUserID int64, amount decimal.Decimal) error {
	for _, r := range m.referrals {
		if r.ReferredUserID == referredUserID {
			r.Earnings = r.Earnings.Add(amount)
			r.Credited = true
			return nil
		}
	}
	return repository.ErrReferralNotFound
}

func (m *memStore) TotalEarnings(_ context.Context, referrerID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, r := range m.referrals {
		if r.ReferrerID == referrerID && r.ReferredUserID != referrerID {
			total = total.Add(r.Earnings)
		}
	}
	return total, nil
}

func (m *memStore) GetReferredUsers(_ context.Context, referrerID int64) ([]model.ReferredUser, error) {
	var out []model.ReferredUser
	for _, r := range m.referrals {
		if r.ReferrerID != referrerID || r.ReferredUserID == referrerID {
			continue
		}
		u := m.users[r.ReferredUserID]
		out = append(out, model.ReferredUser{
			Username: u.Username,
			Email:    u.Email,
			Earnings: r.Earnings,
			JoinedAt: u.CreatedAt,
		})
	}
	return out, nil
}

func (m *memStore) GetService(_ context.Context, id uuid.UUID) (*model.Service, error) {
	if s, ok := m.services[id]; ok {
		return s, nil
	}
	return nil, repository.ErrServiceNotFound
}

func (m *memStore) ListPublishedServices(_ context.Context) ([]model.Service, error) {
	var out []model.Service
	for _, s := range m.services {
		if s.IsPublished {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) CreateService(_ context.Context, svc *model.Service) error {
	svc.ID = uuid.New()
	svc.CreatedAt = time.Now()
	m.services[svc.ID] = svc
	return nil
}

func (m *memStore) GetPlan(_ context.Context, id uuid.UUID) (*model.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, repository.ErrPlanNotFound
}

func (m *memStore) ListPlansByService(_ context.Context, serviceID uuid.UUID) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range m.plans {
		if p.ServiceID == serviceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) CreatePlan(_ context.Context, plan *model.Plan) error {
	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	m.plans[plan.ID] = plan
	return nil
}

func (m *memStore) GetSubscription(_ context.Context, id uuid.UUID) (*model.Subscription, error) {
	if s, ok := m.subscriptions[id]; ok {
		return s, nil
	}
	return nil, repository.ErrSubscriptionNotFound
}

func (m *memStore) GetUserSubscriptions(_ context.Context, userID int64) ([]model.SubscriptionWithPlan, error) {
	var out []model.SubscriptionWithPlan
	for _, s := range m.subscriptions {
		if s.UserID != userID {
			continue
		}
		row := model.SubscriptionWithPlan{Subscription: *s}
		if plan, ok := m.plans[s.PlanID]; ok {
			row.PlanName = plan.Name
			if svc, ok := m.services[plan.ServiceID]; ok {
				row.ServiceName = svc.Name
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memStore) UpsertSubscription(_ context.Context, sub *model.Subscription) error {
	for _, existing := range m.subscriptions {
		if existing.UserID == sub.UserID && existing.PlanID == sub.PlanID {
			existing.StartDate = sub.StartDate
			existing.EndDate = sub.EndDate
			existing.Status = sub.Status
			existing.ProviderSubscriptionID = sub.ProviderSubscriptionID
			sub.ID = existing.ID
			return nil
		}
	}
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now()
	copied := *sub
	m.subscriptions[sub.ID] = &copied
	return nil
}

func (m *memStore) MarkSubscriptionCanceled(_ context.Context, id uuid.UUID, endDate time.Time) error {
	s, ok := m.subscriptions[id]
	if !ok {
		return repository.ErrSubscriptionNotFound
	}
	s.Status = model.SubscriptionStatusCanceled
	s.EndDate = endDate
	return nil
}

func (m *memStore) ExpireOverdueSubscriptions(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, s := range m.subscriptions {
		if s.Status == model.SubscriptionStatusActive && s.EndDate.Before(now) {
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateWithdrawal(_ context.Context, w *model.Withdrawal) error {
	w.ID = int64(len(m.withdrawals) + 1)
	w.CreatedAt = time.Now()
	m.withdrawals = append(m.withdrawals, w)
	return nil
}

func (m *memStore) CreateContact(_ context.Context, c *model.Contact) error {
	c.ID = int64(len(m.contacts) + 1)
	c.CreatedAt = time.Now()
	m.contacts = append(m.contacts, c)
	return nil
}

type sentMail struct {
	Subject string
	Body    string
	To      []string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(subject, body string, to ...string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{Subject: subject, Body: body, To: to})
	return nil
}

type fakeGateway struct {
	params  []payment.CheckoutParams
	session payment.CheckoutSession
	err     error
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, p payment.CheckoutParams) (*payment.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = append(f.params, p)
	s := f.session
	if s.ID == "" {
		s = payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}
	}
	return &s, nil
}

type fakeCanceler struct {
	canceled []string
	err      error
}

func (f *fakeCanceler) CancelSubscription(_ context.Context, subscriptionID string) error {
	if f.err != nil {
		return f.err
	}
	f.canceled = append(f.canceled, subscriptionID)
	return nil
}

var errProviderDown = errors.New("provider unavailable")
