package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
)

// In-memory repository fakes. They mirror the contract of the mongodb
// implementations, including returning mongo.ErrNoDocuments on misses.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]*models.Account
}

var _ repositories.AccountRepository = (*fakeAccountRepo)(nil)

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[primitive.ObjectID]*models.Account{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return a, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAccountRepo) FindBySlug(_ context.Context, slug string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAccountRepo) FindByPhoneNumber(_ context.Context, phoneNumber string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.PhoneNumber == phoneNumber {
			return a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAccountRepo) Update(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) FindAll(_ context.Context) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

type fakeRecipientRepo struct {
	mu         sync.Mutex
	recipients map[primitive.ObjectID]*models.Recipient
}

var _ repositories.RecipientRepository = (*fakeRecipientRepo)(nil)

func newFakeRecipientRepo() *fakeRecipientRepo {
	return &fakeRecipientRepo{recipients: map[primitive.ObjectID]*models.Recipient{}}
}

func (r *fakeRecipientRepo) Create(_ context.Context, recipient *models.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if recipient.ID.IsZero() {
		recipient.ID = primitive.NewObjectID()
	}
	if recipient.CreatedAt.IsZero() {
		recipient.CreatedAt = time.Now()
	}
	recipient.UpdatedAt = time.Now()
	r.recipients[recipient.ID] = recipient
	return nil
}

func (r *fakeRecipientRepo) Update(_ context.Context, recipient *models.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipients[recipient.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	recipient.UpdatedAt = time.Now()
	r.recipients[recipient.ID] = recipient
	return nil
}

func (r *fakeRecipientRepo) FindByID(_ context.Context, accountID, id primitive.ObjectID) (*models.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.recipients[id]; ok && rec.AccountID == accountID {
		return rec, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRecipientRepo) FindByPhoneNumber(_ context.Context, accountID primitive.ObjectID, phoneNumber string) (*models.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recipients {
		if rec.AccountID == accountID && rec.PhoneNumber == phoneNumber {
			return rec, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRecipientRepo) FindByAccount(_ context.Context, accountID primitive.ObjectID) ([]*models.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Recipient
	for _, rec := range r.recipients {
		if rec.AccountID == accountID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecipientRepo) FindEligible(_ context.Context, accountID primitive.ObjectID) ([]*models.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Recipient
	for _, rec := range r.recipients {
		if rec.AccountID == accountID && rec.Consent && rec.Subscribe && rec.PhoneNumber != "" {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecipientRepo) CountByAccount(_ context.Context, accountID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.recipients {
		if rec.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRecipientRepo) SetSubscribeAll(_ context.Context, accountID primitive.ObjectID, subscribe bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.recipients {
		if rec.AccountID == accountID && rec.Subscribe != subscribe {
			rec.Subscribe = subscribe
			n++
		}
	}
	return n, nil
}

type fakeBlastRepo struct {
	mu     sync.Mutex
	blasts map[primitive.ObjectID]*models.Blast
}

var _ repositories.BlastRepository = (*fakeBlastRepo)(nil)

func newFakeBlastRepo() *fakeBlastRepo {
	return &fakeBlastRepo{blasts: map[primitive.ObjectID]*models.Blast{}}
}

func (r *fakeBlastRepo) Create(_ context.Context, blast *models.Blast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if blast.ID.IsZero() {
		blast.ID = primitive.NewObjectID()
	}
	blast.CreatedAt = time.Now()
	blast.UpdatedAt = blast.CreatedAt
	r.blasts[blast.ID] = blast
	return nil
}

func (r *fakeBlastRepo) FindByID(_ context.Context, accountID, id primitive.ObjectID) (*models.Blast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blasts[id]; ok && b.AccountID == accountID {
		return b, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeBlastRepo) FindByAccount(_ context.Context, accountID primitive.ObjectID) ([]*models.Blast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Blast
	for _, b := range r.blasts {
		if b.AccountID == accountID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBlastRepo) FindByStatus(_ context.Context, accountID primitive.ObjectID, status string) ([]*models.Blast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Blast
	for _, b := range r.blasts {
		if b.AccountID == accountID && b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBlastRepo) FindScheduledForSlot(_ context.Context, accountID primitive.ObjectID, timeSlot string) ([]*models.Blast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Blast
	for _, b := range r.blasts {
		if b.AccountID == accountID && b.Status == models.BlastStatusScheduled && b.TimeSlot == timeSlot {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBlastRepo) Update(_ context.Context, blast *models.Blast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blasts[blast.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	blast.UpdatedAt = time.Now()
	r.blasts[blast.ID] = blast
	return nil
}

func (r *fakeBlastRepo) Delete(_ context.Context, accountID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blasts[id]; ok && b.AccountID == accountID {
		delete(r.blasts, id)
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *fakeBlastRepo) CountByAccount(_ context.Context, accountID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.blasts {
		if b.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBlastRepo) TryMarkSending(_ context.Context, accountID, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blasts[id]
	if !ok || b.AccountID != accountID {
		return false, nil
	}
	if b.Status != models.BlastStatusDraft && b.Status != models.BlastStatusScheduled {
		return false, nil
	}
	b.Status = models.BlastStatusSending
	return true, nil
}

func (r *fakeBlastRepo) MarkSent(_ context.Context, accountID, id primitive.ObjectID, stats *models.DeliveryStats, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blasts[id]
	if !ok || b.AccountID != accountID {
		return mongo.ErrNoDocuments
	}
	b.Status = models.BlastStatusSent
	b.DeliveryStats = stats
	b.SentAt = sentAt
	return nil
}

func (r *fakeBlastRepo) MarkFailed(_ context.Context, accountID, id primitive.ObjectID, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blasts[id]
	if !ok || b.AccountID != accountID {
		return mongo.ErrNoDocuments
	}
	b.Status = models.BlastStatusFailed
	return nil
}

type fakeCouponRepo struct {
	mu      sync.Mutex
	coupons map[primitive.ObjectID]*models.Coupon
}

var _ repositories.CouponRepository = (*fakeCouponRepo)(nil)

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{coupons: map[primitive.ObjectID]*models.Coupon{}}
}

func (r *fakeCouponRepo) FindActiveByRecipient(_ context.Context, recipientID primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findActiveLocked(recipientID, now)
}

func (r *fakeCouponRepo) findActiveLocked(recipientID primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	for _, c := range r.coupons {
		if c.RecipientID == recipientID && !c.Used && c.ExpiresAt.After(now) {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, accountID primitive.ObjectID, code string) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.AccountID == accountID && c.Code == code {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCouponRepo) IssueIfNoneActive(_ context.Context, coupon *models.Coupon, now time.Time) (bool, *models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, err := r.findActiveLocked(coupon.RecipientID, now); err == nil {
		return false, existing, nil
	}
	coupon.ID = primitive.NewObjectID()
	coupon.CreatedAt = now
	r.coupons[coupon.ID] = coupon
	return true, nil, nil
}

func (r *fakeCouponRepo) MarkUsed(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.coupons[id]; ok {
		c.Used = true
		return nil
	}
	return mongo.ErrNoDocuments
}

type fakeMetricsRepo struct {
	mu        sync.Mutex
	snapshots map[primitive.ObjectID]*models.MetricsSnapshot
}

var _ repositories.MetricsRepository = (*fakeMetricsRepo)(nil)

func newFakeMetricsRepo() *fakeMetricsRepo {
	return &fakeMetricsRepo{snapshots: map[primitive.ObjectID]*models.MetricsSnapshot{}}
}

func (r *fakeMetricsRepo) FindByAccount(_ context.Context, accountID primitive.ObjectID) (*models.MetricsSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.snapshots[accountID]; ok {
		return s, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeMetricsRepo) Upsert(_ context.Context, snapshot *models.MetricsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snapshot.AccountID] = snapshot
	return nil
}

type fakeOperatorRepo struct {
	mu        sync.Mutex
	operators map[primitive.ObjectID]*models.Operator
}

var _ repositories.OperatorRepository = (*fakeOperatorRepo)(nil)

func newFakeOperatorRepo() *fakeOperatorRepo {
	return &fakeOperatorRepo{operators: map[primitive.ObjectID]*models.Operator{}}
}

func (r *fakeOperatorRepo) Create(_ context.Context, operator *models.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if operator.ID.IsZero() {
		operator.ID = primitive.NewObjectID()
	}
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = operator.CreatedAt
	r.operators[operator.ID] = operator
	return nil
}

func (r *fakeOperatorRepo) FindByEmail(_ context.Context, email string) (*models.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.operators {
		if o.Email == email {
			return o, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeOperatorRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.operators[id]; ok {
		return o, nil
	}
	return nil, mongo.ErrNoDocuments
}
