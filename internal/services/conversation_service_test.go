package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/pkg/smsgateway"
)

type conversationFixture struct {
	accounts   *fakeAccountRepo
	recipients *fakeRecipientRepo
	coupons    *fakeCouponRepo
	gateway    *smsgateway.MockGateway
	service    *ConversationService
	account    *models.Account
	recipient  *models.Recipient
}

func newConversationFixture(t *testing.T) *conversationFixture {
	t.Helper()
	f := &conversationFixture{
		accounts:   newFakeAccountRepo(),
		recipients: newFakeRecipientRepo(),
		coupons:    newFakeCouponRepo(),
		gateway:    smsgateway.NewMockGateway(),
	}
	f.service = NewConversationService(f.accounts, f.recipients, f.coupons, f.gateway, config.ConversationConfig{
		PromoKeyword:     "DRINK",
		SupportContact:   "support@lastcall.app",
		CouponTTLMinutes: 10,
		CouponType:       "welcome",
		MinimumAge:       21,
	})

	f.account = &models.Account{
		BarName:            "The Rusty Nail",
		Slug:               "the-rusty-nail",
		PhoneNumber:        "+15550001111",
		MessagingProfileID: "profile-1",
		CouponsEnabled:     true,
	}
	require.NoError(t, f.accounts.Create(context.Background(), f.account))

	f.recipient = &models.Recipient{
		AccountID:   f.account.ID,
		PhoneNumber: "+15552223333",
		Consent:     true,
		Subscribe:   true,
	}
	require.NoError(t, f.recipients.Create(context.Background(), f.recipient))
	return f
}

func (f *conversationFixture) inbound(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, f.service.HandleInbound(context.Background(), f.recipient.PhoneNumber, f.account.PhoneNumber, body))
}

func (f *conversationFixture) lastReply(t *testing.T) smsgateway.SentMessage {
	t.Helper()
	sent := f.gateway.Sent()
	require.NotEmpty(t, sent)
	return sent[len(sent)-1]
}

func TestInboundStopStartRoundTrip(t *testing.T) {
	f := newConversationFixture(t)

	f.inbound(t, "stop")
	assert.False(t, f.recipient.Subscribe)
	assert.True(t, f.recipient.Consent)
	assert.Contains(t, f.lastReply(t).Text, "unsubscribed")

	f.inbound(t, "START")
	assert.True(t, f.recipient.Subscribe)
	assert.Contains(t, f.lastReply(t).Text, "resubscribed")
}

func TestInboundDoubleStopIsIdempotent(t *testing.T) {
	f := newConversationFixture(t)

	f.inbound(t, "STOP")
	f.inbound(t, "STOP")

	assert.False(t, f.recipient.Subscribe)
	// Both messages are acknowledged
	assert.Len(t, f.gateway.Sent(), 2)
}

func TestInboundHelpReply(t *testing.T) {
	f := newConversationFixture(t)

	f.inbound(t, "help")
	reply := f.lastReply(t)
	assert.Contains(t, reply.Text, "support@lastcall.app")
	assert.Equal(t, f.account.PhoneNumber, reply.From)
	assert.Equal(t, f.recipient.PhoneNumber, reply.To)
}

func TestInboundWithoutConsentIsSilentlyDropped(t *testing.T) {
	f := newConversationFixture(t)
	f.recipient.Consent = false
	require.NoError(t, f.recipients.Update(context.Background(), f.recipient))

	f.inbound(t, "STOP")
	f.inbound(t, "DRINK")

	assert.Empty(t, f.gateway.Sent())
	assert.True(t, f.recipient.Subscribe)
}

func TestInboundUnknownSenderIsIgnored(t *testing.T) {
	f := newConversationFixture(t)

	err := f.service.HandleInbound(context.Background(), "+15559990000", f.account.PhoneNumber, "STOP")
	require.NoError(t, err)
	assert.Empty(t, f.gateway.Sent())
}

func TestInboundUnknownReceiverIsIgnored(t *testing.T) {
	f := newConversationFixture(t)

	err := f.service.HandleInbound(context.Background(), f.recipient.PhoneNumber, "+15558887777", "STOP")
	require.NoError(t, err)
	assert.Empty(t, f.gateway.Sent())
	assert.True(t, f.recipient.Subscribe)
}

func TestPromoKeywordIssuesSingleActiveCoupon(t *testing.T) {
	f := newConversationFixture(t)

	f.inbound(t, "DRINK")
	first := f.lastReply(t)
	assert.Contains(t, first.Text, "Your code is")

	// A second request while the first coupon is active must not mint a
	// second code.
	f.inbound(t, "drink")
	second := f.lastReply(t)
	assert.Contains(t, second.Text, "already have an active code")

	active, err := f.coupons.FindActiveByRecipient(context.Background(), f.recipient.ID, time.Now())
	require.NoError(t, err)
	assert.Contains(t, second.Text, active.Code)
}

func TestPromoKeywordIgnoredWhenCouponsDisabled(t *testing.T) {
	f := newConversationFixture(t)
	f.account.CouponsEnabled = false
	require.NoError(t, f.accounts.Update(context.Background(), f.account))

	f.inbound(t, "DRINK")
	assert.Empty(t, f.gateway.Sent())
}

func TestBirthdateVerificationConfirmsAndOverwrites(t *testing.T) {
	f := newConversationFixture(t)
	old := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	f.recipient.Birthdate = &old
	require.NoError(t, f.recipients.Update(context.Background(), f.recipient))

	f.inbound(t, "03/15/1990")

	require.NotNil(t, f.recipient.Birthdate)
	assert.Equal(t, 1990, f.recipient.Birthdate.Year())
	assert.Equal(t, time.March, f.recipient.Birthdate.Month())
	assert.True(t, f.recipient.BirthdateConfirmed)
	assert.Contains(t, f.lastReply(t).Text, "DRINK")
}

func TestBirthdateUnderMinimumAgeIsRejected(t *testing.T) {
	f := newConversationFixture(t)
	young := time.Now().AddDate(-18, 0, 0)

	f.inbound(t, young.Format("01/02/2006"))

	assert.False(t, f.recipient.BirthdateConfirmed)
	assert.Contains(t, f.lastReply(t).Text, "21 or older")
}

func TestBirthdateImpossibleDateIsNotStored(t *testing.T) {
	f := newConversationFixture(t)

	// Matches the MM/DD/YYYY shape but is not a real date
	f.inbound(t, "02/31/1990")

	assert.Nil(t, f.recipient.Birthdate)
	assert.False(t, f.recipient.BirthdateConfirmed)
	assert.Empty(t, f.gateway.Sent())
}

func TestUnhandledMessageGetsNoReply(t *testing.T) {
	f := newConversationFixture(t)

	f.inbound(t, "what time do you open?")
	assert.Empty(t, f.gateway.Sent())
}

func TestCommandPrecedenceStopBeatsKeyword(t *testing.T) {
	f := newConversationFixture(t)

	// Whitespace and casing never change command meaning
	f.inbound(t, "  Stop  ")
	assert.False(t, f.recipient.Subscribe)
	assert.Contains(t, f.lastReply(t).Text, "unsubscribed")
}
