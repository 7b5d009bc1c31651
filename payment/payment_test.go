package payment

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/notify"
	"github.com/viduni-ubesekara/GreenLink-Project/realtime"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
	"github.com/viduni-ubesekara/GreenLink-Project/store/storetest"
)

type recorder struct {
	mu     sync.Mutex
	accept bool
	msgs   []notify.Message
	events []realtime.Event
	erased []string
}

func (r *recorder) Enqueue(msg notify.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.accept
}

func (r *recorder) Publish(ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Remove(ref string) error {
	r.erased = append(r.erased, ref)
	return nil
}

func (r *recorder) channel(ch notify.Channel) []notify.Message {
	var out []notify.Message
	for _, m := range r.msgs {
		if m.Channel == ch {
			out = append(out, m)
		}
	}
	return out
}

func newService(t *testing.T) (*Service, *recorder) {
	rec := &recorder{accept: true}
	return NewService(storetest.New(t), rec, rec, rec, "94", zap.NewNop()), rec
}

func draft() *models.Payment {
	return &models.Payment{
		Name:         "Nimal Perera",
		Email:        "nimal@example.com",
		PhoneNumber:  "0771234567",
		BillID:       "GL-0001",
		Amount:       decimal.RequireFromString("200"),
		OrderReceipt: "/uploads/receipt.pdf",
		PaymentSlip:  "/uploads/slip.png",
	}
}

func TestCanTransition(t *testing.T) {
	statuses := []models.PaymentStatus{
		models.PaymentPending, models.PaymentSubmitted, models.PaymentApproved, models.PaymentRejected,
	}
	allowed := map[[2]models.PaymentStatus]bool{
		{models.PaymentPending, models.PaymentSubmitted}:  true,
		{models.PaymentSubmitted, models.PaymentApproved}: true,
		{models.PaymentSubmitted, models.PaymentRejected}: true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]models.PaymentStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestValidatePayer(t *testing.T) {
	assert.NoError(t, ValidatePayer(Payer{Name: "Nimal", Email: "nimal@example.com", PhoneNumber: "0771234567"}))

	err := ValidatePayer(Payer{Name: " ", Email: "not-an-email", PhoneNumber: "077-123"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 3)

	err = ValidatePayer(Payer{Name: "Nimal", Email: "Nimal <nimal@example.com>", PhoneNumber: "07712345678"})
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "phoneNumber")
}

func TestSubmit(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	p := draft()
	p.Status = models.PaymentApproved
	require.NoError(t, svc.Submit(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.PaymentSubmitted, p.Status)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSubmitted, stored.Status)
	assert.True(t, decimal.RequireFromString("200").Equal(stored.Amount))

	require.Len(t, rec.events, 1)
	assert.Equal(t, realtime.EventPaymentSubmitted, rec.events[0].Type)
	events := rec.channel(notify.ChannelEvent)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Body, `"status":"Submitted"`)
	assert.Equal(t, p.ID, events[0].Key)

	bad := draft()
	bad.PhoneNumber = "123"
	assert.True(t, apperr.Is(svc.Submit(ctx, bad), apperr.KindValidation))
}

func TestApprove(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	p := draft()
	require.NoError(t, svc.Submit(ctx, p))

	d, err := svc.Approve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, d.Payment.Status)
	assert.True(t, d.Queued)
	assert.Equal(t, notify.PaymentApprovedText("Nimal Perera"), d.Message)
	assert.True(t, strings.HasPrefix(d.WhatsAppLink, "https://wa.me/94771234567?text=Hi%20Nimal%20Perera"))

	wa := rec.channel(notify.ChannelWhatsApp)
	require.Len(t, wa, 1)
	assert.Equal(t, "0771234567", wa[0].Recipient)
	assert.Contains(t, wa[0].Body, "Hi Nimal Perera")

	_, err = svc.Approve(ctx, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
	_, err = svc.Reject(ctx, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
	assert.Len(t, rec.channel(notify.ChannelWhatsApp), 1)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, stored.Status)
}

func TestReject_NotificationFailureKeepsStatus(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	p := draft()
	require.NoError(t, svc.Submit(ctx, p))

	rec.accept = false
	d, err := svc.Reject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, d.Queued)
	assert.Equal(t, notify.PaymentRejectedText("Nimal Perera"), d.Message)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRejected, stored.Status)
	assert.Equal(t, realtime.EventPaymentRejected, rec.events[len(rec.events)-1].Type)
}

func TestDecide_UnknownAndPending(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Approve(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	st := storetest.New(t)
	pending := draft()
	pending.ID = "pending-1"
	pending.Status = models.PaymentPending
	require.NoError(t, st.CreatePayment(ctx, pending))
	other := NewService(st, nil, nil, nil, "94", zap.NewNop())
	_, err = other.Approve(ctx, pending.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
}

func TestDelete(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	p := draft()
	require.NoError(t, svc.Submit(ctx, p))
	_, err := svc.Approve(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ElementsMatch(t, []string{"/uploads/receipt.pdf", "/uploads/slip.png"}, rec.erased)
	assert.Equal(t, realtime.EventPaymentDeleted, rec.events[len(rec.events)-1].Type)

	list, err := svc.List(ctx, store.PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.True(t, apperr.Is(svc.Delete(ctx, p.ID), apperr.KindNotFound))
}
