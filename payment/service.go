package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/metrics"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/notify"
	"github.com/viduni-ubesekara/GreenLink-Project/realtime"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

type Notifier interface {
	Enqueue(msg notify.Message) bool
}

type Publisher interface {
	Publish(ev realtime.Event)
}

type FileRemover interface {
	Remove(ref string) error
}

// Decision is the outcome of an approve or reject. WhatsAppLink opens a
// chat with the payer, prefilled with Message, for operators who prefer
// to send it by hand.
type Decision struct {
	Payment      *models.Payment `json:"payment"`
	Message      string          `json:"message"`
	WhatsAppLink string          `json:"whatsappLink"`
	Queued       bool            `json:"queued"`
}

type Service struct {
	payments    store.PaymentStore
	notifier    Notifier
	publisher   Publisher
	files       FileRemover
	countryCode string
	log         *zap.Logger
	now         func() time.Time
}

func NewService(payments store.PaymentStore, notifier Notifier, publisher Publisher, files FileRemover, countryCode string, log *zap.Logger) *Service {
	return &Service{
		payments:    payments,
		notifier:    notifier,
		publisher:   publisher,
		files:       files,
		countryCode: countryCode,
		log:         log,
		now:         time.Now,
	}
}

// Submit records p as a new Submitted payment.
func (s *Service) Submit(ctx context.Context, p *models.Payment) error {
	payer := Payer{Name: p.Name, Email: p.Email, PhoneNumber: p.PhoneNumber}
	if err := ValidatePayer(payer); err != nil {
		return err
	}
	payer.trim()
	p.Name, p.Email, p.PhoneNumber = payer.Name, payer.Email, payer.PhoneNumber

	ts := s.now().UTC()
	p.ID = uuid.NewString()
	p.Status = models.PaymentSubmitted
	p.CreatedAt = ts
	p.UpdatedAt = ts
	if err := s.payments.CreatePayment(ctx, p); err != nil {
		return err
	}
	metrics.PaymentTransitions.WithLabelValues("new", string(models.PaymentSubmitted)).Inc()
	s.log.Info("payment submitted",
		zap.String("payment_id", p.ID),
		zap.String("bill_id", p.BillID),
		zap.String("amount", p.Amount.StringFixed(2)))

	s.announce(realtime.EventPaymentSubmitted, p)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.payments.GetPayment(ctx, id)
}

func (s *Service) List(ctx context.Context, filter store.PaymentFilter) ([]models.Payment, error) {
	return s.payments.ListPayments(ctx, filter)
}

func (s *Service) Approve(ctx context.Context, id string) (*Decision, error) {
	return s.decide(ctx, id, models.PaymentApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (*Decision, error) {
	return s.decide(ctx, id, models.PaymentRejected)
}

func (s *Service) decide(ctx context.Context, id string, to models.PaymentStatus) (*Decision, error) {
	current, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, apperr.InvalidTransition("payment %s is %s and cannot become %s", id, current.Status, to)
	}
	updated, err := s.payments.TransitionPayment(ctx, id, current.Status, to)
	if err != nil {
		return nil, err
	}
	metrics.PaymentTransitions.WithLabelValues(string(current.Status), string(to)).Inc()

	text := notify.PaymentRejectedText(updated.Name)
	event := realtime.EventPaymentRejected
	if to == models.PaymentApproved {
		text = notify.PaymentApprovedText(updated.Name)
		event = realtime.EventPaymentApproved
	}

	// The status change is committed; delivery problems are only logged.
	queued := false
	if s.notifier != nil {
		queued = s.notifier.Enqueue(notify.Message{
			Channel:   notify.ChannelWhatsApp,
			Recipient: updated.PhoneNumber,
			Body:      text,
			Key:       updated.ID,
		})
		if !queued {
			s.log.Warn("payment notification dropped", zap.String("payment_id", updated.ID))
		}
	}
	s.log.Info("payment reviewed",
		zap.String("payment_id", updated.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)))

	s.announce(event, updated)
	return &Decision{
		Payment:      updated,
		Message:      text,
		WhatsAppLink: notify.WhatsAppLink(s.countryCode, updated.PhoneNumber, text),
		Queued:       queued,
	}, nil
}

// Delete removes a payment in any state together with its uploaded files.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.payments.DeletePayment(ctx, id); err != nil {
		return err
	}
	for _, ref := range []string{p.OrderReceipt, p.PaymentSlip} {
		s.removeFile(ref)
	}
	s.log.Info("payment deleted", zap.String("payment_id", id))
	s.announce(realtime.EventPaymentDeleted, p)
	return nil
}

func (s *Service) removeFile(ref string) {
	if ref == "" || s.files == nil {
		return
	}
	if err := s.files.Remove(ref); err != nil {
		s.log.Warn("removing payment attachment", zap.String("ref", ref), zap.Error(err))
	}
}

type paymentEvent struct {
	Type      string               `json:"type"`
	PaymentID string               `json:"paymentId"`
	BillID    string               `json:"billId"`
	Status    models.PaymentStatus `json:"status"`
	Amount    string               `json:"amount"`
	At        time.Time            `json:"at"`
}

// announce pushes the change to dashboards and queues it for the event
// stream.
func (s *Service) announce(eventType string, p *models.Payment) {
	if s.publisher != nil {
		s.publisher.Publish(realtime.Event{Type: eventType, Data: p})
	}
	if s.notifier == nil {
		return
	}
	body, err := json.Marshal(paymentEvent{
		Type:      eventType,
		PaymentID: p.ID,
		BillID:    p.BillID,
		Status:    p.Status,
		Amount:    p.Amount.StringFixed(2),
		At:        s.now().UTC(),
	})
	if err != nil {
		s.log.Error("encoding payment event", zap.Error(err))
		return
	}
	s.notifier.Enqueue(notify.Message{
		Channel: notify.ChannelEvent,
		Subject: eventType,
		Body:    string(body),
		Key:     p.ID,
	})
}
