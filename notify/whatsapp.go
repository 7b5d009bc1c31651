package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// WhatsAppSender posts text messages to an HTTP WhatsApp gateway.
type WhatsAppSender struct {
	apiURL      string
	token       string
	countryCode string
	client      *http.Client
}

type whatsAppRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type whatsAppResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewWhatsAppSender(apiURL, token, countryCode string) *WhatsAppSender {
	return &WhatsAppSender{
		apiURL:      apiURL,
		token:       token,
		countryCode: countryCode,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *WhatsAppSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(whatsAppRequest{
		To:      FormatPhone(s.countryCode, msg.Recipient),
		Message: msg.Body,
	})
	if err != nil {
		return errors.Wrap(err, "whatsapp: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "whatsapp: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "whatsapp: gateway unreachable")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode/100 != 2 {
		return errors.Errorf("whatsapp: gateway error (%d): %s", resp.StatusCode, string(body))
	}

	var out whatsAppResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return errors.Wrap(err, "whatsapp: decode response")
		}
	}
	if out.Error != nil {
		return errors.Errorf("whatsapp: %s", out.Error.Message)
	}
	return nil
}
