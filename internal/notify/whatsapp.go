package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsappScheme = "whatsapp:"

// MessageCreator is satisfied by the Twilio REST API service.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsAppSender sends WhatsApp messages through Twilio.
type WhatsAppSender struct {
	api  MessageCreator
	from string
}

func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return NewWhatsAppSenderWithAPI(client.Api, cfg.From)
}

func NewWhatsAppSenderWithAPI(api MessageCreator, from string) *WhatsAppSender {
	return &WhatsAppSender{api: api, from: whatsappAddress(from)}
}

func (s *WhatsAppSender) Send(ctx context.Context, phone, text string) error {
	// the Twilio client does not take a context
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("whatsapp delivery cancelled: %w", err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddress(phone))
	params.SetFrom(s.from)
	params.SetBody(text)

	if _, err := s.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}

	return nil
}

func whatsappAddress(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, whatsappScheme) {
		return phone
	}

	return whatsappScheme + phone
}
