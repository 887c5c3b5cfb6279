package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/richxcame/carwash-booking/pkg/config"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/richxcame/carwash-booking/pkg/resilience"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

const whatsappPrefix = "whatsapp:"

// MessageCreator is the slice of the Twilio REST API the sender uses
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioWhatsApp sends messages through Twilio's WhatsApp channel
type TwilioWhatsApp struct {
	api         MessageCreator
	from        string
	defaultLang string
	breaker     *resilience.CircuitBreaker
}

// NewTwilioWhatsApp creates a sender from config. breaker may be nil.
func NewTwilioWhatsApp(cfg config.WhatsAppConfig, breaker *resilience.CircuitBreaker) *TwilioWhatsApp {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return NewTwilioWhatsAppWithAPI(client.Api, cfg.FromNumber, cfg.DefaultLang, breaker)
}

// NewTwilioWhatsAppWithAPI creates a sender around an existing API client
func NewTwilioWhatsAppWithAPI(api MessageCreator, from, defaultLang string, breaker *resilience.CircuitBreaker) *TwilioWhatsApp {
	return &TwilioWhatsApp{api: api, from: from, defaultLang: defaultLang, breaker: breaker}
}

// Send implements Notifier
func (t *TwilioWhatsApp) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	body, err := Render(msg, t.defaultLang)
	if err != nil {
		return nil, err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(whatsappPrefix + t.from)
	params.SetTo(whatsappPrefix + msg.Phone)
	params.SetBody(body)

	send := func(ctx context.Context) (interface{}, error) {
		return t.api.CreateMessage(params)
	}

	var result interface{}
	if t.breaker != nil {
		result, err = t.breaker.Execute(ctx, send)
	} else {
		result, err = send(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to send whatsapp message: %w", err)
	}

	receipt := &Receipt{ID: msg.ID, Status: StatusSent, SentAt: time.Now()}
	if resp, ok := result.(*twilioApi.ApiV2010Message); ok && resp != nil && resp.Sid != nil {
		receipt.ProviderID = *resp.Sid
	}

	logger.WithContext(ctx).Info("whatsapp message sent",
		zap.String("notification_id", msg.ID),
		zap.String("template", string(msg.Template)),
		zap.String("provider_id", receipt.ProviderID),
	)
	return receipt, nil
}
