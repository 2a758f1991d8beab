package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sendgrid/rest"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/internal/domain"
)

const twilioHost = "https://api.twilio.com"

var _ billing.MessageSender = (*TwilioWhatsApp)(nil)

// TwilioWhatsApp envía mensajes de WhatsApp por la API REST de Twilio (Messages.json).
type TwilioWhatsApp struct {
	accountSID string
	authToken  string
	from       string
	host       string
}

// NewTwilioWhatsApp construye el canal; from es el número habilitado para WhatsApp (+234...).
func NewTwilioWhatsApp(accountSID, authToken, from string) *TwilioWhatsApp {
	return &TwilioWhatsApp{accountSID: accountSID, authToken: authToken, from: from, host: twilioHost}
}

// WithHost cambia el host de la API (tests contra httptest).
func (t *TwilioWhatsApp) WithHost(host string) *TwilioWhatsApp {
	t.host = host
	return t
}

// SendMessage publica el mensaje; Twilio responde 201 si lo acepta.
func (t *TwilioWhatsApp) SendMessage(ctx context.Context, msg billing.Message) error {
	form := url.Values{}
	form.Set("From", whatsappAddr(t.from))
	form.Set("To", whatsappAddr(msg.To))
	form.Set("Body", msg.Body)

	auth := base64.StdEncoding.EncodeToString([]byte(t.accountSID + ":" + t.authToken))
	req := rest.Request{
		Method:  rest.Post,
		BaseURL: fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.host, t.accountSID),
		Headers: map[string]string{
			"Authorization": "Basic " + auth,
			"Content-Type":  "application/x-www-form-urlencoded",
		},
		Body: []byte(form.Encode()),
	}
	res, err := rest.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("twilio: %w: %v", domain.ErrExternalService, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("twilio: %w: status %d: %s", domain.ErrExternalService, res.StatusCode, res.Body)
	}
	return nil
}

func whatsappAddr(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "whatsapp:") {
		return phone
	}
	return "whatsapp:" + phone
}
