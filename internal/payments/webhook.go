package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Event types handled by the reconciler.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidPayload   = errors.New("invalid payload")
)

// WebhookEvent is a verified provider notification.
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
	Metadata  map[string]string
	Payload   []byte
}

// VerifyWebhook checks the signature header against the shared secret and decodes
// the event. Signature problems wrap ErrInvalidSignature, anything else that stops
// decoding wraps ErrInvalidPayload.
func VerifyWebhook(payload []byte, signature, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrNotSigned),
			errors.Is(err, webhook.ErrInvalidHeader),
			errors.Is(err, webhook.ErrNoValidSignature),
			errors.Is(err, webhook.ErrTooOld):
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	out := &WebhookEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: payload,
	}
	if strings.HasPrefix(out.Type, "checkout.session.") {
		if event.Data == nil {
			return nil, fmt.Errorf("%w: event %s has no data", ErrInvalidPayload, event.ID)
		}
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		out.SessionID = session.ID
		out.Metadata = session.Metadata
	}
	return out, nil
}
