package payments_test

import (
	"errors"
	"testing"
	"time"

	"sklep/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

func sign(secret string, ts time.Time, payload []byte) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: ts,
	}).Header
}

const completed = `{"id":"evt_1","object":"event","type":"checkout.session.completed",` +
	`"data":{"object":{"id":"cs_test_1","object":"checkout.session","url":null,"metadata":{"product_id":"12"}}}}`

func TestVerifyWebhook_CheckoutSession(t *testing.T) {
	payload := []byte(completed)

	event, err := payments.VerifyWebhook(payload, sign("whsec_1", time.Now(), payload), "whsec_1")

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, payments.EventCheckoutSessionCompleted, event.Type)
	assert.Equal(t, "cs_test_1", event.SessionID)
	assert.Equal(t, "12", event.Metadata["product_id"])
}

func TestVerifyWebhook_SignatureFailures(t *testing.T) {
	payload := []byte(completed)

	cases := map[string]string{
		"wrong secret": sign("whsec_2", time.Now(), payload),
		"too old":      sign("whsec_1", time.Now().Add(-time.Hour), payload),
		"malformed":    "v1=deadbeef",
		"empty":        "",
	}
	for name, header := range cases {
		_, err := payments.VerifyWebhook(payload, header, "whsec_1")
		assert.True(t, errors.Is(err, payments.ErrInvalidSignature), "%s: %v", name, err)
	}
}

func TestVerifyWebhook_TamperedPayload(t *testing.T) {
	header := sign("whsec_1", time.Now(), []byte(completed))
	tampered := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"metadata":{"product_id":"13"}}}}`)

	_, err := payments.VerifyWebhook(tampered, header, "whsec_1")

	assert.True(t, errors.Is(err, payments.ErrInvalidSignature), err)
}

func TestVerifyWebhook_InvalidPayload(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type":`)

	_, err := payments.VerifyWebhook(payload, sign("whsec_1", time.Now(), payload), "whsec_1")

	assert.True(t, errors.Is(err, payments.ErrInvalidPayload), err)
}

func TestVerifyWebhook_OtherEventTypes(t *testing.T) {
	payload := []byte(`{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`)

	event, err := payments.VerifyWebhook(payload, sign("whsec_1", time.Now(), payload), "whsec_1")

	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", event.Type)
	assert.Empty(t, event.SessionID)
}
