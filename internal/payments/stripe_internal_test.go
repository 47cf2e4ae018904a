package payments

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func TestWrapStripeError(t *testing.T) {
	assert.NoError(t, wrapStripeError("retrieve price", nil))

	serr := &stripe.Error{
		Type:           stripe.ErrorTypeInvalidRequest,
		Code:           stripe.ErrorCodeResourceMissing,
		HTTPStatusCode: http.StatusNotFound,
		Msg:            "No such price: 'price_1'",
	}
	err := wrapStripeError("retrieve price", serr)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "retrieve price", perr.Op)
	assert.Equal(t, http.StatusNotFound, perr.HTTPStatus)
	assert.True(t, IsInvalidRequest(err))

	err = wrapStripeError("create price", context.Canceled)
	assert.False(t, IsProviderError(err))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.EqualError(t, err, "create price: context canceled")
}
