package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "rzp-secret"
	sig := sign("order_abc", "pay_xyz", secret)

	assert.True(t, VerifySignature("order_abc", "pay_xyz", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_other", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, "wrong-secret"))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "", secret))
}

type fakeOrderAPI struct {
	gotData map[string]interface{}
	resp    map[string]interface{}
	err     error
}

func (f *fakeOrderAPI) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	f.gotData = data
	return f.resp, f.err
}

func TestCreateOrder(t *testing.T) {
	api := &fakeOrderAPI{resp: map[string]interface{}{"id": "order_abc"}}
	c := &Client{orders: api, keySecret: "rzp-secret"}

	id, err := c.CreateOrder(648, "local-order-1", "user-9", "subscription", "Pro 6D")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", id)

	// amount goes over the wire in paise
	assert.Equal(t, int64(64800), api.gotData["amount"])
	assert.Equal(t, "INR", api.gotData["currency"])
	assert.Equal(t, "local-order-1", api.gotData["receipt"])

	notes, ok := api.gotData["notes"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-9", notes["userId"])
	assert.Equal(t, "Pro 6D", notes["planName"])
}

func TestCreateOrderErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		api := &fakeOrderAPI{err: errors.New("boom")}
		c := &Client{orders: api}
		_, err := c.CreateOrder(648, "r", "u", "on_demand", "")
		assert.Error(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		api := &fakeOrderAPI{resp: map[string]interface{}{}}
		c := &Client{orders: api}
		_, err := c.CreateOrder(648, "r", "u", "on_demand", "")
		assert.Error(t, err)
	})
}
