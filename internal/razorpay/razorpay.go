package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	rzpsdk "github.com/razorpay/razorpay-go"

	"koelnr-payments/internal/config"
)

// orderAPI is the slice of the SDK the client needs; lets tests stub the
// network call.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Client struct {
	orders    orderAPI
	keySecret string
}

func NewClient(cfg *config.Razorpay) *Client {
	sdk := rzpsdk.NewClient(cfg.KeyID, cfg.KeySecret)
	return &Client{
		orders:    sdk.Order,
		keySecret: cfg.KeySecret,
	}
}

// CreateOrder registers the order with Razorpay. Amount is in rupees and
// converted to paise on the wire; order metadata travels in notes.
func (c *Client) CreateOrder(amount int64, receipt, userID, orderType, planName string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount * 100,
		"currency": "INR",
		"receipt":  receipt,
		"notes": map[string]interface{}{
			"userId":   userID,
			"type":     orderType,
			"planName": planName,
		},
	}

	resp, err := c.orders.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay create order: %w", err)
	}

	id, ok := resp["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay create order: missing id in response")
	}
	return id, nil
}

// VerifySignature checks the checkout-completion signature:
// HMAC-SHA256 over "order_id|payment_id" keyed with the API secret.
func (c *Client) VerifySignature(razorpayOrderID, razorpayPaymentID, signature string) bool {
	return VerifySignature(razorpayOrderID, razorpayPaymentID, signature, c.keySecret)
}

func VerifySignature(razorpayOrderID, razorpayPaymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
