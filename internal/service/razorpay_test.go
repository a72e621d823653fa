package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"koelnr-payments/internal/config"
	"koelnr-payments/internal/dto"
	"koelnr-payments/internal/model"
	"koelnr-payments/internal/razorpay"
	"koelnr-payments/internal/repository"
)

const rzpSecret = "rzp-secret"

func rzpSign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(rzpSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// seedRazorpayOrder writes a created order as the Razorpay create flow
// would, without the API round trip.
func seedRazorpayOrder(t *testing.T, env *testEnv, id, rzpOrderID string, orderType model.OrderType) {
	t.Helper()

	order := &model.Order{
		ID:           id,
		UserID:       "user-9",
		Type:         orderType,
		TotalAmount:  5699,
		Currency:     "INR",
		Status:       model.OrderStatusCreated,
		Gateway:      model.GatewayRazorpay,
		GatewayTxnID: rzpOrderID,
	}
	if orderType == model.OrderTypeSubscription {
		order.PlanName = "Pro 6D"
		order.VehicleType = model.VehicleSuvMuv
	}
	require.NoError(t, env.orderRepo.Create(context.Background(), env.db, order))
}

func newRazorpayService(env *testEnv) RazorpayService {
	client := razorpay.NewClient(&config.Razorpay{KeyID: "rzp-key", KeySecret: rzpSecret})
	log := zap.NewNop()
	provisioner := NewSubscriptionProvisioner(env.subscriptionRepo, log)
	catalogRepo := repository.NewCatalogRepository(env.db)
	return NewRazorpayService(env.db, client, env.orderRepo, catalogRepo, provisioner, log)
}

func TestRazorpayVerifyPayment(t *testing.T) {
	env := newTestEnv(t)
	svc := newRazorpayService(env)
	ctx := context.Background()

	seedRazorpayOrder(t, env, "order-1", "order_rzp1", model.OrderTypeSubscription)

	result, err := svc.VerifyPayment(ctx, "user-9", &dto.RazorpayVerifyRequest{
		OrderID:           "order-1",
		RazorpayOrderID:   "order_rzp1",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: rzpSign("order_rzp1", "pay_abc"),
	})
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, model.OrderStatusPaid, result.Status)

	order, err := env.orderRepo.FindByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_abc", order.GatewayPaymentID)

	sub, err := env.subscriptionRepo.FindByOrderID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5699), sub.MonthlyPrice)
	assert.Equal(t, 30*24*time.Hour, sub.CurrentPeriodEnd.Sub(sub.StartDate))
}

func TestRazorpayVerifyPaymentReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := newRazorpayService(env)
	ctx := context.Background()

	seedRazorpayOrder(t, env, "order-1", "order_rzp1", model.OrderTypeSubscription)

	req := &dto.RazorpayVerifyRequest{
		OrderID:           "order-1",
		RazorpayOrderID:   "order_rzp1",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: rzpSign("order_rzp1", "pay_abc"),
	}

	first, err := svc.VerifyPayment(ctx, "user-9", req)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := svc.VerifyPayment(ctx, "user-9", req)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, model.OrderStatusPaid, second.Status)

	count, err := env.subscriptionRepo.CountByOrderID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRazorpayVerifyPaymentRejections(t *testing.T) {
	env := newTestEnv(t)
	svc := newRazorpayService(env)
	ctx := context.Background()

	seedRazorpayOrder(t, env, "order-1", "order_rzp1", model.OrderTypeOnDemand)

	t.Run("bad signature", func(t *testing.T) {
		_, err := svc.VerifyPayment(ctx, "user-9", &dto.RazorpayVerifyRequest{
			OrderID:           "order-1",
			RazorpayOrderID:   "order_rzp1",
			RazorpayPaymentID: "pay_abc",
			RazorpaySignature: "forged",
		})
		assert.ErrorIs(t, err, ErrInvalidHash)

		order, err := env.orderRepo.FindByID(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCreated, order.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.VerifyPayment(ctx, "user-9", &dto.RazorpayVerifyRequest{
			OrderID:           "missing",
			RazorpayOrderID:   "order_rzp1",
			RazorpayPaymentID: "pay_abc",
			RazorpaySignature: rzpSign("order_rzp1", "pay_abc"),
		})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("someone else's order", func(t *testing.T) {
		_, err := svc.VerifyPayment(ctx, "intruder", &dto.RazorpayVerifyRequest{
			OrderID:           "order-1",
			RazorpayOrderID:   "order_rzp1",
			RazorpayPaymentID: "pay_abc",
			RazorpaySignature: rzpSign("order_rzp1", "pay_abc"),
		})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("gateway order id mismatch", func(t *testing.T) {
		_, err := svc.VerifyPayment(ctx, "user-9", &dto.RazorpayVerifyRequest{
			OrderID:           "order-1",
			RazorpayOrderID:   "order_other",
			RazorpayPaymentID: "pay_abc",
			RazorpaySignature: rzpSign("order_other", "pay_abc"),
		})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
